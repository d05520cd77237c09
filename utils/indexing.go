package utils

type Index []int

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

// Mask returns a lookup of length N that is true at every index in I
func (I Index) Mask(N int) (m []bool) {
	m = make([]bool, N)
	for _, val := range I {
		m[val] = true
	}
	return
}
