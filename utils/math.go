package utils

import (
	"math"
	"sort"
)

// CeilTol is math.Ceil that does not round up values lying within tol above an
// integer, so that log(e) == 1 computed in floating point still ceils to 1.
func CeilTol(x, tol float64) float64 {
	return math.Ceil(x - tol)
}

// Unique returns the sorted distinct values of I
func (I Index) Unique() (r Index) {
	if len(I) == 0 {
		return
	}
	sorted := make(Index, len(I))
	copy(sorted, I)
	sort.Ints(sorted)
	r = append(r, sorted[0])
	for _, val := range sorted[1:] {
		if val != r[len(r)-1] {
			r = append(r, val)
		}
	}
	return
}
