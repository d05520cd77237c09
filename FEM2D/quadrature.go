package FEM2D

import "math"

// QuadRule is a cubature on the reference triangle (0,0),(1,0),(0,1) in
// barycentric form, weights sum to one and are scaled by the element area
type QuadRule struct {
	L [][3]float64
	W []float64
}

func (q QuadRule) Len() int { return len(q.W) }

// Dunavant5 integrates polynomials up to degree 5 exactly
func Dunavant5() (q QuadRule) {
	var (
		a1, b1, w1 = 0.059715871789770, 0.470142064105115, 0.132394152788506
		a2, b2, w2 = 0.797426985353087, 0.101286507323456, 0.125939180544827
	)
	q.L = [][3]float64{
		{1. / 3, 1. / 3, 1. / 3},
		{a1, b1, b1}, {b1, a1, b1}, {b1, b1, a1},
		{a2, b2, b2}, {b2, a2, b2}, {b2, b2, a2},
	}
	q.W = []float64{0.225, w1, w1, w1, w2, w2, w2}
	return
}

// LineRule is a Gauss rule on [0,1], weights sum to one
type LineRule struct {
	T []float64
	W []float64
}

func (q LineRule) Len() int { return len(q.W) }

// Gauss3 integrates polynomials up to degree 5 exactly
func Gauss3() (q LineRule) {
	d := 0.5 * math.Sqrt(3./5.)
	q.T = []float64{0.5 - d, 0.5, 0.5 + d}
	q.W = []float64{5. / 18., 8. / 18., 5. / 18.}
	return
}
