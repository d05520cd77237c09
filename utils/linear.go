package utils

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrSingular = errors.New("singular linear system")

// LinearSolver solves A x = b for an assembled sparse operator
type LinearSolver interface {
	Solve(A CSR, b []float64) (x []float64, err error)
}

// DenseLU factorizes the operator densely with partial pivoting on every
// call. It is meant for the modest systems of the cavity meshes, around 1.5k
// dofs at hsize 0.1, since time grows as n^3 and memory as n^2.
type DenseLU struct {
	// MaxCond bounds the accepted condition number estimate, zero means no bound
	MaxCond float64
}

func (s DenseLU) Solve(A CSR, b []float64) (x []float64, err error) {
	var (
		nr, nc = A.Dims()
		lu     mat.LU
	)
	if nr != nc || nr != len(b) {
		err = fmt.Errorf("dimension mismatch: A is %dx%d, len(b) = %d", nr, nc, len(b))
		return
	}
	lu.Factorize(A.ToDense())
	if s.MaxCond > 0 && lu.Cond() > s.MaxCond {
		err = fmt.Errorf("%w: condition number %g exceeds %g", ErrSingular, lu.Cond(), s.MaxCond)
		return
	}
	xv := mat.NewVecDense(nr, nil)
	if err = lu.SolveVecTo(xv, false, mat.NewVecDense(nr, b)); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			err = fmt.Errorf("%w: condition number %g", ErrSingular, float64(cond))
		}
		return
	}
	x = xv.RawVector().Data
	return
}
