package Convection2D

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/convection/utils"
)

var ErrNotConverged = errors.New("nonlinear solve did not converge")

// NonlinearProblem evaluates the discrete system at a trial solution x for
// the parameter mu passed in by the solver
type NonlinearProblem interface {
	Residual(mu Parameter, x, r []float64)
	Jacobian(mu Parameter, x []float64) utils.CSR
}

// NonlinearSolver updates x in place until the residual of p vanishes at mu
type NonlinearSolver interface {
	Solve(p NonlinearProblem, mu Parameter, x []float64) (NewtonReport, error)
}

type NewtonReport struct {
	Iterations          int
	Residual, Residual0 float64
}

// NewtonSolver is a plain Newton-Raphson iteration, converged once the
// residual 2-norm falls below ATol or below RTol times the initial norm
type NewtonSolver struct {
	MaxIterations int
	RTol, ATol    float64
	Linear        utils.LinearSolver
	Logger        *slog.Logger
}

func NewNewtonSolver() *NewtonSolver {
	return &NewtonSolver{
		MaxIterations: 25,
		RTol:          1.e-10,
		ATol:          1.e-10,
		Linear:        utils.DenseLU{},
		Logger:        slog.New(slog.DiscardHandler),
	}
}

func (ns *NewtonSolver) Solve(p NonlinearProblem, mu Parameter, x []float64) (rep NewtonReport, err error) {
	var (
		r  = make([]float64, len(x))
		dx []float64
	)
	for it := 0; ; it++ {
		p.Residual(mu, x, r)
		norm := floats.Norm(r, 2)
		if it == 0 {
			rep.Residual0 = norm
		}
		rep.Iterations, rep.Residual = it, norm
		ns.Logger.Debug("newton", "it", it, "residual", norm, "mu", mu.String())
		if math.IsNaN(norm) || math.IsInf(norm, 0) {
			err = fmt.Errorf("%w: residual is %v at iteration %d", ErrNotConverged, norm, it)
			return
		}
		if norm <= ns.ATol || norm <= ns.RTol*rep.Residual0 {
			return
		}
		if it >= ns.MaxIterations {
			err = fmt.Errorf("%w: residual %g after %d iterations (initial %g)",
				ErrNotConverged, norm, it, rep.Residual0)
			return
		}
		J := p.Jacobian(mu, x)
		floats.Scale(-1, r)
		if dx, err = ns.Linear.Solve(J, r); err != nil {
			err = fmt.Errorf("newton iteration %d: %w", it, err)
			return
		}
		floats.Add(x, dx)
	}
}
