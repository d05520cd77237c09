package Convection2D

import (
	"math"

	"github.com/notargets/convection/utils"
)

// Continuation starts from the easy baseline and walks to the target
const (
	GrashofBaseline = 1.
	PrandtlBaseline = 1.e-2
	stepTolerance   = 1.e-10
)

type ContinuationStep struct {
	Index int
	Mu    Parameter
}

// ContinuationSteps returns the number of continuation steps to reach mu,
// one per unit of log distance from the baseline
func ContinuationSteps(mu Parameter) (N int) {
	var (
		nGr = utils.CeilTol(math.Log(mu.Grashof)-math.Log(GrashofBaseline), stepTolerance)
		nPr = utils.CeilTol(math.Log(mu.Prandtl)-math.Log(PrandtlBaseline), stepTolerance)
	)
	N = int(math.Max(1, math.Max(nGr, nPr)))
	return
}

// ContinuationSchedule interpolates geometrically from the baseline to mu.
// With a single step only the baseline is solved, mu itself is not reached.
func ContinuationSchedule(mu Parameter) (steps []ContinuationStep) {
	var (
		N     = ContinuationSteps(mu)
		denom = N - 1
	)
	if N == 1 {
		denom = 1
	}
	steps = make([]ContinuationStep, N)
	for i := 0; i < N; i++ {
		frac := float64(i) / float64(denom)
		steps[i] = ContinuationStep{
			Index: i,
			Mu: Parameter{
				Grashof: math.Exp(math.Log(GrashofBaseline) + frac*(math.Log(mu.Grashof)-math.Log(GrashofBaseline))),
				Prandtl: math.Exp(math.Log(PrandtlBaseline) + frac*(math.Log(mu.Prandtl)-math.Log(PrandtlBaseline))),
			},
		}
	}
	return
}
