package Convection2D

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

var ErrInvalidParameter = errors.New("invalid parameter")

// Parameter is the (Grashof, Prandtl) pair the model is evaluated at
type Parameter struct {
	Grashof float64 `json:"Grashof"`
	Prandtl float64 `json:"Prandtl"`
}

// NewParameter reads a parameter from its two component vector form
func NewParameter(mu []float64) (p Parameter, err error) {
	if len(mu) != 2 {
		err = fmt.Errorf("%w: expected 2 components, got %d", ErrInvalidParameter, len(mu))
		return
	}
	p = Parameter{mu[0], mu[1]}
	err = p.Validate()
	return
}

func (p Parameter) Validate() error {
	if !(p.Grashof > 0) || !(p.Prandtl > 0) || math.IsInf(p.Grashof, 0) || math.IsInf(p.Prandtl, 0) {
		return fmt.Errorf("%w: Grashof = %v, Prandtl = %v, both must be finite and positive",
			ErrInvalidParameter, p.Grashof, p.Prandtl)
	}
	return nil
}

func (p Parameter) Vector() []float64 { return []float64{p.Grashof, p.Prandtl} }

func (p Parameter) String() string {
	return fmt.Sprintf("(Gr = %g, Pr = %g)", p.Grashof, p.Prandtl)
}

// ParameterSpace is the box of admissible parameters, sampled on a log scale
type ParameterSpace struct {
	Min, Max Parameter
}

func NewParameterSpace() ParameterSpace {
	return ParameterSpace{
		Min: Parameter{1, 1.e-2},
		Max: Parameter{1.e4, 1.e1},
	}
}

func (ps ParameterSpace) Validate() (err error) {
	if err = ps.Min.Validate(); err != nil {
		return
	}
	if err = ps.Max.Validate(); err != nil {
		return
	}
	if ps.Min.Grashof > ps.Max.Grashof || ps.Min.Prandtl > ps.Max.Prandtl {
		err = fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidParameter, ps.Min, ps.Max)
	}
	return
}

func (ps ParameterSpace) Contains(mu Parameter) bool {
	return mu.Grashof >= ps.Min.Grashof && mu.Grashof <= ps.Max.Grashof &&
		mu.Prandtl >= ps.Min.Prandtl && mu.Prandtl <= ps.Max.Prandtl
}

// LogEquidistributed returns an n x n grid, equally spaced in log of each
// component, ordered with Prandtl varying fastest
func (ps ParameterSpace) LogEquidistributed(n int) (mus []Parameter) {
	if n < 1 {
		return
	}
	if n == 1 {
		return []Parameter{ps.Min}
	}
	var (
		gr = make([]float64, n)
		pr = make([]float64, n)
	)
	floats.LogSpan(gr, ps.Min.Grashof, ps.Max.Grashof)
	floats.LogSpan(pr, ps.Min.Prandtl, ps.Max.Prandtl)
	for _, g := range gr {
		for _, p := range pr {
			mus = append(mus, Parameter{g, p})
		}
	}
	return
}

// LogRandom draws n parameters log-uniformly, the same seed gives the same
// sample
func (ps ParameterSpace) LogRandom(n int, seed uint64) (mus []Parameter) {
	var (
		rng          = rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
		lgMin, lgMax = math.Log(ps.Min.Grashof), math.Log(ps.Max.Grashof)
		lpMin, lpMax = math.Log(ps.Min.Prandtl), math.Log(ps.Max.Prandtl)
	)
	for i := 0; i < n; i++ {
		mus = append(mus, Parameter{
			math.Exp(lgMin + rng.Float64()*(lgMax-lgMin)),
			math.Exp(lpMin + rng.Float64()*(lpMax-lpMin)),
		})
	}
	return
}
