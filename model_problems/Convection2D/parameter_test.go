package Convection2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParameter(t *testing.T) {
	mu, err := NewParameter([]float64{100, 0.7})
	require.NoError(t, err)
	assert.Equal(t, Parameter{100, 0.7}, mu)
	assert.Equal(t, []float64{100, 0.7}, mu.Vector())
	assert.Equal(t, "(Gr = 100, Pr = 0.7)", mu.String())

	for _, bad := range [][]float64{{1}, {1, 2, 3}, {0, 1}, {1, -1}, {math.NaN(), 1}, {math.Inf(1), 1}} {
		_, err = NewParameter(bad)
		assert.ErrorIs(t, err, ErrInvalidParameter, "%v", bad)
	}
}

func TestParameterSpaceSampling(t *testing.T) {
	ps := NewParameterSpace()
	require.NoError(t, ps.Validate())

	grid := ps.LogEquidistributed(3)
	require.Len(t, grid, 9)
	assert.InEpsilon(t, 1., grid[0].Grashof, 1.e-14)
	assert.InEpsilon(t, 1.e-2, grid[0].Prandtl, 1.e-14)
	assert.InEpsilon(t, math.Sqrt(0.1), grid[1].Prandtl, 1.e-12)
	assert.InEpsilon(t, 1.e2, grid[3].Grashof, 1.e-12)
	assert.InEpsilon(t, 1.e4, grid[8].Grashof, 1.e-12)
	assert.InEpsilon(t, 1.e1, grid[8].Prandtl, 1.e-12)
	assert.Equal(t, []Parameter{ps.Min}, ps.LogEquidistributed(1))
	assert.Empty(t, ps.LogEquidistributed(0))

	a, b := ps.LogRandom(20, 42), ps.LogRandom(20, 42)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, ps.LogRandom(20, 43))
	for _, mu := range a {
		assert.True(t, ps.Contains(mu), "%v", mu)
	}
	assert.False(t, ps.Contains(Parameter{1.e5, 1}))

	bad := ParameterSpace{Min: Parameter{10, 1}, Max: Parameter{1, 1}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidParameter)
}
