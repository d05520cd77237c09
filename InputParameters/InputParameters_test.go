package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/convection/model_problems/Convection2D"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Cavity sweep
Grashof:
  Min: 1
  Max: 1.e+3
Prandtl:
  Min: 0.01
  Max: 1
Sampling: Grid
Count: 3
Outputs: [0, 1]
Model:
  hsize: 0.25
  beta: 2
`)
	var input InputParameters
	require.NoError(t, input.Parse(fileInput))
	assert.Equal(t, "Cavity sweep", input.Title)
	assert.Equal(t, SamplingGrid, input.Sampling)
	assert.Equal(t, []int{0, 1}, input.Outputs)
	assert.Equal(t, 0.25, input.Model["hsize"])
	input.Print()

	mus, err := input.Parameters()
	require.NoError(t, err)
	require.Len(t, mus, 9)
	assert.InEpsilon(t, 1.e3, mus[8].Grashof, 1.e-12)
	assert.InEpsilon(t, 1., mus[8].Prandtl, 1.e-12)
	assert.InEpsilon(t, 0.1, mus[1].Prandtl, 1.e-12)
}

func TestDefaults(t *testing.T) {
	var input InputParameters
	require.NoError(t, input.Parse([]byte(`Title: defaults`)))
	assert.Equal(t, SamplingGrid, input.Sampling)
	assert.Equal(t, []int{Convection2D.OutputFlux}, input.Outputs)
	ps, err := input.ParameterSpace()
	require.NoError(t, err)
	assert.Equal(t, Convection2D.NewParameterSpace(), ps)
	_, err = input.Parameters()
	assert.Error(t, err, "grid without a count")
}

func TestRandomAndListSampling(t *testing.T) {
	var input InputParameters
	require.NoError(t, input.Parse([]byte("Sampling: random\nCount: 5\nSeed: 7\n")))
	a, err := input.Parameters()
	require.NoError(t, err)
	b, err := input.Parameters()
	require.NoError(t, err)
	assert.Len(t, a, 5)
	assert.Equal(t, a, b)

	input = InputParameters{}
	require.NoError(t, input.Parse([]byte("Sampling: list\nSamples:\n  - [10, 0.7]\n  - [100, 0.1]\n")))
	mus, err := input.Parameters()
	require.NoError(t, err)
	assert.Equal(t, []Convection2D.Parameter{{Grashof: 10, Prandtl: 0.7}, {Grashof: 100, Prandtl: 0.1}}, mus)

	input = InputParameters{}
	require.NoError(t, input.Parse([]byte("Sampling: list\nSamples:\n  - [10, -1]\n")))
	_, err = input.Parameters()
	assert.ErrorIs(t, err, Convection2D.ErrInvalidParameter)

	input = InputParameters{}
	require.NoError(t, input.Parse([]byte("Sampling: sobol\nCount: 4\n")))
	_, err = input.Parameters()
	assert.Error(t, err)
}

func TestInvalidBounds(t *testing.T) {
	var input InputParameters
	require.NoError(t, input.Parse([]byte("Grashof:\n  Min: 10\n  Max: 1\nCount: 2\n")))
	_, err := input.Parameters()
	assert.ErrorIs(t, err, Convection2D.ErrInvalidParameter)
}
