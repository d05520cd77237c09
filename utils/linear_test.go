package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseLUSolve(t *testing.T) {
	A := NewDOK(3, 3)
	A.Set(0, 0, 4)
	A.Set(0, 1, 1)
	A.Set(1, 0, 1)
	A.Set(1, 1, 3)
	A.Set(1, 2, -1)
	A.Set(2, 2, 2)
	// Zero diagonal entries are handled by pivoting
	B := NewDOK(2, 2)
	B.Set(0, 1, 1)
	B.Set(1, 0, 1)

	x, err := DenseLU{}.Solve(A.ToCSR(), []float64{6, 5, 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 2}, x, 1.e-12)

	x, err = DenseLU{}.Solve(B.ToCSR(), []float64{3, 7})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{7, 3}, x, 1.e-14)
}

func TestDenseLUSingular(t *testing.T) {
	A := NewDOK(2, 2)
	A.Set(0, 0, 1)
	A.Set(1, 0, 1)
	_, err := DenseLU{}.Solve(A.ToCSR(), []float64{1, 1})
	assert.ErrorIs(t, err, ErrSingular)

	_, err = DenseLU{}.Solve(A.ToCSR(), []float64{1, 1, 1})
	assert.Error(t, err)
}
