package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is the assembly format: entries are accumulated by (i,j) key and the
// result is frozen into a CSR before it is handed to a solver.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims and At minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

// Add accumulates val into entry (i,j)
func (m DOK) Add(i, j int, val float64) {
	m.checkWritable()
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims and At minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}
func (m CSR) NNZ() int { return len(m.RawMatrix().Data) }

// MulVec returns y = M x
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch: ncols = %d, len(x) = %d", nc, len(x)))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			sum += raw.Data[k] * x[raw.Ind[k]]
		}
		y[i] = sum
	}
	return
}

// Energy returns x^T M y
func (m CSR) Energy(x, y []float64) (e float64) {
	my := m.MulVec(y)
	for i, val := range x {
		e += val * my[i]
	}
	return
}

func (m CSR) ToDense() (D *mat.Dense) {
	var (
		raw    = m.RawMatrix()
		nr, nc = m.Dims()
	)
	D = mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			D.Set(i, raw.Ind[k], D.At(i, raw.Ind[k])+raw.Data[k])
		}
	}
	return
}
