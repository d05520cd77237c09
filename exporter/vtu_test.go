package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/convection/geometry2D"
)

func testMesh(t *testing.T) *geometry2D.TriMesh {
	t.Helper()
	md, err := geometry2D.CreateMesh(0.5, 1, 2)
	require.NoError(t, err)
	tm, err := geometry2D.NewCavityMesh(md)
	require.NoError(t, err)
	return tm
}

func TestVTUSave(t *testing.T) {
	var (
		dir = t.TempDir()
		tm  = testMesh(t)
		n   = len(tm.Points)
		v   = NewVTU(dir, "convection", true)
	)
	assert.True(t, v.DoExport())
	for _, ts := range []float64{1, 0} {
		s := v.Step(ts)
		s.SetMesh(tm)
		s.AddVector("u", make([]float64, n), make([]float64, n))
		s.AddScalar("p", make([]float64, n))
		s.AddScalar("T", make([]float64, n))
	}
	assert.Same(t, v.Step(1), v.Step(1))
	assert.Equal(t, []string{"u", "p", "T"}, v.Step(0).FieldNames())
	require.NoError(t, v.Save())

	data, err := os.ReadFile(filepath.Join(dir, "convection-0.vtu"))
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `NumberOfPoints="25" NumberOfCells="8"`)
	assert.Contains(t, body, `Name="u" NumberOfComponents="3"`)
	assert.Contains(t, body, `Name="T" NumberOfComponents="1"`)
	assert.Contains(t, body, "\n"+strings.Repeat("22 ", 8)+"\n")
	_, err = os.Stat(filepath.Join(dir, "convection-1.vtu"))
	require.NoError(t, err)

	pvd, err := os.ReadFile(v.CollectionFile())
	require.NoError(t, err)
	i0 := strings.Index(string(pvd), `file="convection-0.vtu"`)
	i1 := strings.Index(string(pvd), `file="convection-1.vtu"`)
	assert.True(t, i0 >= 0 && i1 > i0)
}

func TestVTUErrors(t *testing.T) {
	var (
		tm = testMesh(t)
		v  = NewVTU(t.TempDir(), "bad", false)
	)
	assert.False(t, v.DoExport())
	v.Step(0).AddScalar("T", []float64{1})
	assert.Error(t, v.Save())

	v.Step(0).SetMesh(tm)
	err := v.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "T"`)
}
