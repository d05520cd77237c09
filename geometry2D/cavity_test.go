package geometry2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMesh(t *testing.T, h, l float64) *TriMesh {
	t.Helper()
	md, err := CreateMesh(h, l, 2)
	require.NoError(t, err)
	tm, err := NewCavityMesh(md)
	require.NoError(t, err)
	return tm
}

func TestCavityMeshCounts(t *testing.T) {
	tm := newTestMesh(t, 0.25, 2)
	assert.Equal(t, 8, tm.Nx)
	assert.Equal(t, 4, tm.Ny)
	assert.Len(t, tm.Tris, 2*8*4)
	assert.Len(t, tm.Points, 17*9)
	assert.Equal(t, 9*5, tm.NVertices)
	assert.InDelta(t, 2., tm.Measure(), 1.e-12)

	// Element counts are rounded up to even numbers
	tm = newTestMesh(t, 0.3, 1)
	assert.Equal(t, 4, tm.Nx)
	assert.Equal(t, 4, tm.Ny)
	tm = newTestMesh(t, 5, 1)
	assert.Equal(t, 2, tm.Nx)
}

func TestCavityMeshOrientation(t *testing.T) {
	tm := newTestMesh(t, 0.5, 1)
	for _, tri := range tm.Tris {
		assert.Greater(t, tm.TriArea(tri), 0.)
		for e := 0; e < 3; e++ {
			var (
				a = tm.Points[tri.Nodes[e]].X
				b = tm.Points[tri.Nodes[(e+1)%3]].X
				m = tm.Points[tri.Nodes[3+e]].X
			)
			assert.InDelta(t, 0.5*(a[0]+b[0]), m[0], 1.e-14)
			assert.InDelta(t, 0.5*(a[1]+b[1]), m[1], 1.e-14)
			assert.Equal(t, -1, tm.VertexIndex[tri.Nodes[3+e]])
			assert.GreaterOrEqual(t, tm.VertexIndex[tri.Nodes[e]], 0)
		}
	}
}

func TestCavityMeshMarkers(t *testing.T) {
	var (
		l  = 1.5
		tm = newTestMesh(t, 0.25, l)
	)
	length := func(edges []Edge) (s float64) {
		for _, e := range edges {
			s += tm.EdgeLength(e)
		}
		return
	}
	flux, err := tm.MarkedEdges(Tflux)
	require.NoError(t, err)
	assert.InDelta(t, 1., length(flux), 1.e-12)
	for _, e := range flux {
		for _, n := range e.Nodes {
			assert.InDelta(t, l, tm.Points[n].X[0], 1.e-14)
		}
	}
	fixed, err := tm.MarkedEdges(Tfixed)
	require.NoError(t, err)
	assert.InDelta(t, 1., length(fixed), 1.e-12)
	ins, err := tm.MarkedEdges(Tinsulated)
	require.NoError(t, err)
	assert.InDelta(t, 2*l, length(ins), 1.e-12)
	wall, err := tm.MarkedEdges(FWall)
	require.NoError(t, err)
	assert.InDelta(t, 2*l+2, length(wall), 1.e-12)

	nodes, err := tm.MarkedNodes(Tfixed)
	require.NoError(t, err)
	assert.Len(t, nodes, 2*tm.Ny+1)
	for _, n := range nodes {
		assert.Equal(t, 0., tm.Points[n].X[0])
	}

	var baffle []Edge
	for _, e := range tm.Edges {
		if e.Line == BaffleLine {
			baffle = append(baffle, e)
		}
	}
	assert.InDelta(t, 0.5, length(baffle), 1.e-12)
	for _, e := range baffle {
		assert.InDelta(t, l/2, tm.Points[e.Nodes[2]].X[0], 1.e-14)
	}

	_, err = tm.MarkedEdges("nope")
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	_, err = tm.MarkedEdges(Domain)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestCavityMeshRejects3D(t *testing.T) {
	md, err := CreateMesh(0.25, 1, 3)
	require.NoError(t, err)
	_, err = NewCavityMesh(md)
	assert.ErrorIs(t, err, ErrUnsupportedDim)
	_, err = NewCavityMesh(nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
