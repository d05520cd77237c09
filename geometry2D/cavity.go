package geometry2D

import (
	"fmt"
	"math"

	"github.com/notargets/convection/utils"
)

type Point struct {
	X [2]float64
}

// Tri is a quadratic triangle: three vertices counter clockwise followed by
// the midside nodes of edges 01, 12 and 20
type Tri struct {
	Nodes [6]int
}

func (tri Tri) Vertices() [3]int {
	return [3]int{tri.Nodes[0], tri.Nodes[1], tri.Nodes[2]}
}

// Edge is a quadratic edge from Nodes[0] to Nodes[1] with midside Nodes[2],
// tagged with the geometry line it lies on
type Edge struct {
	Nodes [3]int
	Line  int
}

type TriMesh struct {
	Points []Point // All P2 nodes, vertices and midsides
	Tris   []Tri
	// Edges on the boundary lines 1..5 followed by the internal baffle edges
	Edges []Edge
	// VertexIndex maps a node to its P1 index, -1 for midside nodes
	VertexIndex []int
	NVertices   int
	// MidsideParents holds the two end vertices of each midside node
	MidsideParents map[int][2]int
	Nx, Ny         int
	Description    *MeshDescription
}

func (tm *TriMesh) AddTri(tri Tri) {
	tm.Tris = append(tm.Tris, tri)
}

// NewCavityMesh triangulates the 2D cavity described by md with a structured
// P2 mesh. Element counts in each direction are kept even so that the
// baffle line at x = l/2, y in [1/2, 1] lies on element edges.
func NewCavityMesh(md *MeshDescription) (tm *TriMesh, err error) {
	if md == nil {
		err = fmt.Errorf("%w: nil description", ErrInvalidGeometry)
		return
	}
	if md.Dim != 2 {
		err = fmt.Errorf("%w: cavity mesher is 2D only, got dim = %d", ErrUnsupportedDim, md.Dim)
		return
	}
	if !(md.HSize > 0) || !(md.Length > 0) {
		err = fmt.Errorf("%w: hsize = %v, length = %v", ErrInvalidGeometry, md.HSize, md.Length)
		return
	}
	var (
		l      = md.Length
		nx     = evenCount(l / md.HSize)
		ny     = evenCount(1 / md.HSize)
		NI, NJ = 2*nx + 1, 2*ny + 1 // P2 node lattice
		node   = func(I, J int) int { return I + J*NI }
	)
	tm = &TriMesh{
		Points:         make([]Point, NI*NJ),
		VertexIndex:    make([]int, NI*NJ),
		MidsideParents: make(map[int][2]int),
		Nx:             nx,
		Ny:             ny,
		Description:    md,
	}
	for J := 0; J < NJ; J++ {
		for I := 0; I < NI; I++ {
			n := node(I, J)
			tm.Points[n] = Point{X: [2]float64{
				l * float64(I) / float64(2*nx),
				float64(J) / float64(2*ny),
			}}
			if I%2 == 0 && J%2 == 0 {
				tm.VertexIndex[n] = tm.NVertices
				tm.NVertices++
			} else {
				tm.VertexIndex[n] = -1
			}
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			I, J := 2*i, 2*j
			// Both halves of the cell share the diagonal from (I,J) to (I+2,J+2)
			tm.AddTri(Tri{Nodes: [6]int{
				node(I, J), node(I+2, J), node(I+2, J+2),
				node(I+1, J), node(I+2, J+1), node(I+1, J+1),
			}})
			tm.AddTri(Tri{Nodes: [6]int{
				node(I, J), node(I+2, J+2), node(I, J+2),
				node(I+1, J+1), node(I+1, J+2), node(I, J+1),
			}})
		}
	}
	for _, tri := range tm.Tris {
		for e := 0; e < 3; e++ {
			tm.MidsideParents[tri.Nodes[3+e]] = [2]int{tri.Nodes[e], tri.Nodes[(e+1)%3]}
		}
	}
	// Boundary edges oriented along the geometry lines
	for i := 0; i < nx; i++ { // Line 1: bottom, left to right
		tm.Edges = append(tm.Edges, Edge{[3]int{node(2*i, 0), node(2*i+2, 0), node(2*i+1, 0)}, 1})
	}
	for j := 0; j < ny; j++ { // Line 2: right wall, upwards
		tm.Edges = append(tm.Edges, Edge{[3]int{node(NI-1, 2*j), node(NI-1, 2*j+2), node(NI-1, 2*j+1)}, 2})
	}
	for i := nx; i > 0; i-- { // Lines 3 and 4: top, right to left, split at x = l/2
		line := 3
		if i <= nx/2 {
			line = 4
		}
		tm.Edges = append(tm.Edges, Edge{[3]int{node(2*i, NJ-1), node(2*i-2, NJ-1), node(2*i-1, NJ-1)}, line})
	}
	for j := ny; j > 0; j-- { // Line 5: left wall, downwards
		tm.Edges = append(tm.Edges, Edge{[3]int{node(0, 2*j), node(0, 2*j-2), node(0, 2*j-1)}, 5})
	}
	for j := ny; j > ny/2; j-- { // Line 6: baffle, top midpoint to center
		tm.Edges = append(tm.Edges, Edge{[3]int{node(nx, 2*j), node(nx, 2*j-2), node(nx, 2*j-1)}, BaffleLine})
	}
	return
}

func evenCount(x float64) (n int) {
	n = 2 * int(math.Ceil(x/2-1.e-12))
	if n < 2 {
		n = 2
	}
	return
}

func (tm *TriMesh) lines(name string) (lines map[int]bool, err error) {
	reg, ok := tm.Description.Region(name)
	if !ok || reg.Kind != PhysicalLine {
		err = fmt.Errorf("%w: no physical line named %q", ErrInvalidGeometry, name)
		return
	}
	lines = make(map[int]bool, len(reg.Tags))
	for _, tag := range reg.Tags {
		lines[tag] = true
	}
	return
}

// MarkedEdges returns the edges lying on the physical line region name
func (tm *TriMesh) MarkedEdges(name string) (edges []Edge, err error) {
	var lines map[int]bool
	if lines, err = tm.lines(name); err != nil {
		return
	}
	for _, e := range tm.Edges {
		if lines[e.Line] {
			edges = append(edges, e)
		}
	}
	return
}

// MarkedNodes returns the sorted P2 nodes on the physical line region name
func (tm *TriMesh) MarkedNodes(name string) (nodes utils.Index, err error) {
	var edges []Edge
	if edges, err = tm.MarkedEdges(name); err != nil {
		return
	}
	for _, e := range edges {
		nodes = append(nodes, e.Nodes[:]...)
	}
	nodes = nodes.Unique()
	return
}

func (tm *TriMesh) TriArea(tri Tri) float64 {
	var (
		a, b, c = tm.Points[tri.Nodes[0]].X, tm.Points[tri.Nodes[1]].X, tm.Points[tri.Nodes[2]].X
	)
	return 0.5 * ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1]))
}

// Measure returns the area of the domain
func (tm *TriMesh) Measure() (area float64) {
	for _, tri := range tm.Tris {
		area += tm.TriArea(tri)
	}
	return
}

func (tm *TriMesh) EdgeLength(e Edge) float64 {
	var (
		a, b = tm.Points[e.Nodes[0]].X, tm.Points[e.Nodes[1]].X
	)
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}
