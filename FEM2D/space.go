package FEM2D

import (
	"fmt"

	"github.com/notargets/convection/geometry2D"
	"github.com/notargets/convection/utils"
)

// Field identifies one component of the composite space
type Field uint8

const (
	Ux Field = iota
	Uy
	P
	T
)

var fieldNames = []string{"ux", "uy", "p", "T"}

func (f Field) String() string { return fieldNames[f] }

// CompositeSpace is the Taylor-Hood P2/P1 velocity-pressure space augmented
// with a P2 temperature, laid out as [ux | uy | p | T]
type CompositeSpace struct {
	Mesh   *geometry2D.TriMesh
	NP2    int // Nodes of the quadratic space
	NP1    int // Vertices of the linear space
	offset [4]int
	NDof   int
	Quad   QuadRule
	Line   LineRule
	mass   *utils.CSR
}

func NewCompositeSpace(tm *geometry2D.TriMesh) (cs *CompositeSpace) {
	var (
		np2 = len(tm.Points)
		np1 = tm.NVertices
	)
	cs = &CompositeSpace{
		Mesh:   tm,
		NP2:    np2,
		NP1:    np1,
		offset: [4]int{0, np2, 2 * np2, 2*np2 + np1},
		NDof:   3*np2 + np1,
		Quad:   Dunavant5(),
		Line:   Gauss3(),
	}
	return
}

func (cs *CompositeSpace) Offset(f Field) int { return cs.offset[f] }

func (cs *CompositeSpace) Size(f Field) int {
	if f == P {
		return cs.NP1
	}
	return cs.NP2
}

// Dof returns the global index of local node n of field f
func (cs *CompositeSpace) Dof(f Field, node int) int {
	if f == P {
		return cs.offset[P] + cs.Mesh.VertexIndex[node]
	}
	return cs.offset[f] + node
}

// View returns the slice of x holding field f
func (cs *CompositeSpace) View(f Field, x []float64) []float64 {
	return x[cs.offset[f] : cs.offset[f]+cs.Size(f)]
}

func (cs *CompositeSpace) Geometry(tri geometry2D.Tri) Geometry {
	var (
		pts = cs.Mesh.Points
	)
	return NewGeometry(pts[tri.Nodes[0]].X, pts[tri.Nodes[1]].X, pts[tri.Nodes[2]].X)
}

// IntegrateDomain returns the integral over the domain of a P2 field
func (cs *CompositeSpace) IntegrateDomain(field []float64) (sum float64, err error) {
	if len(field) != cs.NP2 {
		err = fmt.Errorf("P2 field expected, got length %d, want %d", len(field), cs.NP2)
		return
	}
	for _, tri := range cs.Mesh.Tris {
		g := cs.Geometry(tri)
		for q := 0; q < cs.Quad.Len(); q++ {
			N, _, _ := P2Basis(cs.Quad.L[q])
			var val float64
			for i, n := range tri.Nodes {
				val += N[i] * field[n]
			}
			sum += cs.Quad.W[q] * g.Area * val
		}
	}
	return
}

// IntegrateP1 returns the integral over the domain of a P1 field
func (cs *CompositeSpace) IntegrateP1(field []float64) (sum float64, err error) {
	if len(field) != cs.NP1 {
		err = fmt.Errorf("P1 field expected, got length %d, want %d", len(field), cs.NP1)
		return
	}
	vi := cs.Mesh.VertexIndex
	for _, tri := range cs.Mesh.Tris {
		g := cs.Geometry(tri)
		sum += g.Area / 3 * (field[vi[tri.Nodes[0]]] + field[vi[tri.Nodes[1]]] + field[vi[tri.Nodes[2]]])
	}
	return
}

// IntegrateMarkedFaces returns the integral of a P2 field over the boundary
// region name
func (cs *CompositeSpace) IntegrateMarkedFaces(name string, field []float64) (sum float64, err error) {
	if len(field) != cs.NP2 {
		err = fmt.Errorf("P2 field expected, got length %d, want %d", len(field), cs.NP2)
		return
	}
	var edges []geometry2D.Edge
	if edges, err = cs.Mesh.MarkedEdges(name); err != nil {
		return
	}
	for _, e := range edges {
		length := cs.Mesh.EdgeLength(e)
		for q := 0; q < cs.Line.Len(); q++ {
			Na, Nb, Nm := P2Edge(cs.Line.T[q])
			val := Na*field[e.Nodes[0]] + Nb*field[e.Nodes[1]] + Nm*field[e.Nodes[2]]
			sum += cs.Line.W[q] * length * val
		}
	}
	return
}

// Interpolate evaluates f at every P2 node
func (cs *CompositeSpace) Interpolate(f func(x, y float64) float64) (field []float64) {
	field = make([]float64, cs.NP2)
	for i, pt := range cs.Mesh.Points {
		field[i] = f(pt.X[0], pt.X[1])
	}
	return
}

// P1ToP2 lifts a P1 field onto the P2 nodes, midsides take the mean of the
// edge end values
func (cs *CompositeSpace) P1ToP2(field []float64) (out []float64) {
	var (
		vi = cs.Mesh.VertexIndex
	)
	out = make([]float64, cs.NP2)
	for n := range out {
		if vi[n] >= 0 {
			out[n] = field[vi[n]]
			continue
		}
		par := cs.Mesh.MidsideParents[n]
		out[n] = 0.5 * (field[vi[par[0]]] + field[vi[par[1]]])
	}
	return
}

// MassMatrix returns the block diagonal L2 mass matrix of the composite
// space, assembled once
func (cs *CompositeSpace) MassMatrix() utils.CSR {
	if cs.mass != nil {
		return *cs.mass
	}
	M := utils.NewDOK(cs.NDof, cs.NDof)
	for _, tri := range cs.Mesh.Tris {
		g := cs.Geometry(tri)
		for q := 0; q < cs.Quad.Len(); q++ {
			var (
				w       = cs.Quad.W[q] * g.Area
				N, _, _ = P2Basis(cs.Quad.L[q])
				L       = P1Basis(cs.Quad.L[q])
			)
			for i := 0; i < 6; i++ {
				for j := 0; j < 6; j++ {
					val := w * N[i] * N[j]
					for _, f := range []Field{Ux, Uy, T} {
						M.Add(cs.Dof(f, tri.Nodes[i]), cs.Dof(f, tri.Nodes[j]), val)
					}
				}
			}
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					M.Add(cs.Dof(P, tri.Nodes[i]), cs.Dof(P, tri.Nodes[j]), w*L[i]*L[j])
				}
			}
		}
	}
	M.SetReadOnly("M")
	csr := M.ToCSR()
	cs.mass = &csr
	return csr
}
