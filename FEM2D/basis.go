package FEM2D

// Local node order for both bases is v0, v1, v2 then (P2 only) the midsides
// of edges 01, 12, 20. Basis functions are written in barycentric
// coordinates L, derivatives are taken with respect to L1 and L2 with
// L0 = 1 - L1 - L2.

// P2Basis returns the quadratic Lagrange basis and its reference derivatives
func P2Basis(L [3]float64) (N, dNdr, dNds [6]float64) {
	var (
		l0, l1, l2 = L[0], L[1], L[2]
	)
	N = [6]float64{
		l0 * (2*l0 - 1),
		l1 * (2*l1 - 1),
		l2 * (2*l2 - 1),
		4 * l0 * l1,
		4 * l1 * l2,
		4 * l2 * l0,
	}
	dNdr = [6]float64{
		-(4*l0 - 1),
		4*l1 - 1,
		0,
		4 * (l0 - l1),
		4 * l2,
		-4 * l2,
	}
	dNds = [6]float64{
		-(4*l0 - 1),
		0,
		4*l2 - 1,
		-4 * l1,
		4 * l1,
		4 * (l0 - l2),
	}
	return
}

// P1Basis returns the linear Lagrange basis
func P1Basis(L [3]float64) (N [3]float64) {
	return L
}

// P2Edge returns the quadratic basis on an edge at t in [0,1] for the end
// nodes a, b and the midside node
func P2Edge(t float64) (Na, Nb, Nm float64) {
	Na = (1 - t) * (1 - 2*t)
	Nb = t * (2*t - 1)
	Nm = 4 * t * (1 - t)
	return
}

// Geometry holds the affine map of a triangle
type Geometry struct {
	Area                   float64
	Rx, Ry, Sx, Sy         float64 // inverse Jacobian, dr/dx etc.
	X0, Y0, X1, Y1, X2, Y2 float64
}

func NewGeometry(v0, v1, v2 [2]float64) (g Geometry) {
	var (
		xr, yr = v1[0] - v0[0], v1[1] - v0[1]
		xs, ys = v2[0] - v0[0], v2[1] - v0[1]
		J      = xr*ys - xs*yr
	)
	g = Geometry{
		Area: 0.5 * J,
		Rx:   ys / J, Ry: -xs / J,
		Sx: -yr / J, Sy: xr / J,
		X0: v0[0], Y0: v0[1], X1: v1[0], Y1: v1[1], X2: v2[0], Y2: v2[1],
	}
	return
}

// Gradients maps reference derivatives to physical x and y derivatives
func (g Geometry) Gradients(dNdr, dNds []float64, dNdx, dNdy []float64) {
	for i := range dNdr {
		dNdx[i] = dNdr[i]*g.Rx + dNds[i]*g.Sx
		dNdy[i] = dNdr[i]*g.Ry + dNds[i]*g.Sy
	}
}

func (g Geometry) Point(L [3]float64) (x, y float64) {
	x = L[0]*g.X0 + L[1]*g.X1 + L[2]*g.X2
	y = L[0]*g.Y0 + L[1]*g.Y1 + L[2]*g.Y2
	return
}
