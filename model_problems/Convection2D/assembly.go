package Convection2D

import (
	"math"

	"github.com/notargets/convection/FEM2D"
	"github.com/notargets/convection/geometry2D"
	"github.com/notargets/convection/utils"
)

// Coefficients of the nondimensional Boussinesq system at one parameter
type Coefficients struct {
	Nu    float64 // 1/sqrt(Gr), momentum diffusion
	Kappa float64 // 1/(sqrt(Gr) Pr), heat diffusion
	Beta  float64 // buoyancy coupling
	Flux  float64 // heat flux imposed on Tflux
}

// ComputeThetaq returns the parameter dependent weak form coefficients
func (c *Convection) ComputeThetaq(mu Parameter) Coefficients {
	sg := math.Sqrt(mu.Grashof)
	return Coefficients{
		Nu:    1 / sg,
		Kappa: 1 / (sg * mu.Prandtl),
		Beta:  c.beta,
		Flux:  c.flux,
	}
}

// Local dof layout of one triangle
const (
	locUx = 0
	locUy = 6
	locP  = 12
	locT  = 15
	nLoc  = 21
)

func (c *Convection) Residual(mu Parameter, x, r []float64) {
	c.assemble(mu, x, r, nil)
}

func (c *Convection) Jacobian(mu Parameter, x []float64) utils.CSR {
	J := utils.NewDOK(c.Xh.NDof, c.Xh.NDof)
	c.assemble(mu, x, nil, &J)
	return J.ToCSR()
}

// assemble accumulates the residual into r and the Jacobian into J, either
// may be nil. Rows of essential dofs are replaced by x[d] = 0.
func (c *Convection) assemble(mu Parameter, x, r []float64, J *utils.DOK) {
	var (
		cs             = c.Xh
		co             = c.ComputeThetaq(mu)
		ux, uy         = cs.View(FEM2D.Ux, x), cs.View(FEM2D.Uy, x)
		p, T           = cs.View(FEM2D.P, x), cs.View(FEM2D.T, x)
		vi             = cs.Mesh.VertexIndex
		essential      = c.essential
		dofs           [nLoc]int
		dNdx, dNdy     [6]float64
		Re             [nLoc]float64
		Je             [nLoc][nLoc]float64
		doRes, doJac   = r != nil, J != nil
		nu, kappa, bet = co.Nu, co.Kappa, co.Beta
	)
	if doRes {
		for i := range r {
			r[i] = 0
		}
	}
	for _, tri := range cs.Mesh.Tris {
		g := cs.Geometry(tri)
		for i, n := range tri.Nodes {
			dofs[locUx+i] = cs.Dof(FEM2D.Ux, n)
			dofs[locUy+i] = cs.Dof(FEM2D.Uy, n)
			dofs[locT+i] = cs.Dof(FEM2D.T, n)
		}
		for k := 0; k < 3; k++ {
			dofs[locP+k] = cs.Dof(FEM2D.P, tri.Nodes[k])
		}
		Re = [nLoc]float64{}
		if doJac {
			Je = [nLoc][nLoc]float64{}
		}
		for q := 0; q < cs.Quad.Len(); q++ {
			var (
				w         = cs.Quad.W[q] * g.Area
				N, dr, ds = FEM2D.P2Basis(cs.Quad.L[q])
				L         = FEM2D.P1Basis(cs.Quad.L[q])
				U, V      float64 // velocity
				Uxx, Uxy  float64 // d(ux)/dx, d(ux)/dy
				Uyx, Uyy  float64
				Tq        float64
				Tx, Ty    float64
				Pq        float64
			)
			g.Gradients(dr[:], ds[:], dNdx[:], dNdy[:])
			for i, n := range tri.Nodes {
				U += N[i] * ux[n]
				V += N[i] * uy[n]
				Uxx += dNdx[i] * ux[n]
				Uxy += dNdy[i] * ux[n]
				Uyx += dNdx[i] * uy[n]
				Uyy += dNdy[i] * uy[n]
				Tq += N[i] * T[n]
				Tx += dNdx[i] * T[n]
				Ty += dNdy[i] * T[n]
			}
			for k := 0; k < 3; k++ {
				Pq += L[k] * p[vi[tri.Nodes[k]]]
			}
			if doRes {
				div := Uxx + Uyy
				for i := 0; i < 6; i++ {
					Re[locUx+i] += w * ((U*Uxx+V*Uxy)*N[i] + nu*(Uxx*dNdx[i]+Uxy*dNdy[i]) - Pq*dNdx[i])
					Re[locUy+i] += w * ((U*Uyx+V*Uyy)*N[i] + nu*(Uyx*dNdx[i]+Uyy*dNdy[i]) - Pq*dNdy[i] - bet*Tq*N[i])
					Re[locT+i] += w * ((U*Tx+V*Ty)*N[i] + kappa*(Tx*dNdx[i]+Ty*dNdy[i]))
				}
				for k := 0; k < 3; k++ {
					Re[locP+k] -= w * div * L[k]
				}
			}
			if !doJac {
				continue
			}
			for i := 0; i < 6; i++ {
				for j := 0; j < 6; j++ {
					var (
						NiNj  = N[i] * N[j]
						adv   = (U*dNdx[j] + V*dNdy[j]) * N[i]
						stiff = dNdx[j]*dNdx[i] + dNdy[j]*dNdy[i]
					)
					Je[locUx+i][locUx+j] += w * (Uxx*NiNj + adv + nu*stiff)
					Je[locUx+i][locUy+j] += w * Uxy * NiNj
					Je[locUy+i][locUx+j] += w * Uyx * NiNj
					Je[locUy+i][locUy+j] += w * (Uyy*NiNj + adv + nu*stiff)
					Je[locUy+i][locT+j] -= w * bet * NiNj
					Je[locT+i][locUx+j] += w * Tx * NiNj
					Je[locT+i][locUy+j] += w * Ty * NiNj
					Je[locT+i][locT+j] += w * (adv + kappa*stiff)
				}
				for k := 0; k < 3; k++ {
					Je[locUx+i][locP+k] -= w * L[k] * dNdx[i]
					Je[locUy+i][locP+k] -= w * L[k] * dNdy[i]
					Je[locP+k][locUx+i] -= w * L[k] * dNdx[i]
					Je[locP+k][locUy+i] -= w * L[k] * dNdy[i]
				}
			}
		}
		for a, ga := range dofs {
			if essential[ga] {
				continue
			}
			if doRes {
				r[ga] += Re[a]
			}
			if doJac {
				for b, gb := range dofs {
					J.Add(ga, gb, Je[a][b])
				}
			}
		}
	}
	if doRes {
		c.assembleFlux(co, r)
	}
	for d, isEss := range essential {
		if !isEss {
			continue
		}
		if doRes {
			r[d] = x[d]
		}
		if doJac {
			J.Set(d, d, 1)
		}
	}
}

// assembleFlux adds the Neumann heat flux on Tflux, it does not depend on
// the solution so the Jacobian is untouched
func (c *Convection) assembleFlux(co Coefficients, r []float64) {
	var (
		cs = c.Xh
	)
	for _, e := range c.fluxEdges {
		length := cs.Mesh.EdgeLength(e)
		for q := 0; q < cs.Line.Len(); q++ {
			var (
				Na, Nb, Nm = FEM2D.P2Edge(cs.Line.T[q])
				w          = cs.Line.W[q] * length * co.Kappa * co.Flux
			)
			for i, Ni := range [3]float64{Na, Nb, Nm} {
				d := cs.Dof(FEM2D.T, e.Nodes[i])
				if !c.essential[d] {
					r[d] -= w * Ni
				}
			}
		}
	}
}

// essentialDofs marks u = 0 on the walls, T = 0 on Tfixed and one pressure
// vertex, which removes the constant pressure mode
func essentialDofs(cs *FEM2D.CompositeSpace) (ess []bool, err error) {
	var (
		walls, fixed utils.Index
	)
	if walls, err = cs.Mesh.MarkedNodes(geometry2D.FWall); err != nil {
		return
	}
	if fixed, err = cs.Mesh.MarkedNodes(geometry2D.Tfixed); err != nil {
		return
	}
	var dofs utils.Index
	dofs = append(dofs, walls.Add(cs.Offset(FEM2D.Ux))...)
	dofs = append(dofs, walls.Add(cs.Offset(FEM2D.Uy))...)
	dofs = append(dofs, fixed.Add(cs.Offset(FEM2D.T))...)
	ess = dofs.Mask(cs.NDof)
	ess[cs.Offset(FEM2D.P)] = true
	return
}
