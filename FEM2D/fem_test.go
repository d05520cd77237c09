package FEM2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/convection/geometry2D"
)

func newTestSpace(t *testing.T, h, l float64) *CompositeSpace {
	t.Helper()
	md, err := geometry2D.CreateMesh(h, l, 2)
	require.NoError(t, err)
	tm, err := geometry2D.NewCavityMesh(md)
	require.NoError(t, err)
	return NewCompositeSpace(tm)
}

func TestQuadratureExactness(t *testing.T) {
	var (
		q = Dunavant5()
		g = NewGeometry([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 1})
	)
	var sumW float64
	for _, w := range q.W {
		sumW += w
	}
	assert.InDelta(t, 1., sumW, 1.e-14)
	// On the reference triangle, int x^a y^b = a! b! / (a+b+2)!
	fact := func(n int) float64 { return math.Gamma(float64(n) + 1) }
	for a := 0; a <= 5; a++ {
		for b := 0; a+b <= 5; b++ {
			var sum float64
			for k := 0; k < q.Len(); k++ {
				x, y := g.Point(q.L[k])
				sum += q.W[k] * g.Area * math.Pow(x, float64(a)) * math.Pow(y, float64(b))
			}
			assert.InDelta(t, fact(a)*fact(b)/fact(a+b+2), sum, 1.e-12, "x^%d y^%d", a, b)
		}
	}
	lq := Gauss3()
	for p := 0; p <= 5; p++ {
		var sum float64
		for k := 0; k < lq.Len(); k++ {
			sum += lq.W[k] * math.Pow(lq.T[k], float64(p))
		}
		assert.InDelta(t, 1./float64(p+1), sum, 1.e-14)
	}
}

func TestP2BasisKronecker(t *testing.T) {
	nodes := [6][3]float64{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{0.5, 0.5, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5},
	}
	for i, L := range nodes {
		N, _, _ := P2Basis(L)
		for j := range N {
			if i == j {
				assert.InDelta(t, 1., N[j], 1.e-15)
			} else {
				assert.InDelta(t, 0., N[j], 1.e-15)
			}
		}
	}
	// Partition of unity and zero sum derivatives at an arbitrary point
	N, dr, ds := P2Basis([3]float64{0.2, 0.3, 0.5})
	var sN, sr, ss float64
	for i := range N {
		sN += N[i]
		sr += dr[i]
		ss += ds[i]
	}
	assert.InDelta(t, 1., sN, 1.e-14)
	assert.InDelta(t, 0., sr, 1.e-14)
	assert.InDelta(t, 0., ss, 1.e-14)
}

func TestGeometryGradients(t *testing.T) {
	var (
		g          = NewGeometry([2]float64{1, 1}, [2]float64{3, 1.5}, [2]float64{1.5, 2})
		f          = func(x, y float64) float64 { return 2*x*x - x*y + 3*y }
		dfx        = func(x, y float64) float64 { return 4*x - y }
		dfy        = func(x, y float64) float64 { return -x + 3 }
		nodes      = [6][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.5, 0.5, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5}}
		vals       [6]float64
		dNdx, dNdy [6]float64
	)
	for i, L := range nodes {
		vals[i] = f(g.Point(L))
	}
	L := [3]float64{0.1, 0.6, 0.3}
	_, dr, ds := P2Basis(L)
	g.Gradients(dr[:], ds[:], dNdx[:], dNdy[:])
	var gx, gy float64
	for i := range vals {
		gx += dNdx[i] * vals[i]
		gy += dNdy[i] * vals[i]
	}
	x, y := g.Point(L)
	assert.InDelta(t, dfx(x, y), gx, 1.e-12)
	assert.InDelta(t, dfy(x, y), gy, 1.e-12)
	assert.Greater(t, g.Area, 0.)
}

func TestCompositeSpaceLayout(t *testing.T) {
	cs := newTestSpace(t, 0.5, 1)
	assert.Equal(t, 25, cs.NP2)
	assert.Equal(t, 9, cs.NP1)
	assert.Equal(t, 3*25+9, cs.NDof)
	assert.Equal(t, 0, cs.Offset(Ux))
	assert.Equal(t, 25, cs.Offset(Uy))
	assert.Equal(t, 50, cs.Offset(P))
	assert.Equal(t, 59, cs.Offset(T))
	x := make([]float64, cs.NDof)
	cs.View(T, x)[0] = 3
	assert.Equal(t, 3., x[59])
	assert.Len(t, cs.View(P, x), 9)
	assert.Equal(t, "T", T.String())
}

func TestIntegrals(t *testing.T) {
	var (
		l  = 2.
		cs = newTestSpace(t, 0.25, l)
	)
	// y^2 and x*y are reproduced exactly by P2
	temp := cs.Interpolate(func(x, y float64) float64 { return y * y })
	area, err := cs.IntegrateDomain(temp)
	require.NoError(t, err)
	assert.InDelta(t, l/3, area, 1.e-12)
	flux, err := cs.IntegrateMarkedFaces(geometry2D.Tflux, temp)
	require.NoError(t, err)
	assert.InDelta(t, 1./3, flux, 1.e-12)

	temp = cs.Interpolate(func(x, y float64) float64 { return x * y })
	flux, err = cs.IntegrateMarkedFaces(geometry2D.Tflux, temp)
	require.NoError(t, err)
	assert.InDelta(t, l/2, flux, 1.e-12)
	fixed, err := cs.IntegrateMarkedFaces(geometry2D.Tfixed, temp)
	require.NoError(t, err)
	assert.InDelta(t, 0., fixed, 1.e-14)
	area, err = cs.IntegrateDomain(temp)
	require.NoError(t, err)
	assert.InDelta(t, l*l/4, area, 1.e-12)

	_, err = cs.IntegrateMarkedFaces(geometry2D.Tflux, temp[1:])
	assert.Error(t, err)
	_, err = cs.IntegrateMarkedFaces("none", temp)
	assert.Error(t, err)

	p := make([]float64, cs.NP1)
	for i := range p {
		p[i] = 1
	}
	area, err = cs.IntegrateP1(p)
	require.NoError(t, err)
	assert.InDelta(t, l, area, 1.e-12)
	area, err = cs.IntegrateDomain(cs.P1ToP2(p))
	require.NoError(t, err)
	assert.InDelta(t, l, area, 1.e-12)
}

func TestIntegralsRejectWrongLength(t *testing.T) {
	cs := newTestSpace(t, 0.5, 1)
	assert.NotPanics(t, func() {
		_, err := cs.IntegrateDomain(make([]float64, cs.NP1))
		assert.Error(t, err)
		_, err = cs.IntegrateP1(make([]float64, cs.NP2))
		assert.Error(t, err)
	})
}

func TestMassMatrix(t *testing.T) {
	var (
		l  = 1.5
		cs = newTestSpace(t, 0.5, l)
		M  = cs.MassMatrix()
	)
	ones := make([]float64, cs.NDof)
	for i := range ones {
		ones[i] = 1
	}
	// Each of the four blocks integrates 1*1 over the domain
	assert.InDelta(t, 4*l, M.Energy(ones, ones), 1.e-12)

	x := make([]float64, cs.NDof)
	copy(cs.View(T, x), cs.Interpolate(func(x, y float64) float64 { return x }))
	assert.InDelta(t, l*l*l/3, M.Energy(x, x), 1.e-12)
	// Assembled once
	assert.Same(t, M.M, cs.MassMatrix().M)
}
