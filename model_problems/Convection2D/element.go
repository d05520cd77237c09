package Convection2D

import (
	"github.com/notargets/convection/FEM2D"
)

// Element is a solution of the composite space, laid out [ux | uy | p | T]
type Element struct {
	Space *FEM2D.CompositeSpace
	Data  []float64
}

func (c *Convection) NewElement() *Element {
	return &Element{
		Space: c.Xh,
		Data:  make([]float64, c.Xh.NDof),
	}
}

func (e *Element) Ux() []float64 { return e.Space.View(FEM2D.Ux, e.Data) }
func (e *Element) Uy() []float64 { return e.Space.View(FEM2D.Uy, e.Data) }
func (e *Element) P() []float64  { return e.Space.View(FEM2D.P, e.Data) }
func (e *Element) T() []float64  { return e.Space.View(FEM2D.T, e.Data) }

func (e *Element) Zero() {
	for i := range e.Data {
		e.Data[i] = 0
	}
}

func (e *Element) Clone() *Element {
	return &Element{
		Space: e.Space,
		Data:  append([]float64(nil), e.Data...),
	}
}
