package exporter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/notargets/convection/geometry2D"
)

// Exporter writes named nodal fields for a sequence of steps
type Exporter interface {
	DoExport() bool
	Step(t float64) *Step
	Save() error
}

type field struct {
	name  string
	comps [][]float64 // one slice per component over the P2 nodes
}

// Step collects the fields written at one time or continuation index
type Step struct {
	Time   float64
	Mesh   *geometry2D.TriMesh
	fields []field
	dirty  bool
}

func (s *Step) SetMesh(tm *geometry2D.TriMesh) {
	s.Mesh = tm
	s.dirty = true
}

// AddScalar registers (or replaces) a scalar nodal field
func (s *Step) AddScalar(name string, values []float64) {
	s.add(field{name, [][]float64{values}})
}

// AddVector registers (or replaces) a 2D vector nodal field
func (s *Step) AddVector(name string, x, y []float64) {
	s.add(field{name, [][]float64{x, y}})
}

func (s *Step) add(f field) {
	s.dirty = true
	for i := range s.fields {
		if s.fields[i].name == f.name {
			s.fields[i] = f
			return
		}
	}
	s.fields = append(s.fields, f)
}

func (s *Step) FieldNames() (names []string) {
	for _, f := range s.fields {
		names = append(names, f.name)
	}
	return
}

// VTU writes each step as a VTK XML unstructured grid of quadratic triangles
// and keeps a ParaView collection file listing every step
type VTU struct {
	Dir     string
	Prefix  string
	enabled bool
	steps   map[float64]*Step
}

func NewVTU(dir, prefix string, enabled bool) (v *VTU) {
	v = &VTU{
		Dir:     dir,
		Prefix:  prefix,
		enabled: enabled,
		steps:   make(map[float64]*Step),
	}
	return
}

func (v *VTU) DoExport() bool { return v.enabled }

// Step returns the step at t, creating it on first use
func (v *VTU) Step(t float64) *Step {
	if s, ok := v.steps[t]; ok {
		return s
	}
	s := &Step{Time: t}
	v.steps[t] = s
	return s
}

func (v *VTU) times() (ts []float64) {
	for t := range v.steps {
		ts = append(ts, t)
	}
	sort.Float64s(ts)
	return
}

func (v *VTU) StepFile(t float64) string {
	return fmt.Sprintf("%s-%g.vtu", v.Prefix, t)
}

func (v *VTU) CollectionFile() string {
	return filepath.Join(v.Dir, v.Prefix+".pvd")
}

// Save writes every step that changed since the last call, then rewrites the
// collection
func (v *VTU) Save() (err error) {
	if err = os.MkdirAll(v.Dir, 0755); err != nil {
		return
	}
	ts := v.times()
	for _, t := range ts {
		s := v.steps[t]
		if !s.dirty {
			continue
		}
		if s.Mesh == nil {
			return fmt.Errorf("step %g has no mesh", t)
		}
		var buf bytes.Buffer
		if err = writeStep(&buf, s); err != nil {
			return
		}
		if err = os.WriteFile(filepath.Join(v.Dir, v.StepFile(t)), buf.Bytes(), 0644); err != nil {
			return
		}
		s.dirty = false
	}
	var pvd bytes.Buffer
	fmt.Fprintf(&pvd, "<?xml version=\"1.0\"?>\n<VTKFile type=\"Collection\" version=\"0.1\" byte_order=\"LittleEndian\">\n<Collection>\n")
	for _, t := range ts {
		fmt.Fprintf(&pvd, "<DataSet timestep=\"%g\" file=\"%s\" />\n", t, v.StepFile(t))
	}
	fmt.Fprintf(&pvd, "</Collection>\n</VTKFile>\n")
	return os.WriteFile(v.CollectionFile(), pvd.Bytes(), 0644)
}

// VTK_QUADRATIC_TRIANGLE, same node order as geometry2D.Tri
const vtkQuadraticTriangle = 22

func writeStep(buf *bytes.Buffer, s *Step) (err error) {
	var (
		tm = s.Mesh
		nv = len(tm.Points)
		nc = len(tm.Tris)
	)
	for _, f := range s.fields {
		for _, c := range f.comps {
			if len(c) != nv {
				return fmt.Errorf("field %q has %d values, mesh has %d nodes", f.name, len(c), nv)
			}
		}
	}
	fmt.Fprintf(buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	fmt.Fprintf(buf, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", nv, nc)

	fmt.Fprintf(buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, p := range tm.Points {
		fmt.Fprintf(buf, "%23.15e %23.15e %23.15e\n", p.X[0], p.X[1], 0.)
	}
	fmt.Fprintf(buf, "</DataArray>\n</Points>\n")

	fmt.Fprintf(buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, tri := range tm.Tris {
		fmt.Fprintf(buf, "%d %d %d %d %d %d\n", tri.Nodes[0], tri.Nodes[1], tri.Nodes[2], tri.Nodes[3], tri.Nodes[4], tri.Nodes[5])
	}
	fmt.Fprintf(buf, "</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	for i := 0; i < nc; i++ {
		fmt.Fprintf(buf, "%d ", 6*(i+1))
	}
	fmt.Fprintf(buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for i := 0; i < nc; i++ {
		fmt.Fprintf(buf, "%d ", vtkQuadraticTriangle)
	}
	fmt.Fprintf(buf, "\n</DataArray>\n</Cells>\n")

	fmt.Fprintf(buf, "<PointData>\n")
	for _, f := range s.fields {
		ncomp := len(f.comps)
		if ncomp == 2 {
			ncomp = 3 // VTK vectors are 3D
		}
		fmt.Fprintf(buf, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"%d\" format=\"ascii\">\n", f.name, ncomp)
		for n := 0; n < nv; n++ {
			for _, c := range f.comps {
				fmt.Fprintf(buf, "%23.15e ", c[n])
			}
			if len(f.comps) == 2 {
				fmt.Fprintf(buf, "%23.15e ", 0.)
			}
			fmt.Fprintf(buf, "\n")
		}
		fmt.Fprintf(buf, "</DataArray>\n")
	}
	fmt.Fprintf(buf, "</PointData>\n</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	return
}
