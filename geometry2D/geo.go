package geometry2D

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidGeometry = errors.New("invalid cavity geometry")
	ErrUnsupportedDim  = errors.New("unsupported dimension")
)

// Physical region names shared by the script and the in-process mesh
const (
	Tinsulated = "Tinsulated"
	Tfixed     = "Tfixed"
	Tflux      = "Tflux"
	FWall      = "F.wall"
	Domain     = "domain"
)

// Line 6 is the internal baffle from the top midpoint down to the center
const BaffleLine = 6

type RegionKind string

const (
	PhysicalLine    RegionKind = "Line"
	PhysicalSurface RegionKind = "Surface"
	PhysicalVolume  RegionKind = "Volume"
)

type PhysicalRegion struct {
	Kind RegionKind
	Name string
	Tags []int
}

// MeshDescription is the gmsh geometry script plus the metadata needed to
// resolve physical names after meshing
type MeshDescription struct {
	Prefix      string
	Description string
	Dim         int
	HSize       float64
	Length      float64
	Regions     []PhysicalRegion
}

// Region returns the physical region named name
func (md *MeshDescription) Region(name string) (r PhysicalRegion, ok bool) {
	for _, reg := range md.Regions {
		if reg.Name == name {
			return reg, true
		}
	}
	return
}

func (md *MeshDescription) Names() (names []string) {
	for _, reg := range md.Regions {
		names = append(names, reg.Name)
	}
	return
}

var regions2D = []PhysicalRegion{
	{PhysicalLine, Tinsulated, []int{1, 3, 4}},
	{PhysicalLine, Tfixed, []int{5}},
	{PhysicalLine, Tflux, []int{2}},
	{PhysicalLine, FWall, []int{3, 4, 5, 1, 2}},
	{PhysicalSurface, Domain, []int{8}},
}

// Face numbers are the ones gmsh assigns when extruding Surface{8}
var regions3D = []PhysicalRegion{
	{PhysicalSurface, Tfixed, []int{35}},
	{PhysicalSurface, Tflux, []int{23}},
	{PhysicalSurface, Tinsulated, []int{19, 40, 8, 31, 27}},
	{PhysicalSurface, FWall, []int{31, 27, 23, 19, 35, 40, 8}},
	{PhysicalVolume, Domain, []int{1}},
}

func Preamble() string {
	return "Mesh.MshFileVersion = 2.2;\n" +
		"Mesh.CharacteristicLengthExtendFromBoundary=1;\n" +
		"Mesh.CharacteristicLengthFromPoints=1;\n" +
		"Mesh.ElementOrder=1;\n" +
		"Mesh.SecondOrderIncomplete = 0;\n" +
		"Mesh.Algorithm = 6;\n"
}

// num formats like a default C++ ostream
func num(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

// CreateMesh builds the cavity script of width l, unit height, element size h.
// The outline is a rectangle whose top edge is split at its midpoint, with the
// line from that midpoint to the cavity center closing the loop.
func CreateMesh(h, l float64, dim int) (md *MeshDescription, err error) {
	if !(h > 0) || !(l > 0) {
		err = fmt.Errorf("%w: hsize = %v, length = %v", ErrInvalidGeometry, h, l)
		return
	}
	var (
		sb strings.Builder
	)
	sb.WriteString(Preamble())
	sb.WriteString("a=" + num(0) + ";\n")
	sb.WriteString("b=" + num(l) + ";\n")
	sb.WriteString("c=" + num(0) + ";\n")
	sb.WriteString("d=" + num(1) + ";\n")
	sb.WriteString("hBis=" + num(h) + ";\n")
	sb.WriteString("Point(1) = {a,c,0.0,hBis};\n" +
		"Point(2) = {b,c,0.0,hBis};\n" +
		"Point(3) = {b,d,0.0,hBis};\n" +
		"Point(4) = {a,d,0.0,hBis};\n" +
		"Point(5) = {b/2,d,0.0,hBis};\n" +
		"Point(6) = {b/2,d/2,0.0,hBis};\n" +
		"Line(1) = {1,2};\n" +
		"Line(2) = {2,3};\n" +
		"Line(3) = {3,5};\n" +
		"Line(4) = {5,4};\n" +
		"Line(5) = {4,1};\n" +
		"Line(6) = {5,6};\n" +
		"Line Loop(7) = {1,2,3,4,5,6};\n" +
		"Plane Surface(8) = {7};\n")
	var regs []PhysicalRegion
	switch dim {
	case 2:
		regs = regions2D
	case 3:
		sb.WriteString("Extrude {0, 0, 1} {\n" +
			"   Surface{8};\n" +
			"}\n")
		regs = regions3D
	default:
		err = fmt.Errorf("%w: %d", ErrUnsupportedDim, dim)
		return
	}
	for _, reg := range regs {
		sb.WriteString(physical(reg, dim))
	}
	md = &MeshDescription{
		Prefix:      Domain,
		Description: sb.String(),
		Dim:         dim,
		HSize:       h,
		Length:      l,
		Regions:     cloneRegions(regs),
	}
	return
}

func physical(reg PhysicalRegion, dim int) string {
	var (
		tags = make([]string, len(reg.Tags))
		sep  = ","
	)
	// the aggregate wall region and every 3D list are written with spaces
	if reg.Name == FWall || (dim == 3 && len(reg.Tags) > 1) {
		sep = ", "
	}
	for i, tag := range reg.Tags {
		tags[i] = fmt.Sprintf("%d", tag)
	}
	return fmt.Sprintf("Physical %s(\"%s\") = {%s};\n", reg.Kind, reg.Name, strings.Join(tags, sep))
}

func cloneRegions(regs []PhysicalRegion) (out []PhysicalRegion) {
	out = make([]PhysicalRegion, len(regs))
	for i, reg := range regs {
		out[i] = PhysicalRegion{reg.Kind, reg.Name, append([]int(nil), reg.Tags...)}
	}
	return
}
