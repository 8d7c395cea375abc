// Package geometry generates the primitive meshes backing the volume
// visuals: tessellated planes and boxes with position, uv, normal and
// colour attributes plus filled-face and outline index buffers.
package geometry

import (
	"fmt"
	"strings"
)

// Mesh owns four parallel vertex attribute arrays of equal logical vertex
// count and two index buffers. All arrays are flat: positions and normals
// hold 3 floats per vertex, uvs 2, colours 4; faces hold 3 indices per
// triangle and outline 2 per edge.
type Mesh struct {
	Positions []float64
	UVs       []float64
	Normals   []float64
	Colours   []float64
	Faces     []uint32
	Outline   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of filled faces.
func (m *Mesh) TriangleCount() int { return len(m.Faces) / 3 }

// OutlineEdgeCount returns the number of outline edges.
func (m *Mesh) OutlineEdgeCount() int { return len(m.Outline) / 2 }

// Direction names an axis aligned plane orientation.
type Direction string

const (
	DirPlusX  Direction = "+x"
	DirMinusX Direction = "-x"
	DirPlusY  Direction = "+y"
	DirMinusY Direction = "-y"
	DirPlusZ  Direction = "+z"
	DirMinusZ Direction = "-z"
)

// AllDirections lists the six plane orientations in box construction order.
var AllDirections = []Direction{
	DirMinusZ, DirPlusZ, DirMinusY, DirPlusY, DirMinusX, DirPlusX,
}

// axisRoll returns the cyclic permutation and neutral axis for a direction.
// The grid is generated facing +z and rolled onto the requested axis.
func axisRoll(direction Direction) (shift, neutralAxis int, sign float64, err error) {
	switch Direction(strings.ToLower(string(direction))) {
	case DirPlusX, DirMinusX:
		shift, neutralAxis = 1, 0
	case DirPlusY, DirMinusY:
		shift, neutralAxis = 2, 1
	case DirPlusZ, DirMinusZ:
		shift, neutralAxis = 0, 2
	default:
		return 0, 0, 0, fmt.Errorf("geometry: unknown direction %q", direction)
	}
	sign = 1
	if strings.HasPrefix(string(direction), "-") {
		sign = -1
	}
	return shift, neutralAxis, sign, nil
}

func roll(v [3]float64, shift int) [3]float64 {
	switch shift {
	case 1:
		return [3]float64{v[2], v[0], v[1]}
	case 2:
		return [3]float64{v[1], v[2], v[0]}
	default:
		return v
	}
}

// CreatePlane generates a tessellated plane of the given dimensions facing
// the given direction. Grid vertices are laid out row major; the uv v axis
// is inverted relative to the position y axis. Each grid cell yields two
// counter-clockwise triangles and four outline edges.
func CreatePlane(width, height float64, widthSegments, heightSegments int, direction Direction) (*Mesh, error) {
	if widthSegments < 1 || heightSegments < 1 {
		return nil, fmt.Errorf("geometry: segment counts must be >= 1, got %d x %d", widthSegments, heightSegments)
	}
	shift, neutralAxis, sign, err := axisRoll(direction)
	if err != nil {
		return nil, err
	}

	cols := widthSegments + 1
	rows := heightSegments + 1

	mesh := &Mesh{
		Positions: make([]float64, 0, cols*rows*3),
		UVs:       make([]float64, 0, cols*rows*2),
		Normals:   make([]float64, 0, cols*rows*3),
	}

	for iy := 0; iy < rows; iy++ {
		y := float64(iy)*height/float64(heightSegments) - height/2
		for ix := 0; ix < cols; ix++ {
			x := float64(ix)*width/float64(widthSegments) - width/2

			p := roll([3]float64{x, -y, 0}, shift)
			n := roll([3]float64{0, 0, 1}, shift)

			mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
			mesh.Normals = append(mesh.Normals, n[0]*sign, n[1]*sign, n[2]*sign)
			mesh.UVs = append(mesh.UVs,
				float64(ix)/float64(widthSegments),
				1-float64(iy)/float64(heightSegments))
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(ix + cols*iy)
			b := uint32(ix + cols*(iy+1))
			c := uint32((ix + 1) + cols*(iy+1))
			d := uint32((ix + 1) + cols*iy)

			mesh.Faces = append(mesh.Faces, a, b, d, b, c, d)
			mesh.Outline = append(mesh.Outline, a, b, b, c, c, d, d, a)
		}
	}

	mesh.Colours = syntheticColours(mesh.Positions, neutralAxis)
	return mesh, nil
}

// syntheticColours min-max normalises position components into [0, 1] to
// derive a per vertex colour with unit alpha. A neutralAxis >= 0 zeroes the
// component orthogonal to the plane.
func syntheticColours(positions []float64, neutralAxis int) []float64 {
	min, max := positions[0], positions[0]
	for _, v := range positions {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min

	colours := make([]float64, 0, len(positions)/3*4)
	for i := 0; i < len(positions); i += 3 {
		var c [3]float64
		if span > 0 {
			for j := 0; j < 3; j++ {
				c[j] = (positions[i+j] - min) / span
			}
		}
		if neutralAxis >= 0 {
			c[neutralAxis] = 0
		}
		colours = append(colours, c[0], c[1], c[2], 1)
	}
	return colours
}

// mirrorFaces reverses the winding of every triangle in place.
func mirrorFaces(faces []uint32) {
	for i := 0; i+2 < len(faces); i += 3 {
		faces[i], faces[i+2] = faces[i+2], faces[i]
	}
}

// offsetAxis shifts one position component of every vertex.
func offsetAxis(positions []float64, axis int, delta float64) {
	for i := axis; i < len(positions); i += 3 {
		positions[i] += delta
	}
}

// CreateBox generates a tessellated box from up to six oriented planes.
// Each plane is offset outward by half the box dimension orthogonal to it
// and the three negative facing planes have their winding mirrored so that
// all faces wind outward. A nil plane set selects all six; an empty set
// yields an empty mesh. The combined per vertex colour is re-derived from
// the concatenated positions without a neutral axis.
func CreateBox(width, height, depth float64, widthSegments, heightSegments, depthSegments int, planes []Direction) (*Mesh, error) {
	if planes == nil {
		planes = AllDirections
	}
	selected := map[Direction]bool{}
	for _, p := range planes {
		selected[Direction(strings.ToLower(string(p)))] = true
	}

	type part struct {
		planeWidth, planeHeight float64
		wSegments, hSegments    int
		direction               Direction
		offsetAxisIndex         int
		offset                  float64
		mirror                  bool
	}
	parts := []part{
		{width, depth, widthSegments, depthSegments, DirMinusZ, 2, -height / 2, true},
		{width, depth, widthSegments, depthSegments, DirPlusZ, 2, height / 2, false},
		{height, width, heightSegments, widthSegments, DirMinusY, 1, -depth / 2, true},
		{height, width, heightSegments, widthSegments, DirPlusY, 1, depth / 2, false},
		{depth, height, depthSegments, heightSegments, DirMinusX, 0, -width / 2, true},
		{depth, height, depthSegments, heightSegments, DirPlusX, 0, width / 2, false},
	}

	box := &Mesh{}
	var offset uint32
	for _, p := range parts {
		if !selected[p.direction] {
			continue
		}
		plane, err := CreatePlane(p.planeWidth, p.planeHeight, p.wSegments, p.hSegments, p.direction)
		if err != nil {
			return nil, err
		}
		offsetAxis(plane.Positions, p.offsetAxisIndex, p.offset)
		if p.mirror {
			mirrorFaces(plane.Faces)
		}

		box.Positions = append(box.Positions, plane.Positions...)
		box.UVs = append(box.UVs, plane.UVs...)
		box.Normals = append(box.Normals, plane.Normals...)
		for _, f := range plane.Faces {
			box.Faces = append(box.Faces, f+offset)
		}
		for _, e := range plane.Outline {
			box.Outline = append(box.Outline, e+offset)
		}
		offset += uint32(plane.VertexCount())
	}

	if len(box.Positions) > 0 {
		box.Colours = syntheticColours(box.Positions, -1)
	}
	return box, nil
}
