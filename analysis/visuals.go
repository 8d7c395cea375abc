package analysis

import (
	"math"

	"github.com/colour-science/colour-analysis/buffergeometry"
	"github.com/colour-science/colour-analysis/colorimetry"
	"github.com/colour-science/colour-analysis/colourspace"
	"github.com/colour-science/colour-analysis/geometry"
	"github.com/colour-science/colour-analysis/model"
	"github.com/colour-science/colour-analysis/observability"
)

// VolumeRequest parametrises a colourspace volume visual.
type VolumeRequest struct {
	Colourspace string
	Model       model.Model
	Segments    int
	Wireframe   bool
}

// VolumeVisual returns the gamut cube of an RGB colourspace expressed in
// the requested colour model: a box tessellated over the RGB unit cube,
// each vertex converted through XYZ into model space. Wireframe selects the
// outline index buffer instead of the filled faces.
func (e *Engine) VolumeVisual(req VolumeRequest) (*buffergeometry.Buffer, error) {
	space, err := lookupColourspace(req.Colourspace, PrimaryColourspace)
	if err != nil {
		return nil, err
	}
	m, err := lookupModel(req.Model)
	if err != nil {
		return nil, err
	}
	segments := req.Segments
	if segments < 1 {
		segments = DefaultSegments
	}

	cube, err := geometry.CreateBox(1, 1, 1, segments, segments, segments, nil)
	if err != nil {
		return nil, err
	}

	// Shift the unit box from [-0.5, 0.5] onto the RGB unit cube.
	rgb := make([]float64, len(cube.Positions))
	for i, v := range cube.Positions {
		rgb[i] = v + 0.5
	}

	vertices, err := e.transform(rgbToXYZ(rgb, space), space, m, true)
	if err != nil {
		return nil, err
	}

	index := cube.Faces
	if req.Wireframe {
		index = cube.Outline
	}
	index = model.ReorderFaces(index, m)

	e.log.Debug("volume visual",
		observability.String("colourspace", space.Name),
		observability.String("model", string(m)),
		observability.Int(observability.MetricVertexCount, cube.VertexCount()))

	return e.encode(map[string]buffergeometry.Attribute{
		"position": buffergeometry.Floats64(vertices, 3),
		"color":    buffergeometry.NarrowFloats64(cube.Colours, 4),
		"index":    buffergeometry.Indices(index),
	}, "volume visual")
}

// locusColours derives display colours for XYZ samples by converting to the
// colourspace and normalising each triple by its maximum component.
func locusColours(xyz []float64, space *colourspace.Colourspace) []float64 {
	out := make([]float64, len(xyz))
	for i := 0; i+2 < len(xyz); i += 3 {
		rgb := space.XYZToRGB([3]float64{xyz[i], xyz[i+1], xyz[i+2]})
		max := math.Max(rgb[0], math.Max(rgb[1], rgb[2]))
		for j, v := range rgb {
			if max > 0 {
				v /= max
			}
			out[i+j] = math.Min(math.Max(v, 0), 1)
		}
	}
	return out
}

// SpectralLocusVisual returns the spectral locus of the CIE 1931 2 degree
// standard observer as a closed polyline in model space, coloured with the
// normalised RGB of each wavelength in the given colourspace.
func (e *Engine) SpectralLocusVisual(colourspaceName string, mdl model.Model) (*buffergeometry.Buffer, error) {
	space, err := lookupColourspace(colourspaceName, PrimaryColourspace)
	if err != nil {
		return nil, err
	}
	m, err := lookupModel(mdl)
	if err != nil {
		return nil, err
	}

	locus := colorimetry.SpectralLocusXYZ(0, 0)
	xyz := make([]float64, 0, (len(locus)+1)*3)
	for _, s := range locus {
		xyz = append(xyz, s[0], s[1], s[2])
	}
	// Close the locus through the line of purples.
	xyz = append(xyz, locus[0][0], locus[0][1], locus[0][2])

	vertices, err := e.transform(xyz, space, m, true)
	if err != nil {
		return nil, err
	}

	return e.encode(map[string]buffergeometry.Attribute{
		"position": buffergeometry.Floats64(vertices, 3),
		"color":    buffergeometry.NarrowFloats64(locusColours(xyz, space), 3),
	}, "spectral locus visual")
}

// VisibleSpectrumVisual returns the open polyline sweep of the visible
// spectrum between 380 and 780 nm in model space.
func (e *Engine) VisibleSpectrumVisual(colourspaceName string, mdl model.Model) (*buffergeometry.Buffer, error) {
	space, err := lookupColourspace(colourspaceName, PrimaryColourspace)
	if err != nil {
		return nil, err
	}
	m, err := lookupModel(mdl)
	if err != nil {
		return nil, err
	}

	locus := colorimetry.SpectralLocusXYZ(380, 780)
	xyz := make([]float64, 0, len(locus)*3)
	for _, s := range locus {
		xyz = append(xyz, s[0], s[1], s[2])
	}

	vertices, err := e.transform(xyz, space, m, true)
	if err != nil {
		return nil, err
	}

	return e.encode(map[string]buffergeometry.Attribute{
		"position": buffergeometry.Floats64(vertices, 3),
		"color":    buffergeometry.NarrowFloats64(locusColours(xyz, space), 3),
	}, "visible spectrum visual")
}

// PointerGamutVisual returns the Pointer's Gamut hull as an outline mesh in
// model space: one closed loop per tabulated lightness level.
func (e *Engine) PointerGamutVisual(mdl model.Model) (*buffergeometry.Buffer, error) {
	m, err := lookupModel(mdl)
	if err != nil {
		return nil, err
	}

	hull := colorimetry.PointerGamutHullXYZ()
	xyz := make([]float64, 0, len(hull)*3)
	for _, s := range hull {
		xyz = append(xyz, s[0], s[1], s[2])
	}

	// The volume is tabulated for illuminant C; transform against it.
	vertices, err := model.Transform(xyz, colorimetry.IlluminantC, m, true)
	if err != nil {
		return nil, err
	}

	// One closed outline loop of 36 samples per lightness slice.
	const loop = 36
	index := make([]uint32, 0, len(hull)*2)
	for start := 0; start < len(hull); start += loop {
		for i := 0; i < loop; i++ {
			index = append(index,
				uint32(start+i),
				uint32(start+(i+1)%loop))
		}
	}

	colours := make([]float64, len(hull)*3)
	for i := range colours {
		colours[i] = 0.5
	}

	return e.encode(map[string]buffergeometry.Attribute{
		"position": buffergeometry.Floats64(vertices, 3),
		"color":    buffergeometry.NarrowFloats64(colours, 3),
		"index":    buffergeometry.Indices(index),
	}, "pointer gamut visual")
}
