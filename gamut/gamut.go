// Package gamut classifies colour samples against RGB colourspace gamuts
// and the Pointer's Gamut reference volume. All classifiers are pure
// functions returning boolean masks; filtering is left to callers.
package gamut

import (
	"github.com/colour-science/colour-analysis/colorimetry"
	"github.com/colour-science/colour-analysis/colourspace"
)

// boundaryTolerance absorbs the last-bit rounding noise a Bradford adapted
// XYZ round trip leaves on samples sitting exactly on the gamut boundary.
const boundaryTolerance = 1e-12

// OutOfRGBGamut reports, per sample, whether a flat RGB sample array (3
// floats per sample, expressed in the source colourspace) falls outside the
// [0, 1] gamut of the target colourspace. When source and target differ the
// samples are converted through the two spaces' XYZ round trip first; the
// inputs themselves are never modified.
func OutOfRGBGamut(samples []float64, source, target *colourspace.Colourspace) []bool {
	mask := make([]bool, len(samples)/3)
	for i := range mask {
		rgb := [3]float64{samples[i*3], samples[i*3+1], samples[i*3+2]}
		if source != target {
			rgb = colourspace.Convert(rgb, source, target)
		}
		mask[i] = rgb[0] < -boundaryTolerance || rgb[0] > 1+boundaryTolerance ||
			rgb[1] < -boundaryTolerance || rgb[1] > 1+boundaryTolerance ||
			rgb[2] < -boundaryTolerance || rgb[2] > 1+boundaryTolerance
	}
	return mask
}

// OutOfPointerGamut reports, per sample, whether a flat RGB sample array
// expressed in the given colourspace falls outside the Pointer's Gamut
// volume. Samples are converted to XYZ and tested against the tabulated
// reference boundary.
func OutOfPointerGamut(samples []float64, space *colourspace.Colourspace) []bool {
	mask := make([]bool, len(samples)/3)
	for i := range mask {
		xyz := space.RGBToXYZ([3]float64{
			samples[i*3], samples[i*3+1], samples[i*3+2],
		})
		mask[i] = !colorimetry.WithinPointerGamut(xyz)
	}
	return mask
}

// OutOfPointerGamutXYZ is OutOfPointerGamut for samples already expressed
// as XYZ tristimulus values.
func OutOfPointerGamutXYZ(samples []float64) []bool {
	mask := make([]bool, len(samples)/3)
	for i := range mask {
		mask[i] = !colorimetry.WithinPointerGamut([3]float64{
			samples[i*3], samples[i*3+1], samples[i*3+2],
		})
	}
	return mask
}
