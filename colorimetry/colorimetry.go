// Package colorimetry implements the colourimetric transforms backing the
// analysis service: reference white points, 3x3 matrix algebra, conversions
// from CIE XYZ tristimulus values to the supported colour appearance models,
// the CIE 1931 2 degree standard observer and the Pointer's Gamut reference
// dataset.
//
// The package is deliberately self contained so that the orchestration
// layers can treat it as a black box; nothing here knows about meshes,
// caches or wire formats.
package colorimetry

// Chromaticity is a CIE xy chromaticity coordinate pair.
type Chromaticity struct {
	X float64
	Y float64
}

// Standard illuminant chromaticities (CIE 1931 2 degree observer).
var (
	IlluminantD65  = Chromaticity{0.3127, 0.3290}
	IlluminantD50  = Chromaticity{0.3457, 0.3585}
	IlluminantC    = Chromaticity{0.31006, 0.31616}
	IlluminantDCI  = Chromaticity{0.3140, 0.3510}
	IlluminantACES = Chromaticity{0.32168, 0.33767}
)

// XYZ returns the tristimulus values of the chromaticity with unit luminance.
func (c Chromaticity) XYZ() [3]float64 {
	if c.Y == 0 {
		return [3]float64{}
	}
	return [3]float64{c.X / c.Y, 1, (1 - c.X - c.Y) / c.Y}
}

// XYZToxyY converts XYZ tristimulus values to CIE xyY. Degenerate samples
// with zero sum take the chromaticity of the given white point with zero
// luminance so that black maps to the achromatic axis rather than NaN.
func XYZToxyY(xyz [3]float64, white Chromaticity) [3]float64 {
	sum := xyz[0] + xyz[1] + xyz[2]
	if sum == 0 {
		return [3]float64{white.X, white.Y, 0}
	}
	return [3]float64{xyz[0] / sum, xyz[1] / sum, xyz[1]}
}

// xyYToXYZ converts CIE xyY to XYZ tristimulus values.
func xyYToXYZ(xyY [3]float64) [3]float64 {
	if xyY[1] == 0 {
		return [3]float64{}
	}
	return [3]float64{
		xyY[0] * xyY[2] / xyY[1],
		xyY[2],
		(1 - xyY[0] - xyY[1]) * xyY[2] / xyY[1],
	}
}
