// Package model implements the colour model transform engine: it delegates
// the numeric XYZ to model conversion to the colorimetry package and layers
// the two canonicalisation passes on top, white normalisation for the
// models that need it and the per model axis reorder placing perceptual
// lightness on the vertical visualisation axis.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/colour-science/colour-analysis/colorimetry"
)

// ErrNotFound is returned when a model name is not registered.
var ErrNotFound = errors.New("colourspace model not found")

// Model names a colour model variant.
type Model string

const (
	CIEXYZ     Model = "CIE XYZ"
	CIExyY     Model = "CIE xyY"
	CIELab     Model = "CIE Lab"
	CIELuv     Model = "CIE Luv"
	CIEUCS     Model = "CIE UCS"
	CIEUVW     Model = "CIE UVW"
	DIN99      Model = "DIN 99"
	HunterLab  Model = "Hunter Lab"
	HunterRdab Model = "Hunter Rdab"
	IPT        Model = "IPT"
	JzAzBz     Model = "JzAzBz"
	OSAUCS     Model = "OSA UCS"
	HdrCIELab  Model = "hdr-CIELAB"
	HdrIPT     Model = "hdr-IPT"
	ICtCp      Model = "ICtCp"
	IGPGTG     Model = "IgPgTg"
	CAM16UCS   Model = "CAM16-UCS"
)

// Axis reorder permutations. The output channel i takes input channel
// perm[i]; identity leaves the model untouched.
var (
	permIdentity = [3]int{0, 1, 2}
	permXYZ      = [3]int{2, 1, 0}
	permChroma   = [3]int{1, 2, 0}
	permLabLike  = [3]int{2, 0, 1}
)

type definition struct {
	labels  [3]string
	convert func(xyz, white [3]float64) [3]float64
	reorder [3]int
	// normalise rescales the model by the lightness of the transformed
	// reference white so that differently scaled models stay comparable.
	normalise bool
	// reverseFaces marks models whose axis permutation flips the winding
	// of face index buffers.
	reverseFaces bool
}

// table is the closed variant to behaviour mapping; adding a model means
// adding exactly one entry here.
var table = map[Model]definition{
	CIEXYZ: {
		labels:       [3]string{"X", "Y", "Z"},
		convert:      func(xyz, _ [3]float64) [3]float64 { return xyz },
		reorder:      permXYZ,
		reverseFaces: true,
	},
	CIExyY: {
		labels: [3]string{"x", "Y", "y"},
		convert: func(xyz, white [3]float64) [3]float64 {
			return colorimetry.XYZToxyY(xyz, chromaticity(white))
		},
		reorder: permChroma,
	},
	CIELab: {
		labels:  [3]string{"a*", "L*", "b*"},
		convert: colorimetry.XYZToLab,
		reorder: permLabLike,
	},
	CIELuv: {
		labels:  [3]string{"u*", "L*", "v*"},
		convert: colorimetry.XYZToLuv,
		reorder: permLabLike,
	},
	CIEUCS: {
		labels:  [3]string{"U", "W", "V"},
		convert: func(xyz, _ [3]float64) [3]float64 { return colorimetry.XYZToUCS(xyz) },
		reorder: permChroma,
	},
	CIEUVW: {
		labels:  [3]string{"U*", "W*", "V*"},
		convert: colorimetry.XYZToUVW,
		reorder: permChroma,
	},
	DIN99: {
		labels:  [3]string{"a99", "L99", "b99"},
		convert: colorimetry.XYZToDIN99,
		reorder: permLabLike,
	},
	HunterLab: {
		labels:  [3]string{"a", "L", "b"},
		convert: colorimetry.XYZToHunterLab,
		reorder: permLabLike,
	},
	HunterRdab: {
		labels:  [3]string{"a", "Rd", "b"},
		convert: colorimetry.XYZToHunterRdab,
		reorder: permLabLike,
	},
	IPT: {
		labels:  [3]string{"P", "I", "T"},
		convert: func(xyz, _ [3]float64) [3]float64 { return colorimetry.XYZToIPT(xyz) },
		reorder: permLabLike,
	},
	JzAzBz: {
		labels:    [3]string{"Az", "Jz", "Bz"},
		convert:   func(xyz, _ [3]float64) [3]float64 { return colorimetry.XYZToJzAzBz(xyz) },
		reorder:   permLabLike,
		normalise: true,
	},
	OSAUCS: {
		labels:    [3]string{"j", "J", "g"},
		convert:   func(xyz, _ [3]float64) [3]float64 { return colorimetry.XYZToOSAUCS(xyz) },
		reorder:   permLabLike,
		normalise: true,
	},
	HdrCIELab: {
		labels:  [3]string{"a hdr", "L hdr", "b hdr"},
		convert: colorimetry.XYZToHdrCIELab,
		reorder: permLabLike,
	},
	HdrIPT: {
		labels:  [3]string{"P hdr", "I hdr", "T hdr"},
		convert: func(xyz, _ [3]float64) [3]float64 { return colorimetry.XYZToHdrIPT(xyz) },
		reorder: permLabLike,
	},
	ICtCp: {
		labels:  [3]string{"Ct", "I", "Cp"},
		convert: func(xyz, _ [3]float64) [3]float64 { return colorimetry.XYZToICtCp(xyz) },
		reorder: permLabLike,
	},
	IGPGTG: {
		labels:  [3]string{"Pg", "Ig", "Tg"},
		convert: func(xyz, _ [3]float64) [3]float64 { return colorimetry.XYZToIGPGTG(xyz) },
		reorder: permLabLike,
	},
	CAM16UCS: {
		labels:  [3]string{"a'", "J'", "b'"},
		convert: colorimetry.XYZToCAM16UCS,
		reorder: permLabLike,
	},
}

// order fixes the listing order: the CIE models first, then the uniform and
// appearance models, matching the order the reference application exposed.
var order = []Model{
	CIEXYZ, CIExyY, CIELab, CIELuv, CIEUCS, CIEUVW,
	DIN99, HunterLab, HunterRdab, IPT, JzAzBz, OSAUCS,
	HdrCIELab, HdrIPT, ICtCp, IGPGTG, CAM16UCS,
}

func chromaticity(white [3]float64) colorimetry.Chromaticity {
	sum := white[0] + white[1] + white[2]
	if sum == 0 {
		return colorimetry.Chromaticity{}
	}
	return colorimetry.Chromaticity{X: white[0] / sum, Y: white[1] / sum}
}

// Models returns the supported model names in listing order.
func Models() []Model {
	out := make([]Model, len(order))
	copy(out, order)
	return out
}

// Labels returns the axis label triple of a model, ordered for the
// visualisation axes (lightness on the middle, vertical axis).
func Labels(m Model) ([3]string, error) {
	def, ok := table[m]
	if !ok {
		return [3]string{}, fmt.Errorf("%w: %q", ErrNotFound, m)
	}
	return def.labels, nil
}

// Reorder returns the axis permutation of a model: output channel i takes
// input channel perm[i].
func Reorder(m Model) ([3]int, error) {
	def, ok := table[m]
	if !ok {
		return permIdentity, fmt.Errorf("%w: %q", ErrNotFound, m)
	}
	return def.reorder, nil
}

// Transform converts flat XYZ samples (3 floats per sample, relative to the
// given white point) into the named model, applying white normalisation
// where the model calls for it and the canonical axis reorder. When
// sanitise is set, NaN values produced by degenerate transforms are zeroed
// before reordering; raw analysis callers pass false to preserve them.
func Transform(samples []float64, white colorimetry.Chromaticity, m Model, sanitise bool) ([]float64, error) {
	def, ok := table[m]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, m)
	}
	if len(samples)%3 != 0 {
		return nil, fmt.Errorf("model: sample count not a multiple of 3: %d", len(samples))
	}

	whiteXYZ := white.XYZ()

	var norm float64
	if def.normalise {
		// Lightness of the model evaluated at the reference white; the
		// models that opt in carry lightness on their first channel.
		norm = def.convert(whiteXYZ, whiteXYZ)[0]
	}

	out := make([]float64, len(samples))
	for i := 0; i+2 < len(samples); i += 3 {
		v := def.convert([3]float64{samples[i], samples[i+1], samples[i+2]}, whiteXYZ)
		if def.normalise {
			if norm != 0 {
				v[0] /= norm
				v[1] /= norm
				v[2] /= norm
			} else if sanitise {
				v = [3]float64{}
			}
		}
		if sanitise {
			for j := range v {
				if math.IsNaN(v[j]) {
					v[j] = 0
				}
			}
		}
		out[i] = v[def.reorder[0]]
		out[i+1] = v[def.reorder[1]]
		out[i+2] = v[def.reorder[2]]
	}
	return out, nil
}

// ReorderFaces reverses a face index buffer for the models whose axis
// permutation flips the winding, returning the input untouched otherwise.
// The reversal runs over the flat index sequence.
func ReorderFaces(indices []uint32, m Model) []uint32 {
	def, ok := table[m]
	if !ok || !def.reverseFaces {
		return indices
	}
	out := make([]uint32, len(indices))
	for i, v := range indices {
		out[len(indices)-1-i] = v
	}
	return out
}
