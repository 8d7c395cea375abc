package colorimetry

import (
	"errors"
	"math"
)

// Matrix is a row-major 3x3 matrix.
type Matrix [9]float64

// Identity is the 3x3 identity matrix.
var Identity = Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}

// MulV applies the matrix to a column vector.
func (m Matrix) MulV(v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Mul returns the matrix product m * n.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3]*n[c] + m[r*3+1]*n[3+c] + m[r*3+2]*n[6+c]
		}
	}
	return out
}

// Inverse returns the inverse matrix, or an error if m is singular.
func (m Matrix) Inverse() (Matrix, error) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < 1e-12 {
		return Matrix{}, errors.New("matrix is singular")
	}
	invDet := 1.0 / det

	return Matrix{
		(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet,
		(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet,
		(d*h - e*g) * invDet, (g*b - a*h) * invDet, (a*e - b*d) * invDet,
	}, nil
}

// NormalisedPrimaryMatrix derives the RGB to XYZ matrix of an additive
// colourspace from its primaries and white point, scaling the primaries so
// that the white point maps to unit luminance.
func NormalisedPrimaryMatrix(primaries [3]Chromaticity, white Chromaticity) (Matrix, error) {
	var p Matrix
	for i, c := range primaries {
		xyz := c.XYZ()
		p[i] = xyz[0]
		p[3+i] = xyz[1]
		p[6+i] = xyz[2]
	}
	inv, err := p.Inverse()
	if err != nil {
		return Matrix{}, err
	}
	s := inv.MulV(white.XYZ())
	return Matrix{
		p[0] * s[0], p[1] * s[1], p[2] * s[2],
		p[3] * s[0], p[4] * s[1], p[5] * s[2],
		p[6] * s[0], p[7] * s[1], p[8] * s[2],
	}, nil
}

// bradford is the Bradford cone response matrix used for chromatic
// adaptation between white points.
var bradford = Matrix{
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
}

// AdaptationMatrix returns the Bradford chromatic adaptation matrix mapping
// XYZ values relative to the source white to XYZ values relative to the
// target white. Identical whites yield the identity matrix.
func AdaptationMatrix(source, target Chromaticity) Matrix {
	if source == target {
		return Identity
	}
	src := bradford.MulV(source.XYZ())
	dst := bradford.MulV(target.XYZ())
	scale := Matrix{
		dst[0] / src[0], 0, 0,
		0, dst[1] / src[1], 0,
		0, 0, dst[2] / src[2],
	}
	inv, _ := bradford.Inverse()
	return inv.Mul(scale).Mul(bradford)
}
