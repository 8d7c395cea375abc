package colorimetry

import "math"

// The conversions below map CIE XYZ tristimulus values, scaled such that the
// reference white has Y = 1, into the supported colour appearance models.
// Each function takes the tristimulus values of the adapting white so that
// relative models are computed against the correct origin.

func cbrt(v float64) float64 {
	// Sign preserving cube root, the appearance models below are defined on
	// signed channel values.
	return math.Copysign(math.Pow(math.Abs(v), 1.0/3.0), v)
}

func spow(v, p float64) float64 {
	return math.Copysign(math.Pow(math.Abs(v), p), v)
}

// labF is the CIE 1976 lightness companding function.
func labF(t float64) float64 {
	const e = 216.0 / 24389.0
	const k = 24389.0 / 27.0
	if t > e {
		return math.Cbrt(t)
	}
	return (k*t + 16.0) / 116.0
}

// XYZToLab converts to CIE L*a*b* relative to the given white.
func XYZToLab(xyz, white [3]float64) [3]float64 {
	fx := labF(xyz[0] / white[0])
	fy := labF(xyz[1] / white[1])
	fz := labF(xyz[2] / white[2])
	return [3]float64{
		116.0*fy - 16.0,
		500.0 * (fx - fy),
		200.0 * (fy - fz),
	}
}

// LabToXYZ is the inverse of XYZToLab.
func LabToXYZ(lab, white [3]float64) [3]float64 {
	const e = 216.0 / 24389.0
	const k = 24389.0 / 27.0
	fy := (lab[0] + 16.0) / 116.0
	fx := lab[1]/500.0 + fy
	fz := fy - lab[2]/200.0
	fInv := func(t float64) float64 {
		if t3 := t * t * t; t3 > e {
			return t3
		}
		return (116.0*t - 16.0) / k
	}
	return [3]float64{
		white[0] * fInv(fx),
		white[1] * fInv(fy),
		white[2] * fInv(fz),
	}
}

// uvPrime returns the CIE 1976 u'v' chromaticity of XYZ tristimulus values.
func uvPrime(xyz [3]float64) (float64, float64) {
	d := xyz[0] + 15.0*xyz[1] + 3.0*xyz[2]
	if d == 0 {
		return 0, 0
	}
	return 4.0 * xyz[0] / d, 9.0 * xyz[1] / d
}

// XYZToLuv converts to CIE L*u*v* relative to the given white.
func XYZToLuv(xyz, white [3]float64) [3]float64 {
	const e = 216.0 / 24389.0
	const k = 24389.0 / 27.0
	yr := xyz[1] / white[1]
	var l float64
	if yr > e {
		l = 116.0*math.Cbrt(yr) - 16.0
	} else {
		l = k * yr
	}
	u, v := uvPrime(xyz)
	un, vn := uvPrime(white)
	return [3]float64{l, 13.0 * l * (u - un), 13.0 * l * (v - vn)}
}

// XYZToUCS converts to the CIE 1960 UCS colourspace.
func XYZToUCS(xyz [3]float64) [3]float64 {
	return [3]float64{
		2.0 * xyz[0] / 3.0,
		xyz[1],
		0.5 * (-xyz[0] + 3.0*xyz[1] + xyz[2]),
	}
}

// uv1960 returns the CIE 1960 uv chromaticity of XYZ tristimulus values.
func uv1960(xyz [3]float64) (float64, float64) {
	d := xyz[0] + 15.0*xyz[1] + 3.0*xyz[2]
	if d == 0 {
		return 0, 0
	}
	return 4.0 * xyz[0] / d, 6.0 * xyz[1] / d
}

// XYZToUVW converts to the CIE 1964 U*V*W* colourspace relative to the
// given white. Luminance is expected in domain [0, 1] and is scaled to the
// [0, 100] domain the model is defined on.
func XYZToUVW(xyz, white [3]float64) [3]float64 {
	u, v := uv1960(xyz)
	u0, v0 := uv1960(white)
	w := 25.0*math.Cbrt(xyz[1]*100.0) - 17.0
	return [3]float64{13.0 * w * (u - u0), 13.0 * w * (v - v0), w}
}

// din99Rotation is the DIN 99 hue rotation angle, 16 degrees.
var sin16, cos16 = math.Sincos(16.0 * math.Pi / 180.0)

// XYZToDIN99 converts to the DIN 6176 (DIN 99) colourspace via CIE Lab.
func XYZToDIN99(xyz, white [3]float64) [3]float64 {
	lab := XYZToLab(xyz, white)
	l99 := 105.509 * math.Log(1.0+0.0158*lab[0])
	e := lab[1]*cos16 + lab[2]*sin16
	f := 0.7 * (-lab[1]*sin16 + lab[2]*cos16)
	g := math.Hypot(e, f)
	c99 := math.Log(1.0+0.045*g) / 0.045
	h99 := math.Atan2(f, e)
	return [3]float64{l99, c99 * math.Cos(h99), c99 * math.Sin(h99)}
}

// XYZToHunterLab converts to the Hunter L,a,b colourspace. Tristimulus
// values are scaled to the [0, 100] domain the model is defined on.
func XYZToHunterLab(xyz, white [3]float64) [3]float64 {
	x, y, z := xyz[0]*100.0, xyz[1]*100.0, xyz[2]*100.0
	xn, yn, zn := white[0]*100.0, white[1]*100.0, white[2]*100.0
	ka := 175.0 / 198.04 * (xn + yn)
	kb := 70.0 / 218.11 * (yn + zn)
	yr := y / yn
	sqrtYr := math.Sqrt(yr)
	if sqrtYr == 0 {
		return [3]float64{}
	}
	return [3]float64{
		100.0 * sqrtYr,
		ka * (x/xn - yr) / sqrtYr,
		kb * (yr - z/zn) / sqrtYr,
	}
}

// XYZToHunterRdab converts to the Hunter Rd,a,b colourspace.
func XYZToHunterRdab(xyz, white [3]float64) [3]float64 {
	x, y, z := xyz[0]*100.0, xyz[1]*100.0, xyz[2]*100.0
	xn, yn, zn := white[0]*100.0, white[1]*100.0, white[2]*100.0
	ka := 175.0 / 198.04 * (xn + yn)
	kb := 70.0 / 218.11 * (yn + zn)
	yr := y / yn
	sqrtYr := math.Sqrt(yr)
	if sqrtYr == 0 {
		return [3]float64{}
	}
	return [3]float64{
		y,
		ka * (x/xn - yr) / sqrtYr,
		kb * (yr - z/zn) / sqrtYr,
	}
}

// Hunt-Pointer-Estevez cone response matrix, D65 normalised.
var hpe = Matrix{
	0.4002, 0.7075, -0.0807,
	-0.2280, 1.1500, 0.0612,
	0.0000, 0.0000, 0.9184,
}

// iptMatrix maps companded LMS cone responses to IPT.
var iptMatrix = Matrix{
	0.4000, 0.4000, 0.2000,
	4.4550, -4.8510, 0.3960,
	0.8056, 0.3572, -1.1628,
}

// XYZToIPT converts to the IPT colourspace. The model is defined for D65
// adapted tristimulus values.
func XYZToIPT(xyz [3]float64) [3]float64 {
	lms := hpe.MulV(xyz)
	for i := range lms {
		lms[i] = spow(lms[i], 0.43)
	}
	return iptMatrix.MulV(lms)
}

// ST 2084 style perceptual quantiser constants shared by JzAzBz and ICtCp.
const (
	pqC1 = 3424.0 / 4096.0
	pqC2 = 2413.0 / 128.0
	pqC3 = 2392.0 / 128.0
	pqN  = 2610.0 / 16384.0
	pqM  = 2523.0 / 4096.0 * 128.0
)

func pqForward(v, m float64) float64 {
	yn := math.Pow(math.Max(v, 0)/10000.0, pqN)
	return math.Pow((pqC1+pqC2*yn)/(1.0+pqC3*yn), m)
}

var jzazbzLMS = Matrix{
	0.41478972, 0.579999, 0.0146480,
	-0.2015100, 1.120649, 0.0531008,
	-0.0166008, 0.264800, 0.6684799,
}

var jzazbzIab = Matrix{
	0.5, 0.5, 0.0,
	3.524000, -4.066708, 0.542708,
	0.199076, 1.096799, -1.295875,
}

// XYZToJzAzBz converts to the Safdar et al. (2017) JzAzBz colourspace.
// Relative tristimulus values are scaled assuming a 100 cd/m2 white.
func XYZToJzAzBz(xyz [3]float64) [3]float64 {
	const b = 1.15
	const g = 0.66
	const d = -0.56
	const d0 = 1.6295499532821566e-11
	const m = pqM * 1.7

	x := xyz[0] * 100.0
	y := xyz[1] * 100.0
	z := xyz[2] * 100.0

	lms := jzazbzLMS.MulV([3]float64{
		b*x - (b-1.0)*z,
		g*y - (g-1.0)*x,
		z,
	})
	for i := range lms {
		lms[i] = pqForward(lms[i], m)
	}
	iab := jzazbzIab.MulV(lms)
	jz := (1.0+d)*iab[0]/(1.0+d*iab[0]) - d0
	return [3]float64{jz, iab[1], iab[2]}
}

// BT.2100 XYZ to LMS cone response matrix.
var ictcpLMS = Matrix{
	0.3592, 0.6976, -0.0358,
	-0.1922, 1.1004, 0.0755,
	0.0070, 0.0749, 0.8434,
}

var ictcpMatrix = Matrix{
	2048.0 / 4096.0, 2048.0 / 4096.0, 0.0,
	6610.0 / 4096.0, -13613.0 / 4096.0, 7003.0 / 4096.0,
	17933.0 / 4096.0, -17390.0 / 4096.0, -543.0 / 4096.0,
}

// XYZToICtCp converts to the ITU-R BT.2100 ICtCp colourspace using the
// ST 2084 non-linearity, assuming a 100 cd/m2 white.
func XYZToICtCp(xyz [3]float64) [3]float64 {
	lms := ictcpLMS.MulV([3]float64{xyz[0] * 100.0, xyz[1] * 100.0, xyz[2] * 100.0})
	for i := range lms {
		lms[i] = pqForward(lms[i], pqM)
	}
	return ictcpMatrix.MulV(lms)
}

// IgPgTg matrices and normalisation constants, Hellwig and Fairchild (2020).
var igpgtgLMS = Matrix{
	2.968, 2.741, -0.649,
	1.237, 5.969, -0.173,
	0.259, 0.917, 0.565,
}

var igpgtgMatrix = Matrix{
	2.968, 2.741, -0.649,
	0.950, -2.688, 1.738,
	0.307, 0.202, -0.509,
}

// XYZToIGPGTG converts to the IgPgTg colourspace. The model is defined for
// D65 adapted tristimulus values.
func XYZToIGPGTG(xyz [3]float64) [3]float64 {
	lms := igpgtgLMS.MulV([3]float64{xyz[0] * 100.0, xyz[1] * 100.0, xyz[2] * 100.0})
	lms[0] = spow(lms[0]/18.36, 0.427)
	lms[1] = spow(lms[1]/21.46, 0.427)
	lms[2] = spow(lms[2]/19.31, 0.427)
	return igpgtgMatrix.MulV(lms)
}

// OSA UCS RGB analysis matrix, 10 degree observer approximation.
var osaMatrix = Matrix{
	0.7990, 0.4194, -0.1648,
	-0.4493, 1.3265, 0.0927,
	-0.1149, 0.3394, 0.7170,
}

// XYZToOSAUCS converts to the OSA UCS colourspace (L, j, g). Tristimulus
// values are scaled to the [0, 100] domain the model is defined on.
func XYZToOSAUCS(xyz [3]float64) [3]float64 {
	x, y, z := xyz[0]*100.0, xyz[1]*100.0, xyz[2]*100.0
	sum := x + y + z
	var cx, cy float64
	if sum != 0 {
		cx = x / sum
		cy = y / sum
	}

	y0 := y * (4.4934*cx*cx + 4.3034*cy*cy - 4.276*cx*cy - 1.3744*cx - 2.5643*cy + 1.8103)

	lp := 5.9 * (cbrt(y0) - 2.0/3.0 + 0.042*cbrt(y0-30.0))
	l := (lp - 14.4) / math.Sqrt2

	den := 5.9 * (cbrt(y0) - 2.0/3.0)
	var c float64
	if den != 0 {
		c = lp / den
	}

	rgb := osaMatrix.MulV([3]float64{x, y, z})
	r3, g3, b3 := cbrt(rgb[0]), cbrt(rgb[1]), cbrt(rgb[2])

	a := -13.7*r3 + 17.7*g3 - 4.0*b3
	b := 1.7*r3 + 8.0*g3 - 9.7*b3

	return [3]float64{l, c * b, c * a}
}

// hdrExponent is the Fairchild and Wyble (2011) lightness exponent for the
// hdr-CIELAB and hdr-IPT models, computed for a 0.2 surround relative
// luminance and a 100 cd/m2 scene white.
func hdrExponent() float64 {
	const ys = 0.2
	const yAbs = 100.0
	sf := 1.25 - 0.25*(ys/0.184)
	lf := math.Log(318.0) / math.Log(yAbs)
	return 0.58 / (sf * lf)
}

// hdrLightness is the Fairchild (2010) Michaelis-Menten style lightness
// function shared by the hdr models.
func hdrLightness(omega, e float64) float64 {
	oe := spow(omega, e)
	return 247.0 * oe / (oe + math.Pow(2.0, e))
}

// XYZToHdrCIELab converts to the hdr-CIELAB colourspace relative to the
// given white.
func XYZToHdrCIELab(xyz, white [3]float64) [3]float64 {
	e := hdrExponent()
	fx := hdrLightness(xyz[0]/white[0], e)
	fy := hdrLightness(xyz[1]/white[1], e)
	fz := hdrLightness(xyz[2]/white[2], e)
	return [3]float64{fy, 5.0 * (fx - fy), 2.0 * (fy - fz)}
}

// XYZToHdrIPT converts to the hdr-IPT colourspace.
func XYZToHdrIPT(xyz [3]float64) [3]float64 {
	e := hdrExponent()
	lms := hpe.MulV(xyz)
	for i := range lms {
		lms[i] = hdrLightness(lms[i], e)
	}
	return iptMatrix.MulV(lms)
}
