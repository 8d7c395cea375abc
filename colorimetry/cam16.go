package colorimetry

import "math"

// cam16Matrix is the CAM16 cone response matrix (Li et al. 2017).
var cam16Matrix = Matrix{
	0.401288, 0.650173, -0.051461,
	-0.250268, 1.204414, 0.045854,
	-0.002079, 0.048952, 0.953127,
}

// ViewingConditions hold the CAM16 viewing parameters. The defaults mirror
// the average surround used for plotting: an adapting luminance of
// 64 / (5 pi) cd/m2 and a 20% background.
type ViewingConditions struct {
	AdaptingLuminance    float64 // L_A, cd/m2
	BackgroundLuminance  float64 // Y_b, relative to white Y = 100
	SurroundImpact       float64 // F
	ChromaticInduction   float64 // N_c
	ExponentialNonLinear float64 // c
}

// DefaultViewingConditions is the average surround.
var DefaultViewingConditions = ViewingConditions{
	AdaptingLuminance:    64.0 / (5.0 * math.Pi),
	BackgroundLuminance:  20.0,
	SurroundImpact:       1.0,
	ChromaticInduction:   1.0,
	ExponentialNonLinear: 0.69,
}

func cam16Adaptation(rgb [3]float64, fl float64) [3]float64 {
	var out [3]float64
	for i, v := range rgb {
		x := math.Pow(fl*math.Abs(v)/100.0, 0.42)
		out[i] = math.Copysign(400.0*x/(x+27.13), v) + 0.1
	}
	return out
}

// XYZToCAM16UCS converts XYZ tristimulus values to the CAM16-UCS colourspace
// (J', a', b') relative to the given white under the default viewing
// conditions.
func XYZToCAM16UCS(xyz, white [3]float64) [3]float64 {
	vc := DefaultViewingConditions

	xyzW := [3]float64{white[0] * 100.0, white[1] * 100.0, white[2] * 100.0}
	xyzS := [3]float64{xyz[0] * 100.0, xyz[1] * 100.0, xyz[2] * 100.0}

	la := vc.AdaptingLuminance
	yb := vc.BackgroundLuminance
	yw := xyzW[1]

	// Degree of adaptation.
	d := vc.SurroundImpact * (1.0 - (1.0/3.6)*math.Exp((-la-42.0)/92.0))
	d = math.Min(math.Max(d, 0), 1)

	k := 1.0 / (5.0*la + 1.0)
	k4 := k * k * k * k
	fl := 0.2*k4*(5.0*la) + 0.1*(1.0-k4)*(1.0-k4)*math.Cbrt(5.0*la)

	n := yb / yw
	z := 1.48 + math.Sqrt(n)
	nbb := 0.725 * math.Pow(1.0/n, 0.2)
	ncb := nbb

	rgbW := cam16Matrix.MulV(xyzW)
	var dRGB [3]float64
	for i := range rgbW {
		dRGB[i] = d*yw/rgbW[i] + 1.0 - d
	}

	rgbAW := cam16Adaptation([3]float64{
		rgbW[0] * dRGB[0], rgbW[1] * dRGB[1], rgbW[2] * dRGB[2],
	}, fl)
	aw := (2.0*rgbAW[0] + rgbAW[1] + rgbAW[2]/20.0 - 0.305) * nbb

	rgb := cam16Matrix.MulV(xyzS)
	rgbA := cam16Adaptation([3]float64{
		rgb[0] * dRGB[0], rgb[1] * dRGB[1], rgb[2] * dRGB[2],
	}, fl)

	ra, ga, ba := rgbA[0], rgbA[1], rgbA[2]
	ca := ra - 12.0*ga/11.0 + ba/11.0
	cb := (ra + ga - 2.0*ba) / 9.0
	h := math.Atan2(cb, ca)

	j := 100.0 * math.Pow((2.0*ra+ga+ba/20.0-0.305)*nbb/aw, vc.ExponentialNonLinear*z)

	et := 0.25 * (math.Cos(h+2.0) + 3.8)
	t := (50000.0 / 13.0 * vc.ChromaticInduction * ncb * et * math.Hypot(ca, cb)) /
		(ra + ga + 21.0*ba/20.0)
	chroma := math.Pow(t, 0.9) * math.Sqrt(j/100.0) *
		math.Pow(1.64-math.Pow(0.29, n), 0.73)
	m := chroma * math.Pow(fl, 0.25)

	// CAM16-UCS (Li et al. 2017).
	jp := 1.7 * j / (1.0 + 0.007*j)
	mp := math.Log(1.0+0.0228*m) / 0.0228
	return [3]float64{jp, mp * math.Cos(h), mp * math.Sin(h)}
}
