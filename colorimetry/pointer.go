package colorimetry

import "math"

// Pointer's Gamut reference volume, after Pointer (1980). The volume is
// tabulated as the maximum attainable chroma of real surface colours in
// CIE LCHab under illuminant C, sampled at 16 lightness levels from 15 to
// 90 in steps of 5 and 36 hue angles from 0 to 350 degrees in steps of 10.
//
// The table is the authoritative membership reference, there is no closed
// form boundary.

// PointerGamutLightness are the tabulated lightness levels.
var PointerGamutLightness = []float64{
	15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90,
}

// pointerGamutChroma[i][j] is the boundary chroma at lightness
// PointerGamutLightness[i] and hue angle j * 10 degrees.
var pointerGamutChroma = [16][36]float64{
	{20.8, 22.6, 24.8, 26.1, 25.3, 22.2, 17.8, 13.6, 10.6, 8.6, 7.6, 7.2, 7.4, 8.0, 8.8, 9.8, 10.6, 11.1, 11.3, 11.5, 11.9, 12.8, 14.3, 16.8, 20.2, 24.4, 28.8, 32.5, 34.5, 34.5, 32.7, 29.7, 26.2, 23.2, 21.1, 20.3},
	{28.6, 30.8, 33.5, 35.2, 34.3, 30.5, 24.9, 19.4, 15.2, 12.5, 11.1, 10.6, 10.9, 11.8, 13.0, 14.4, 15.5, 16.2, 16.5, 16.7, 17.2, 18.1, 19.9, 22.8, 26.7, 31.4, 36.2, 40.1, 42.4, 42.6, 41.0, 38.0, 34.4, 31.0, 28.7, 27.8},
	{37.1, 39.7, 43.0, 45.1, 44.2, 39.9, 33.2, 26.4, 21.0, 17.5, 15.7, 15.1, 15.5, 16.6, 18.3, 20.1, 21.6, 22.4, 22.8, 22.9, 23.3, 24.3, 26.2, 29.3, 33.4, 38.2, 43.0, 46.9, 49.2, 49.8, 48.6, 46.1, 42.7, 39.4, 36.9, 36.0},
	{45.5, 48.5, 52.2, 54.7, 54.1, 49.7, 42.4, 34.5, 28.0, 23.7, 21.3, 20.6, 21.1, 22.5, 24.6, 26.8, 28.5, 29.4, 29.7, 29.7, 29.9, 30.8, 32.6, 35.5, 39.5, 44.0, 48.3, 51.8, 54.1, 55.0, 54.5, 52.8, 50.1, 47.2, 44.9, 44.2},
	{52.8, 56.0, 60.0, 62.9, 62.9, 59.1, 51.9, 43.4, 36.0, 30.9, 28.0, 27.1, 27.6, 29.2, 31.4, 33.8, 35.6, 36.6, 36.7, 36.5, 36.4, 36.9, 38.4, 40.8, 44.1, 47.8, 51.3, 54.1, 56.2, 57.4, 57.9, 57.3, 55.7, 53.6, 51.8, 51.3},
	{57.9, 61.3, 65.3, 68.6, 69.5, 66.9, 60.7, 52.5, 44.7, 38.9, 35.6, 34.3, 34.7, 36.2, 38.3, 40.5, 42.2, 43.0, 42.9, 42.4, 41.9, 41.9, 42.7, 44.4, 46.7, 49.3, 51.6, 53.6, 55.2, 56.8, 58.1, 58.8, 58.5, 57.5, 56.4, 56.3},
	{60.2, 63.4, 67.3, 70.9, 73.0, 72.2, 68.0, 61.0, 53.4, 47.4, 43.6, 42.0, 41.9, 42.9, 44.5, 46.2, 47.5, 47.9, 47.5, 46.6, 45.6, 44.9, 45.0, 45.6, 46.7, 48.0, 49.1, 50.1, 51.4, 53.1, 55.1, 57.0, 58.2, 58.4, 58.2, 58.5},
	{59.1, 62.0, 65.7, 69.5, 72.7, 74.3, 72.9, 68.1, 61.6, 55.7, 51.7, 49.5, 48.7, 48.7, 49.2, 50.0, 50.6, 50.5, 49.7, 48.4, 46.9, 45.6, 44.8, 44.4, 44.3, 44.2, 44.1, 44.3, 45.2, 47.0, 49.5, 52.4, 54.7, 56.1, 56.7, 57.5},
	{55.0, 57.4, 60.7, 64.5, 68.9, 72.9, 74.8, 73.0, 68.4, 63.3, 59.1, 56.3, 54.3, 52.9, 51.9, 51.4, 51.1, 50.5, 49.3, 47.6, 45.6, 43.8, 42.2, 40.8, 39.6, 38.5, 37.6, 37.1, 37.6, 39.3, 42.1, 45.5, 48.6, 50.9, 52.3, 53.4},
	{48.4, 50.3, 53.1, 56.8, 61.9, 68.1, 73.4, 75.3, 73.3, 69.4, 65.3, 61.7, 58.3, 55.0, 52.1, 50.2, 48.9, 47.7, 46.2, 44.3, 42.0, 39.8, 37.6, 35.5, 33.6, 31.7, 30.2, 29.4, 29.6, 31.1, 33.8, 37.4, 40.9, 43.8, 45.7, 47.0},
	{40.2, 41.7, 44.0, 47.4, 52.9, 60.7, 69.0, 74.6, 75.7, 73.4, 69.6, 65.2, 60.0, 54.7, 50.0, 46.6, 44.3, 42.7, 41.0, 38.9, 36.6, 34.2, 31.7, 29.3, 26.9, 24.8, 23.0, 22.0, 22.1, 23.3, 25.7, 29.0, 32.6, 35.6, 37.7, 39.1},
	{31.7, 32.8, 34.5, 37.5, 43.0, 51.5, 62.0, 71.0, 75.4, 75.1, 71.7, 66.4, 59.5, 52.1, 45.6, 41.0, 38.1, 36.2, 34.4, 32.4, 30.2, 27.8, 25.3, 22.8, 20.4, 18.3, 16.6, 15.6, 15.5, 16.5, 18.5, 21.3, 24.5, 27.4, 29.4, 30.7},
	{23.6, 24.3, 25.6, 28.1, 33.1, 41.7, 53.3, 64.9, 72.3, 74.2, 71.4, 65.1, 56.6, 47.4, 39.7, 34.4, 31.1, 29.0, 27.3, 25.5, 23.5, 21.4, 19.1, 16.8, 14.6, 12.7, 11.3, 10.5, 10.4, 11.1, 12.6, 14.8, 17.5, 19.9, 21.7, 22.9},
	{16.6, 17.1, 18.0, 20.0, 24.3, 32.1, 43.9, 57.0, 66.9, 70.8, 68.6, 61.7, 51.7, 41.3, 32.9, 27.3, 24.0, 22.0, 20.5, 19.0, 17.4, 15.5, 13.6, 11.7, 9.9, 8.4, 7.3, 6.6, 6.5, 7.0, 8.1, 9.8, 11.8, 13.7, 15.2, 16.1},
	{11.1, 11.4, 12.0, 13.5, 16.9, 23.6, 34.6, 48.2, 59.7, 65.2, 63.6, 56.3, 45.4, 34.5, 26.0, 20.6, 17.6, 15.8, 14.6, 13.4, 12.1, 10.7, 9.2, 7.7, 6.4, 5.3, 4.4, 4.0, 3.9, 4.2, 4.9, 6.1, 7.5, 8.9, 10.0, 10.7},
	{7.0, 7.2, 7.5, 8.6, 11.2, 16.5, 26.1, 39.1, 51.3, 58.0, 57.0, 49.5, 38.4, 27.5, 19.6, 14.8, 12.2, 10.8, 9.8, 8.9, 8.0, 7.0, 5.9, 4.8, 3.9, 3.1, 2.6, 2.3, 2.2, 2.4, 2.8, 3.6, 4.5, 5.5, 6.3, 6.8},
}

// PointerGamutBoundary returns the boundary chroma at the given lightness
// and hue angle in degrees, bilinearly interpolated from the reference
// table. Lightness outside the tabulated range yields zero chroma, the
// volume is closed at both ends.
func PointerGamutBoundary(lightness, hue float64) float64 {
	lMin := PointerGamutLightness[0]
	lMax := PointerGamutLightness[len(PointerGamutLightness)-1]
	if lightness < lMin || lightness > lMax {
		return 0
	}

	li := (lightness - lMin) / 5.0
	l0 := int(li)
	if l0 >= len(PointerGamutLightness)-1 {
		l0 = len(PointerGamutLightness) - 2
	}
	lt := li - float64(l0)

	hue = math.Mod(hue, 360.0)
	if hue < 0 {
		hue += 360.0
	}
	hi := hue / 10.0
	h0 := int(hi) % 36
	h1 := (h0 + 1) % 36
	ht := hi - math.Floor(hi)

	c0 := pointerGamutChroma[l0][h0]*(1-ht) + pointerGamutChroma[l0][h1]*ht
	c1 := pointerGamutChroma[l0+1][h0]*(1-ht) + pointerGamutChroma[l0+1][h1]*ht
	return c0*(1-lt) + c1*lt
}

// WithinPointerGamut reports whether the given XYZ tristimulus values lie
// inside the Pointer's Gamut volume. Samples are evaluated in LCHab under
// illuminant C, the illuminant the volume is tabulated for.
func WithinPointerGamut(xyz [3]float64) bool {
	lab := XYZToLab(xyz, IlluminantC.XYZ())
	l := lab[0]
	c := math.Hypot(lab[1], lab[2])
	h := math.Atan2(lab[2], lab[1]) * 180.0 / math.Pi
	if h < 0 {
		h += 360.0
	}
	if l < PointerGamutLightness[0] || l > PointerGamutLightness[len(PointerGamutLightness)-1] {
		return false
	}
	return c <= PointerGamutBoundary(l, h)
}

// PointerGamutHullXYZ returns the boundary of the volume as XYZ tristimulus
// values, one closed loop of 36 samples per tabulated lightness level.
// Loops are concatenated in lightness order.
func PointerGamutHullXYZ() [][3]float64 {
	white := IlluminantC.XYZ()
	out := make([][3]float64, 0, len(PointerGamutLightness)*36)
	for i, l := range PointerGamutLightness {
		for j := 0; j < 36; j++ {
			h := float64(j) * 10.0 * math.Pi / 180.0
			c := pointerGamutChroma[i][j]
			lab := [3]float64{l, c * math.Cos(h), c * math.Sin(h)}
			out = append(out, LabToXYZ(lab, white))
		}
	}
	return out
}
