package colorimetry

// CMFSample is one wavelength of a set of colour matching functions.
type CMFSample struct {
	Wavelength float64 // nm
	XYZ        [3]float64
}

// CIE1931Observer is the CIE 1931 2 degree standard observer at 10 nm
// intervals over the visible range. The locus visuals walk this table
// directly, no interpolation is performed.
var CIE1931Observer = []CMFSample{
	{380, [3]float64{0.001368, 0.000039, 0.006450}},
	{390, [3]float64{0.004243, 0.000120, 0.020050}},
	{400, [3]float64{0.014310, 0.000396, 0.067850}},
	{410, [3]float64{0.043510, 0.001210, 0.207400}},
	{420, [3]float64{0.134380, 0.004000, 0.645600}},
	{430, [3]float64{0.283900, 0.011600, 1.385600}},
	{440, [3]float64{0.348280, 0.023000, 1.747060}},
	{450, [3]float64{0.336200, 0.038000, 1.772110}},
	{460, [3]float64{0.290800, 0.060000, 1.669200}},
	{470, [3]float64{0.195360, 0.090980, 1.287640}},
	{480, [3]float64{0.095640, 0.139020, 0.812950}},
	{490, [3]float64{0.032010, 0.208020, 0.465180}},
	{500, [3]float64{0.004900, 0.323000, 0.272000}},
	{510, [3]float64{0.009300, 0.503000, 0.158200}},
	{520, [3]float64{0.063270, 0.710000, 0.078250}},
	{530, [3]float64{0.165500, 0.862000, 0.042160}},
	{540, [3]float64{0.290400, 0.954000, 0.020300}},
	{550, [3]float64{0.433450, 0.994950, 0.008750}},
	{560, [3]float64{0.594500, 0.995000, 0.003900}},
	{570, [3]float64{0.762100, 0.952000, 0.002100}},
	{580, [3]float64{0.916300, 0.870000, 0.001650}},
	{590, [3]float64{1.026300, 0.757000, 0.001100}},
	{600, [3]float64{1.062200, 0.631000, 0.000800}},
	{610, [3]float64{1.002600, 0.503000, 0.000340}},
	{620, [3]float64{0.854450, 0.381000, 0.000190}},
	{630, [3]float64{0.642400, 0.265000, 0.000050}},
	{640, [3]float64{0.447900, 0.175000, 0.000020}},
	{650, [3]float64{0.283500, 0.107000, 0.000000}},
	{660, [3]float64{0.164900, 0.061000, 0.000000}},
	{670, [3]float64{0.087400, 0.032000, 0.000000}},
	{680, [3]float64{0.046770, 0.017000, 0.000000}},
	{690, [3]float64{0.022700, 0.008210, 0.000000}},
	{700, [3]float64{0.011359, 0.004102, 0.000000}},
	{710, [3]float64{0.005790, 0.002091, 0.000000}},
	{720, [3]float64{0.002899, 0.001047, 0.000000}},
	{730, [3]float64{0.001440, 0.000520, 0.000000}},
	{740, [3]float64{0.000690, 0.000249, 0.000000}},
	{750, [3]float64{0.000332, 0.000120, 0.000000}},
	{760, [3]float64{0.000166, 0.000060, 0.000000}},
	{770, [3]float64{0.000083, 0.000030, 0.000000}},
	{780, [3]float64{0.000042, 0.000015, 0.000000}},
}

// SpectralLocusXYZ returns the XYZ tristimulus values of the spectral locus
// between the given wavelength bounds, inclusive. Zero bounds select the
// whole observer range.
func SpectralLocusXYZ(min, max float64) [][3]float64 {
	if min == 0 && max == 0 {
		min, max = CIE1931Observer[0].Wavelength, CIE1931Observer[len(CIE1931Observer)-1].Wavelength
	}
	var out [][3]float64
	for _, s := range CIE1931Observer {
		if s.Wavelength < min || s.Wavelength > max {
			continue
		}
		out = append(out, s.XYZ)
	}
	return out
}
