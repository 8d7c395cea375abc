// Package colourspace provides the RGB colourspace registry: immutable
// descriptors carrying primaries, white point and the derived RGB to XYZ
// matrices, plus conversions between registered spaces.
package colourspace

import (
	"errors"
	"fmt"
	"sort"

	"github.com/colour-science/colour-analysis/colorimetry"
)

// ErrNotFound is returned when a colourspace name is not registered.
// Lookup is case sensitive and exact, there is no default substitution.
var ErrNotFound = errors.New("colourspace not found")

// Colourspace is an immutable RGB colourspace descriptor.
type Colourspace struct {
	Name       string
	Primaries  [3]colorimetry.Chromaticity
	WhitePoint colorimetry.Chromaticity

	// Derived at registration.
	RGBToXYZMatrix colorimetry.Matrix
	XYZToRGBMatrix colorimetry.Matrix
}

var registry = map[string]*Colourspace{}

func register(name string, primaries [3]colorimetry.Chromaticity, white colorimetry.Chromaticity) {
	forward, err := colorimetry.NormalisedPrimaryMatrix(primaries, white)
	if err != nil {
		panic(fmt.Sprintf("colourspace: %s: %v", name, err))
	}
	inverse, err := forward.Inverse()
	if err != nil {
		panic(fmt.Sprintf("colourspace: %s: %v", name, err))
	}
	registry[name] = &Colourspace{
		Name:           name,
		Primaries:      primaries,
		WhitePoint:     white,
		RGBToXYZMatrix: forward,
		XYZToRGBMatrix: inverse,
	}
}

func init() {
	d65 := colorimetry.IlluminantD65
	register("sRGB", [3]colorimetry.Chromaticity{
		{X: 0.640, Y: 0.330}, {X: 0.300, Y: 0.600}, {X: 0.150, Y: 0.060},
	}, d65)
	register("ITU-R BT.709", [3]colorimetry.Chromaticity{
		{X: 0.640, Y: 0.330}, {X: 0.300, Y: 0.600}, {X: 0.150, Y: 0.060},
	}, d65)
	register("ITU-R BT.2020", [3]colorimetry.Chromaticity{
		{X: 0.708, Y: 0.292}, {X: 0.170, Y: 0.797}, {X: 0.131, Y: 0.046},
	}, d65)
	register("DCI-P3", [3]colorimetry.Chromaticity{
		{X: 0.680, Y: 0.320}, {X: 0.265, Y: 0.690}, {X: 0.150, Y: 0.060},
	}, colorimetry.IlluminantDCI)
	register("Display P3", [3]colorimetry.Chromaticity{
		{X: 0.680, Y: 0.320}, {X: 0.265, Y: 0.690}, {X: 0.150, Y: 0.060},
	}, d65)
	register("Adobe RGB (1998)", [3]colorimetry.Chromaticity{
		{X: 0.640, Y: 0.330}, {X: 0.210, Y: 0.710}, {X: 0.150, Y: 0.060},
	}, d65)
	register("ProPhoto RGB", [3]colorimetry.Chromaticity{
		{X: 0.7347, Y: 0.2653}, {X: 0.1596, Y: 0.8404}, {X: 0.0366, Y: 0.0001},
	}, colorimetry.IlluminantD50)
	register("ACES2065-1", [3]colorimetry.Chromaticity{
		{X: 0.7347, Y: 0.2653}, {X: 0.0000, Y: 1.0000}, {X: 0.0001, Y: -0.0770},
	}, colorimetry.IlluminantACES)
	register("ACEScg", [3]colorimetry.Chromaticity{
		{X: 0.713, Y: 0.293}, {X: 0.165, Y: 0.830}, {X: 0.128, Y: 0.044},
	}, colorimetry.IlluminantACES)
}

// Lookup returns the colourspace registered under the exact given name.
func Lookup(name string) (*Colourspace, error) {
	cs, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return cs, nil
}

// Names returns the registered colourspace names in lexicographic order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RGBToXYZ converts an RGB triple of the colourspace to XYZ tristimulus
// values relative to the colourspace white point.
func (c *Colourspace) RGBToXYZ(rgb [3]float64) [3]float64 {
	return c.RGBToXYZMatrix.MulV(rgb)
}

// XYZToRGB converts XYZ tristimulus values relative to the colourspace
// white point to an RGB triple.
func (c *Colourspace) XYZToRGB(xyz [3]float64) [3]float64 {
	return c.XYZToRGBMatrix.MulV(xyz)
}

// Convert maps an RGB triple from the source to the target colourspace via
// the XYZ round trip, chromatically adapting between white points with the
// Bradford transform when they differ.
func Convert(rgb [3]float64, source, target *Colourspace) [3]float64 {
	if source == target {
		return rgb
	}
	xyz := source.RGBToXYZ(rgb)
	if source.WhitePoint != target.WhitePoint {
		xyz = colorimetry.AdaptationMatrix(source.WhitePoint, target.WhitePoint).MulV(xyz)
	}
	return target.XYZToRGB(xyz)
}
