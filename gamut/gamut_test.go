package gamut

import (
	"testing"

	"github.com/colour-science/colour-analysis/colourspace"
)

func mustLookup(t *testing.T, name string) *colourspace.Colourspace {
	t.Helper()
	cs, err := colourspace.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	return cs
}

func TestOutOfRGBGamutSameSpace(t *testing.T) {
	srgb := mustLookup(t, "sRGB")
	samples := []float64{
		0.2, 0.4, 0.6, // inside
		1.1, 0.5, 0.5, // above
		-0.1, 0.5, 0.5, // below
		0, 0, 0, // boundary
		1, 1, 1, // boundary
	}
	mask := OutOfRGBGamut(samples, srgb, srgb)
	want := []bool{false, true, true, false, false}
	if len(mask) != len(want) {
		t.Fatalf("mask length = %d, want %d", len(mask), len(want))
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestOutOfRGBGamutAcrossSpaces(t *testing.T) {
	srgb := mustLookup(t, "sRGB")
	bt2020 := mustLookup(t, "ITU-R BT.2020")

	// A saturated BT.2020 primary falls outside the smaller sRGB gamut.
	mask := OutOfRGBGamut([]float64{1, 0, 0}, bt2020, srgb)
	if !mask[0] {
		t.Error("BT.2020 red classified inside the sRGB gamut")
	}

	// Mid grey survives any round trip between the two.
	mask = OutOfRGBGamut([]float64{0.5, 0.5, 0.5}, srgb, bt2020)
	if mask[0] {
		t.Error("sRGB mid grey classified outside the BT.2020 gamut")
	}

	// The inputs are never modified.
	samples := []float64{1, 0, 0}
	OutOfRGBGamut(samples, bt2020, srgb)
	if samples[0] != 1 || samples[1] != 0 || samples[2] != 0 {
		t.Errorf("classifier mutated its input: %v", samples)
	}
}

func TestOutOfRGBGamutBoundaryNoise(t *testing.T) {
	srgb := mustLookup(t, "sRGB")
	p3 := mustLookup(t, "DCI-P3")

	// The adapted round trip between the D65 and DCI white points leaves
	// boundary samples a few ULPs off 0 and 1; they still classify inside.
	boundary := []float64{
		1, 1, 1,
		0, 0, 0,
		1, 0, 0,
		0, 1, 1,
	}
	for i, out := range OutOfRGBGamut(boundary, srgb, p3) {
		if out {
			t.Errorf("sRGB boundary sample %d classified outside the DCI-P3 gamut", i)
		}
	}
}

func TestOutOfPointerGamut(t *testing.T) {
	srgb := mustLookup(t, "sRGB")
	samples := []float64{
		0.5, 0.5, 0.5, // achromatic, mid lightness
		0, 0, 0, // below the tabulated lightness floor
		1, 1, 1, // above the tabulated lightness ceiling
	}
	mask := OutOfPointerGamut(samples, srgb)
	want := []bool{false, true, true}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestOutOfPointerGamutXYZ(t *testing.T) {
	srgb := mustLookup(t, "sRGB")
	grey := srgb.RGBToXYZ([3]float64{0.5, 0.5, 0.5})
	mask := OutOfPointerGamutXYZ([]float64{grey[0], grey[1], grey[2], 0, 0, 0})
	if mask[0] {
		t.Error("mid grey XYZ classified outside Pointer's Gamut")
	}
	if !mask[1] {
		t.Error("black XYZ classified inside Pointer's Gamut")
	}
}
