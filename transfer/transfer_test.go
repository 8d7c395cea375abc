package transfer

import (
	"errors"
	"math"
	"testing"
)

func TestSRGB(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{0.04045, 0.04045 / 12.92},
		{1, 1},
	}
	for _, c := range cases {
		if got := SRGB(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("SRGB(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	// The two segments meet at the threshold.
	below := SRGB(0.04045)
	above := SRGB(0.04045 + 1e-9)
	if math.Abs(below-above) > 1e-6 {
		t.Errorf("sRGB segments disagree at the threshold: %v vs %v", below, above)
	}
}

func TestGammaSignPreserving(t *testing.T) {
	fn, err := Lookup("Gamma 2.2")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := fn(-0.5); got >= 0 {
		t.Errorf("Gamma 2.2(-0.5) = %v, want negative", got)
	}
	if got := fn(1); math.Abs(got-1) > 1e-12 {
		t.Errorf("Gamma 2.2(1) = %v, want 1", got)
	}
}

func TestDecodingsUnity(t *testing.T) {
	// Every gamma and standard decoding maps reference white to roughly
	// linear reference white.
	for _, name := range []string{
		"Gamma 2.2", "Gamma 2.4", "Gamma 2.6",
		"sRGB", "ITU-R BT.709", "ITU-R BT.2020",
	} {
		fn, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if got := fn(1); math.Abs(got-1) > 1e-6 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("Gamma 3.0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNamesOrdering(t *testing.T) {
	names := Names()
	if len(names) < 12 {
		t.Fatalf("Names() returned %d entries, want at least 12", len(names))
	}
	want := []string{"Gamma 2.2", "Gamma 2.4", "Gamma 2.6"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
	index := map[string]int{}
	for i, name := range names {
		index[name] = i
	}
	if index["sRGB"] < index["Gamma 2.6"] {
		t.Error("standard decodings listed before the gammas")
	}
	if index["ACEScc"] < index["sRGB"] {
		t.Error("log decodings listed before the standard decodings")
	}
}

func TestRegister(t *testing.T) {
	if err := Register("sRGB", SRGB); err == nil {
		t.Error("shadowing a built-in: expected error")
	}
	if err := Register("nil test", nil); err == nil {
		t.Error("nil function: expected error")
	}

	name := "Linear Test"
	if err := Register(name, func(v float64) float64 { return v }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	fn, err := Lookup(name)
	if err != nil {
		t.Fatalf("Lookup after Register: %v", err)
	}
	if got := fn(0.25); got != 0.25 {
		t.Errorf("custom function(0.25) = %v, want 0.25", got)
	}
	names := Names()
	if names[len(names)-1] != name {
		t.Errorf("custom function not listed last: %v", names)
	}
}

func TestApply(t *testing.T) {
	src := []float64{0, 0.5, 1}
	out := Apply(func(v float64) float64 { return v * 2 }, src)
	if out[0] != 0 || out[1] != 1 || out[2] != 2 {
		t.Errorf("Apply = %v, want [0 1 2]", out)
	}
	if src[1] != 0.5 {
		t.Error("Apply mutated its input")
	}
}
