package model

import (
	"errors"
	"math"
	"testing"

	"github.com/colour-science/colour-analysis/colorimetry"
)

func TestModelsComplete(t *testing.T) {
	models := Models()
	if got, want := len(models), 17; got != want {
		t.Fatalf("Models() returned %d models, want %d", got, want)
	}
	seen := map[Model]bool{}
	for _, m := range models {
		if seen[m] {
			t.Errorf("model %q listed twice", m)
		}
		seen[m] = true
		if _, err := Labels(m); err != nil {
			t.Errorf("Labels(%q): %v", m, err)
		}
	}
	if models[0] != CIEXYZ {
		t.Errorf("first model = %q, want %q", models[0], CIEXYZ)
	}
}

func TestReorderBijection(t *testing.T) {
	for _, m := range Models() {
		perm, err := Reorder(m)
		if err != nil {
			t.Fatalf("Reorder(%q): %v", m, err)
		}
		seen := [3]bool{}
		for _, p := range perm {
			if p < 0 || p > 2 || seen[p] {
				t.Fatalf("Reorder(%q) = %v is not a permutation", m, perm)
			}
			seen[p] = true
		}
	}
}

func TestTransformXYZAxisOrder(t *testing.T) {
	out, err := Transform([]float64{0.1, 0.2, 0.3}, colorimetry.IlluminantD65, CIEXYZ, false)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := []float64{0.3, 0.2, 0.1}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestTransformLabWhite(t *testing.T) {
	white := colorimetry.IlluminantD65
	whiteXYZ := white.XYZ()
	out, err := Transform(whiteXYZ[:], white, CIELab, false)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	// Lightness sits on the vertical axis after the reorder.
	if math.Abs(out[1]-100) > 1e-9 {
		t.Errorf("white lightness = %v, want 100", out[1])
	}
	if math.Abs(out[0]) > 1e-9 || math.Abs(out[2]) > 1e-9 {
		t.Errorf("white chroma = (%v, %v), want (0, 0)", out[0], out[2])
	}
}

func TestTransformNormalisedWhite(t *testing.T) {
	for _, m := range []Model{JzAzBz, OSAUCS} {
		white := colorimetry.IlluminantD65
		whiteXYZ := white.XYZ()
		out, err := Transform(whiteXYZ[:], white, m, false)
		if err != nil {
			t.Fatalf("Transform(%q): %v", m, err)
		}
		if math.Abs(out[1]-1) > 1e-9 {
			t.Errorf("Transform(%q): normalised white lightness = %v, want 1", m, out[1])
		}
	}
}

func TestTransformSanitiseFinite(t *testing.T) {
	samples := []float64{
		0, 0, 0,
		1, 1, 1,
		0.5, 0.25, 0.75,
	}
	for _, m := range Models() {
		out, err := Transform(samples, colorimetry.IlluminantD65, m, true)
		if err != nil {
			t.Fatalf("Transform(%q): %v", m, err)
		}
		for i, v := range out {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("Transform(%q): out[%d] = %v after sanitisation", m, i, v)
			}
		}
	}
}

func TestTransformErrors(t *testing.T) {
	if _, err := Transform([]float64{1, 2, 3}, colorimetry.IlluminantD65, Model("Nope"), false); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown model: err = %v, want ErrNotFound", err)
	}
	if _, err := Transform([]float64{1, 2}, colorimetry.IlluminantD65, CIELab, false); err == nil {
		t.Error("ragged sample array: expected error")
	}
}

func TestReorderFaces(t *testing.T) {
	faces := []uint32{0, 1, 2, 2, 3, 0}

	got := ReorderFaces(faces, CIEXYZ)
	want := []uint32{0, 3, 2, 2, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ReorderFaces(CIE XYZ) = %v, want %v", got, want)
		}
	}

	for _, m := range Models() {
		if m == CIEXYZ {
			continue
		}
		if out := ReorderFaces(faces, m); &out[0] != &faces[0] {
			t.Errorf("ReorderFaces(%q) copied the untouched index buffer", m)
		}
	}
}
