package buffergeometry

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestEncodeEnvelope(t *testing.T) {
	enc := NewEncoder()
	buf, err := enc.Encode(map[string]Attribute{
		"position": Floats64([]float64{1, 2, 3}, 3),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Metadata.Version != 4 {
		t.Errorf("metadata version = %d, want 4", buf.Metadata.Version)
	}
	if buf.Metadata.Type != "BufferGeometry" {
		t.Errorf("metadata type = %q, want BufferGeometry", buf.Metadata.Type)
	}
	if buf.Metadata.Generator != Generator {
		t.Errorf("metadata generator = %q, want %q", buf.Metadata.Generator, Generator)
	}
	ta, ok := buf.Data.Attributes["position"]
	if !ok {
		t.Fatal("position attribute missing")
	}
	if ta.ItemSize != 3 || ta.Type != Float32Array {
		t.Errorf("position = {%d %s}, want {3 Float32Array}", ta.ItemSize, ta.Type)
	}
}

func TestElementTypes(t *testing.T) {
	enc := NewEncoder()
	buf, err := enc.Encode(map[string]Attribute{
		"f64": Floats64([]float64{1}, 1),
		"f32": {ItemSize: 1, Float32s: []float32{1}},
		"u16": {ItemSize: 1, Uint16s: []uint16{1}},
		"u32": Indices([]uint32{1}),
		"u64": {ItemSize: 1, Uint64s: []uint64{1}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := map[string]ElementType{
		"f64": Float32Array,
		"f32": Float32Array,
		"u16": Uint16Array,
		"u32": Uint32Array,
		"u64": Uint32Array,
	}
	for name, typ := range want {
		if got := buf.Data.Attributes[name].Type; got != typ {
			t.Errorf("%s element type = %s, want %s", name, got, typ)
		}
	}
}

func TestEncodeRounding(t *testing.T) {
	enc := NewEncoder()
	buf, err := enc.Encode(map[string]Attribute{
		"position": Floats64([]float64{0.123456789}, 1),
		"color":    NarrowFloats64([]float64{0.123456789}, 1),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	pos := buf.Data.Attributes["position"].Array.([]float64)
	if pos[0] != 0.123457 {
		t.Errorf("wide rounding = %v, want 0.123457", pos[0])
	}
	col := buf.Data.Attributes["color"].Array.([]float64)
	if col[0] != 0.123 {
		t.Errorf("narrow rounding = %v, want 0.123", col[0])
	}
}

func TestEncodeNaN(t *testing.T) {
	enc := NewEncoder()
	buf, err := enc.Encode(map[string]Attribute{
		"position": Floats64([]float64{math.NaN(), 1}, 1),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	values := buf.Data.Attributes["position"].Array.([]float64)
	if values[0] != 0 {
		t.Errorf("NaN encoded as %v, want 0", values[0])
	}

	out, err := enc.EncodeJSON(map[string]Attribute{
		"position": Floats64([]float64{math.NaN()}, 1),
	})
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if strings.Contains(string(out), "NaN") {
		t.Errorf("payload contains NaN: %s", out)
	}
	if !json.Valid(out) {
		t.Errorf("payload is not valid JSON: %s", out)
	}
}

func TestEncodeEmptyAttribute(t *testing.T) {
	enc := NewEncoder()
	buf, err := enc.Encode(map[string]Attribute{
		"position": Floats64([]float64{}, 3),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := buf.Data.Attributes["position"].Array.([]float64); len(got) != 0 {
		t.Errorf("empty attribute encoded %d values", len(got))
	}
}

func TestEncodeValidation(t *testing.T) {
	enc := NewEncoder()
	cases := []struct {
		name string
		attr Attribute
	}{
		{"zero item size", Attribute{ItemSize: 0, Floats: []float64{1}}},
		{"no backing array", Attribute{ItemSize: 3}},
		{"two backing arrays", Attribute{ItemSize: 1, Floats: []float64{1}, Uint32s: []uint32{1}}},
		{"ragged length", Floats64([]float64{1, 2, 3, 4}, 3)},
	}
	for _, c := range cases {
		if _, err := enc.Encode(map[string]Attribute{"a": c.attr}); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestEncodeJSONShape(t *testing.T) {
	enc := NewEncoder()
	out, err := enc.EncodeJSON(map[string]Attribute{
		"index": Indices([]uint32{0, 1, 2}),
	})
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	var decoded struct {
		Metadata struct {
			Version int    `json:"version"`
			Type    string `json:"type"`
		} `json:"metadata"`
		Data struct {
			Attributes map[string]struct {
				ItemSize int      `json:"itemSize"`
				Type     string   `json:"type"`
				Array    []uint32 `json:"array"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	idx := decoded.Data.Attributes["index"]
	if idx.ItemSize != 1 || idx.Type != "Uint32Array" || len(idx.Array) != 3 {
		t.Errorf("index attribute = %+v", idx)
	}
}

func TestEncoderPrecisionOverride(t *testing.T) {
	enc := &Encoder{NarrowDigits: 1, WideDigits: 2}
	buf, err := enc.Encode(map[string]Attribute{
		"position": Floats64([]float64{0.987654}, 1),
		"color":    NarrowFloats64([]float64{0.987654}, 1),
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := buf.Data.Attributes["position"].Array.([]float64)[0]; got != 0.99 {
		t.Errorf("wide = %v, want 0.99", got)
	}
	if got := buf.Data.Attributes["color"].Array.([]float64)[0]; got != 1.0 {
		t.Errorf("narrow = %v, want 1.0", got)
	}
}
