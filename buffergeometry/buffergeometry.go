// Package buffergeometry serialises named attribute arrays into the typed
// buffer geometry JSON schema consumed by the rendering client. The schema
// mirrors the three.js BufferGeometryLoader contract and must stay stable
// across callers.
package buffergeometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Schema constants of the wire envelope.
const (
	SchemaVersion = 4
	SchemaType    = "BufferGeometry"
	Generator     = "colour-three"
)

// ElementType tags the client side typed array holding an attribute.
type ElementType string

const (
	Float32Array ElementType = "Float32Array"
	Uint16Array  ElementType = "Uint16Array"
	Uint32Array  ElementType = "Uint32Array"
)

// Attribute is one named input array. Exactly one backing slice must be
// set; the last-axis length is the item size. Narrow floating attributes
// (colours) are rounded to the narrow precision to reduce payload size,
// everything else floating uses the wide precision.
type Attribute struct {
	ItemSize int

	Floats   []float64 // collapses to Float32Array
	Float32s []float32 // collapses to Float32Array
	Uint16s  []uint16  // maps to Uint16Array
	Uint32s  []uint32  // maps to Uint32Array
	Uint64s  []uint64  // downcast to Uint32Array

	Narrow bool
}

// Floats64 builds a wide floating attribute.
func Floats64(values []float64, itemSize int) Attribute {
	return Attribute{ItemSize: itemSize, Floats: values}
}

// NarrowFloats64 builds a narrow floating attribute.
func NarrowFloats64(values []float64, itemSize int) Attribute {
	return Attribute{ItemSize: itemSize, Floats: values, Narrow: true}
}

// Indices builds an index attribute with unit item size.
func Indices(values []uint32) Attribute {
	return Attribute{ItemSize: 1, Uint32s: values}
}

// TypedArray is one serialised attribute.
type TypedArray struct {
	ItemSize int         `json:"itemSize"`
	Type     ElementType `json:"type"`
	Array    any         `json:"array"`
}

// Buffer is the serialised geometry envelope.
type Buffer struct {
	Metadata Metadata `json:"metadata"`
	Data     Data     `json:"data"`
}

// Metadata identifies the schema to the loader.
type Metadata struct {
	Version   int    `json:"version"`
	Type      string `json:"type"`
	Generator string `json:"generator"`
}

// Data carries the attribute map.
type Data struct {
	Attributes map[string]TypedArray `json:"attributes"`
}

// Encoder serialises attribute maps with configurable floating precision,
// expressed in decimal digits. The narrow default matches a 16 bit float's
// precision, the wide default a 32 bit float's.
type Encoder struct {
	NarrowDigits int
	WideDigits   int
}

// NewEncoder returns an encoder with the default precisions.
func NewEncoder() *Encoder {
	return &Encoder{NarrowDigits: 3, WideDigits: 6}
}

// Encode serialises the named attribute arrays. Floating values are rounded
// to the precision of their attribute class and NaN is replaced with zero;
// 64 bit integers are downcast.
func (e *Encoder) Encode(attributes map[string]Attribute) (*Buffer, error) {
	buf := &Buffer{
		Metadata: Metadata{Version: SchemaVersion, Type: SchemaType, Generator: Generator},
		Data:     Data{Attributes: make(map[string]TypedArray, len(attributes))},
	}

	for name, attr := range attributes {
		ta, err := e.encodeAttribute(attr)
		if err != nil {
			return nil, fmt.Errorf("buffergeometry: attribute %q: %w", name, err)
		}
		buf.Data.Attributes[name] = ta
	}
	return buf, nil
}

// EncodeJSON is Encode followed by JSON marshalling.
func (e *Encoder) EncodeJSON(attributes map[string]Attribute) ([]byte, error) {
	buf, err := e.Encode(attributes)
	if err != nil {
		return nil, err
	}
	return json.Marshal(buf)
}

func (e *Encoder) encodeAttribute(attr Attribute) (TypedArray, error) {
	if attr.ItemSize < 1 {
		return TypedArray{}, fmt.Errorf("item size %d out of range", attr.ItemSize)
	}

	set := 0
	length := 0
	for _, backing := range []struct {
		present bool
		n       int
	}{
		{attr.Floats != nil, len(attr.Floats)},
		{attr.Float32s != nil, len(attr.Float32s)},
		{attr.Uint16s != nil, len(attr.Uint16s)},
		{attr.Uint32s != nil, len(attr.Uint32s)},
		{attr.Uint64s != nil, len(attr.Uint64s)},
	} {
		if backing.present {
			set++
			length = backing.n
		}
	}
	if set != 1 {
		return TypedArray{}, fmt.Errorf("exactly one backing array required, got %d", set)
	}
	if length%attr.ItemSize != 0 {
		return TypedArray{}, fmt.Errorf("length %d not divisible by item size %d", length, attr.ItemSize)
	}

	digits := e.WideDigits
	if attr.Narrow {
		digits = e.NarrowDigits
	}

	switch {
	case attr.Floats != nil:
		return TypedArray{attr.ItemSize, Float32Array, roundFloats(attr.Floats, digits)}, nil
	case attr.Float32s != nil:
		widened := make([]float64, len(attr.Float32s))
		for i, v := range attr.Float32s {
			widened[i] = float64(v)
		}
		return TypedArray{attr.ItemSize, Float32Array, roundFloats(widened, digits)}, nil
	case attr.Uint16s != nil:
		return TypedArray{attr.ItemSize, Uint16Array, attr.Uint16s}, nil
	case attr.Uint32s != nil:
		return TypedArray{attr.ItemSize, Uint32Array, attr.Uint32s}, nil
	default:
		downcast := make([]uint32, len(attr.Uint64s))
		for i, v := range attr.Uint64s {
			downcast[i] = uint32(v)
		}
		return TypedArray{attr.ItemSize, Uint32Array, downcast}, nil
	}
}

// roundFloats rounds to the given decimal precision, replacing NaN with
// zero so that the payload is always valid JSON.
func roundFloats(values []float64, digits int) []float64 {
	scale := math.Pow(10, float64(digits))
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out[i] = math.Round(v*scale) / scale
	}
	return out
}
