package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/colour-science/colour-analysis/buffergeometry"
	"github.com/colour-science/colour-analysis/colourspace"
	"github.com/colour-science/colour-analysis/imagecache"
	"github.com/colour-science/colour-analysis/imageio"
	"github.com/colour-science/colour-analysis/model"
	"github.com/colour-science/colour-analysis/observability"
)

// recordingLogger collects the field keys of every debug event.
type recordingLogger struct {
	keys []string
}

func (l *recordingLogger) record(fields []observability.Field) {
	for _, f := range fields {
		l.keys = append(l.keys, f.Key())
	}
}

func (l *recordingLogger) Debug(_ string, fields ...observability.Field) { l.record(fields) }
func (l *recordingLogger) Info(_ string, fields ...observability.Field)  { l.record(fields) }
func (l *recordingLogger) Warn(_ string, fields ...observability.Field)  { l.record(fields) }
func (l *recordingLogger) Error(_ string, fields ...observability.Field) { l.record(fields) }
func (l *recordingLogger) With(...observability.Field) observability.Logger { return l }

func (l *recordingLogger) hasKey(key string) bool {
	for _, k := range l.keys {
		if k == key {
			return true
		}
	}
	return false
}

func testEngine(pix []float64, width, height int) *Engine {
	cache := imagecache.New(imagecache.WithReader(func(string) (*imageio.Image, error) {
		im := &imageio.Image{Width: width, Height: height, Channels: 3, Pix: pix}
		return im.Clone(), nil
	}))
	return New(WithCache(cache))
}

func attributeFloats(t *testing.T, buf *buffergeometry.Buffer, name string) []float64 {
	t.Helper()
	attr, ok := buf.Data.Attributes[name]
	if !ok {
		t.Fatalf("attribute %q missing", name)
	}
	values, ok := attr.Array.([]float64)
	if !ok {
		t.Fatalf("attribute %q is not a float array", name)
	}
	return values
}

func TestListings(t *testing.T) {
	e := New()
	if len(e.Decodings()) < 12 {
		t.Errorf("Decodings() returned %d entries", len(e.Decodings()))
	}
	if len(e.Colourspaces()) < 9 {
		t.Errorf("Colourspaces() returned %d entries", len(e.Colourspaces()))
	}
	if got := len(e.Models()); got != 17 {
		t.Errorf("Models() returned %d entries, want 17", got)
	}
	labels := e.ModelLabels()
	if got := len(labels); got != 17 {
		t.Errorf("ModelLabels() returned %d entries, want 17", got)
	}
	if labels["CIE Lab"] != [3]string{"a*", "L*", "b*"} {
		t.Errorf("CIE Lab labels = %v", labels["CIE Lab"])
	}
}

func TestVolumeVisual(t *testing.T) {
	e := New()
	buf, err := e.VolumeVisual(VolumeRequest{
		Colourspace: "sRGB",
		Model:       model.CIExyY,
		Segments:    2,
	})
	if err != nil {
		t.Fatalf("VolumeVisual: %v", err)
	}

	// A box of 2 segments per axis carries six 3x3 vertex grids.
	position := attributeFloats(t, buf, "position")
	if got, want := len(position), 54*3; got != want {
		t.Errorf("position length = %d, want %d", got, want)
	}
	colour := attributeFloats(t, buf, "color")
	if got, want := len(colour), 54*4; got != want {
		t.Errorf("colour length = %d, want %d", got, want)
	}
	index, ok := buf.Data.Attributes["index"].Array.([]uint32)
	if !ok {
		t.Fatal("index attribute is not a uint32 array")
	}
	if got, want := len(index), 48*3; got != want {
		t.Errorf("index length = %d, want %d", got, want)
	}
	for _, v := range position {
		if math.IsNaN(v) {
			t.Fatal("position contains NaN")
		}
	}
}

func TestVolumeVisualWireframe(t *testing.T) {
	e := New()
	buf, err := e.VolumeVisual(VolumeRequest{
		Colourspace: "sRGB",
		Model:       model.CIELab,
		Segments:    1,
		Wireframe:   true,
	})
	if err != nil {
		t.Fatalf("VolumeVisual: %v", err)
	}
	index := buf.Data.Attributes["index"].Array.([]uint32)
	// Six planes of one cell, four edges per cell, two indices per edge.
	if got, want := len(index), 6*4*2; got != want {
		t.Errorf("outline index length = %d, want %d", got, want)
	}
}

func TestVolumeVisualErrors(t *testing.T) {
	e := New()
	if _, err := e.VolumeVisual(VolumeRequest{Colourspace: "Nope"}); !errors.Is(err, colourspace.ErrNotFound) {
		t.Errorf("unknown colourspace: err = %v", err)
	}
	if _, err := e.VolumeVisual(VolumeRequest{Model: model.Model("Nope")}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown model: err = %v", err)
	}
}

func TestVolumeVisualDefaults(t *testing.T) {
	e := New()
	buf, err := e.VolumeVisual(VolumeRequest{})
	if err != nil {
		t.Fatalf("VolumeVisual with defaults: %v", err)
	}
	position := attributeFloats(t, buf, "position")
	want := 6 * (DefaultSegments + 1) * (DefaultSegments + 1) * 3
	if len(position) != want {
		t.Errorf("position length = %d, want %d", len(position), want)
	}
}

func TestSpectralLocusVisual(t *testing.T) {
	e := New()
	buf, err := e.SpectralLocusVisual("sRGB", model.CIExyY)
	if err != nil {
		t.Fatalf("SpectralLocusVisual: %v", err)
	}
	position := attributeFloats(t, buf, "position")
	colour := attributeFloats(t, buf, "color")
	// The locus is closed with a repeat of the first sample.
	if got, want := len(position), 42*3; got != want {
		t.Errorf("position length = %d, want %d", got, want)
	}
	if len(colour) != len(position) {
		t.Errorf("colour length = %d, want %d", len(colour), len(position))
	}
	for _, v := range colour {
		if v < 0 || v > 1 {
			t.Fatalf("colour component %v outside [0, 1]", v)
		}
	}
}

func TestVisibleSpectrumVisual(t *testing.T) {
	e := New()
	buf, err := e.VisibleSpectrumVisual("sRGB", model.CIELab)
	if err != nil {
		t.Fatalf("VisibleSpectrumVisual: %v", err)
	}
	position := attributeFloats(t, buf, "position")
	// The sweep stays open: one sample per tabulated wavelength.
	if got, want := len(position), 41*3; got != want {
		t.Errorf("position length = %d, want %d", got, want)
	}
}

func TestPointerGamutVisual(t *testing.T) {
	e := New()
	buf, err := e.PointerGamutVisual(model.CIELab)
	if err != nil {
		t.Fatalf("PointerGamutVisual: %v", err)
	}
	position := attributeFloats(t, buf, "position")
	if got, want := len(position), 16*36*3; got != want {
		t.Errorf("position length = %d, want %d", got, want)
	}
	index := buf.Data.Attributes["index"].Array.([]uint32)
	if got, want := len(index), 16*36*2; got != want {
		t.Errorf("index length = %d, want %d", got, want)
	}
	// Every loop closes on itself rather than bleeding into the next slice.
	for i := 0; i+1 < len(index); i += 2 {
		a, b := int(index[i]), int(index[i+1])
		if a/36 != b/36 {
			t.Fatalf("edge (%d, %d) crosses lightness slices", a, b)
		}
	}
}

func TestImageScatterVisual(t *testing.T) {
	pix := []float64{
		0.5, 0.5, 0.5,
		0.2, 0.4, 0.6,
		0.8, 0.1, 0.3,
		0.9, 0.9, 0.1,
	}
	e := testEngine(pix, 2, 2)

	buf, err := e.ImageScatterVisual(ScatterRequest{
		Path:        "test.exr",
		Model:       model.CIExyY,
		SubSampling: 1,
	})
	if err != nil {
		t.Fatalf("ImageScatterVisual: %v", err)
	}
	position := attributeFloats(t, buf, "position")
	colour := attributeFloats(t, buf, "color")
	if got, want := len(position), 4*3; got != want {
		t.Errorf("position length = %d, want %d", got, want)
	}
	if len(colour) != len(position) {
		t.Errorf("colour length = %d, want %d", len(colour), len(position))
	}
}

func TestImageScatterVisualSubSampling(t *testing.T) {
	pix := make([]float64, 100*3)
	for i := range pix {
		pix[i] = 0.5
	}
	e := testEngine(pix, 10, 10)

	buf, err := e.ImageScatterVisual(ScatterRequest{
		Path:        "test.exr",
		SubSampling: 25,
	})
	if err != nil {
		t.Fatalf("ImageScatterVisual: %v", err)
	}
	position := attributeFloats(t, buf, "position")
	if got, want := len(position), 4*3; got != want {
		t.Errorf("position length = %d, want %d with stride 25 over 100 pixels", got, want)
	}
}

func TestImageScatterVisualOutOfGamut(t *testing.T) {
	pix := []float64{
		0.5, 0.5, 0.5, // inside
		1.5, 0.5, 0.5, // outside
	}
	e := testEngine(pix, 2, 1)

	buf, err := e.ImageScatterVisual(ScatterRequest{
		Path:              "test.exr",
		SubSampling:       1,
		OutOfPrimaryGamut: true,
	})
	if err != nil {
		t.Fatalf("ImageScatterVisual: %v", err)
	}
	position := attributeFloats(t, buf, "position")
	if got, want := len(position), 1*3; got != want {
		t.Errorf("position length = %d, want %d after gamut filtering", got, want)
	}
	// The overlay collapses colours to white.
	colour := attributeFloats(t, buf, "color")
	for i, v := range colour {
		if v != 1 {
			t.Errorf("colour[%d] = %v, want 1", i, v)
		}
	}
}

func TestImageData(t *testing.T) {
	pix := []float64{
		0.5, 0.5, 0.5,
		1.5, 0.5, 0.5,
	}
	e := testEngine(pix, 2, 1)

	data, err := e.ImageData(ImageDataRequest{Path: "test.exr"})
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	if data.Width != 2 || data.Height != 1 {
		t.Fatalf("shape = %dx%d, want 2x1", data.Width, data.Height)
	}
	if data.Data[0] != 0.5 || data.Data[3] != 1.5 {
		t.Errorf("raw data = %v", data.Data)
	}
}

func TestImageDataGamutMask(t *testing.T) {
	pix := []float64{
		0.5, 0.5, 0.5,
		1.5, 0.5, 0.5,
	}
	e := testEngine(pix, 2, 1)

	data, err := e.ImageData(ImageDataRequest{
		Path:              "test.exr",
		OutOfPrimaryGamut: true,
	})
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	want := []float64{0, 0, 0, 1, 1, 1}
	for i := range want {
		if data.Data[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, data.Data[i], want[i])
		}
	}
}

func TestImageDataSaturate(t *testing.T) {
	pix := []float64{1.5, -0.5, 0.5}
	e := testEngine(pix, 1, 1)

	data, err := e.ImageData(ImageDataRequest{Path: "test.exr", Saturate: true})
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	want := []float64{1, 0, 0.5}
	for i := range want {
		if data.Data[i] != want[i] {
			t.Errorf("saturated[%d] = %v, want %v", i, data.Data[i], want[i])
		}
	}
}

func TestImageDataMarshalNaN(t *testing.T) {
	d := &ImageData{Width: 1, Height: 1, Data: []float64{math.NaN(), 0.123456, 1}}
	out, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"width":1,"height":1,"data":[null,0.123,1]}`
	if string(out) != want {
		t.Errorf("payload = %s, want %s", out, want)
	}
}

func TestImageDataMarshalPrecision(t *testing.T) {
	d := &ImageData{Width: 1, Height: 1, Data: []float64{0.123456}, digits: 1}
	out, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"width":1,"height":1,"data":[0.1]}`
	if string(out) != want {
		t.Errorf("payload = %s, want %s", out, want)
	}

	// The engine hands its narrow encoder precision through.
	pix := []float64{0.123456, 0.5, 0.5}
	cache := imagecache.New(imagecache.WithReader(func(string) (*imageio.Image, error) {
		im := &imageio.Image{Width: 1, Height: 1, Channels: 3, Pix: pix}
		return im.Clone(), nil
	}))
	e := New(
		WithCache(cache),
		WithEncoder(&buffergeometry.Encoder{NarrowDigits: 2, WideDigits: 6}),
	)
	data, err := e.ImageData(ImageDataRequest{Path: "test.exr"})
	if err != nil {
		t.Fatalf("ImageData: %v", err)
	}
	out, err = data.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want = `{"width":1,"height":1,"data":[0.12,0.5,0.5]}`
	if string(out) != want {
		t.Errorf("payload = %s, want %s", out, want)
	}
}

func TestOperationsEmitMetrics(t *testing.T) {
	pix := []float64{
		0.5, 0.5, 0.5,
		1.5, 0.5, 0.5,
	}
	log := &recordingLogger{}
	cache := imagecache.New(imagecache.WithReader(func(string) (*imageio.Image, error) {
		im := &imageio.Image{Width: 2, Height: 1, Channels: 3, Pix: pix}
		return im.Clone(), nil
	}))
	e := New(WithCache(cache), WithLogger(log))

	if _, err := e.VolumeVisual(VolumeRequest{Segments: 1}); err != nil {
		t.Fatalf("VolumeVisual: %v", err)
	}
	if _, err := e.ImageScatterVisual(ScatterRequest{
		Path:              "test.exr",
		SubSampling:       1,
		OutOfPrimaryGamut: true,
	}); err != nil {
		t.Fatalf("ImageScatterVisual: %v", err)
	}

	for _, key := range []string{
		observability.MetricTransformTime,
		observability.MetricEncodeTime,
		observability.MetricClassifyTime,
		observability.MetricVertexCount,
	} {
		if !log.hasKey(key) {
			t.Errorf("no event carries the %q field", key)
		}
	}
}

func TestResolveSpacesSelector(t *testing.T) {
	e := New()
	if _, err := e.resolveSpaces("sRGB", "DCI-P3", Selector("Tertiary")); err == nil {
		t.Error("unknown selector: expected error")
	}
	spaces, err := e.resolveSpaces("", "", SelectSecondary)
	if err != nil {
		t.Fatalf("resolveSpaces: %v", err)
	}
	if spaces.image != spaces.secondary {
		t.Error("secondary selector did not pick the secondary colourspace")
	}
	if spaces.primary.Name != PrimaryColourspace || spaces.secondary.Name != SecondaryColourspace {
		t.Errorf("defaults = %q, %q", spaces.primary.Name, spaces.secondary.Name)
	}
}
