package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/colour-science/colour-analysis/buffergeometry"
	"github.com/colour-science/colour-analysis/colourspace"
	"github.com/colour-science/colour-analysis/gamut"
	"github.com/colour-science/colour-analysis/model"
	"github.com/colour-science/colour-analysis/observability"
)

// Selector names which of the two analysis colourspaces an image is
// expressed in.
type Selector string

const (
	SelectPrimary   Selector = "Primary"
	SelectSecondary Selector = "Secondary"
)

// ScatterRequest parametrises an image scatter visual.
type ScatterRequest struct {
	Path                 string
	PrimaryColourspace   string
	SecondaryColourspace string
	ImageColourspace     Selector
	Decoding             string
	Model                model.Model
	OutOfPrimaryGamut    bool
	OutOfSecondaryGamut  bool
	OutOfPointerGamut    bool
	SubSampling          int
	Saturate             bool
}

type imageSpaces struct {
	primary, secondary, image *colourspace.Colourspace
}

func (e *Engine) resolveSpaces(primary, secondary string, selector Selector) (imageSpaces, error) {
	var s imageSpaces
	var err error
	if s.primary, err = lookupColourspace(primary, PrimaryColourspace); err != nil {
		return s, err
	}
	if s.secondary, err = lookupColourspace(secondary, SecondaryColourspace); err != nil {
		return s, err
	}
	switch selector {
	case SelectSecondary:
		s.image = s.secondary
	case SelectPrimary, "":
		s.image = s.primary
	default:
		return s, fmt.Errorf("unknown image colourspace selector %q", selector)
	}
	return s, nil
}

// loadSamples loads, optionally saturates and sub-samples an image into a
// flat RGB sample array.
func (e *Engine) loadSamples(path, decoding string, saturate bool, subSampling int) ([]float64, error) {
	if decoding == "" {
		decoding = DefaultDecoding
	}
	im, err := e.cache.Load(path, decoding)
	if err != nil {
		return nil, err
	}
	if saturate {
		clip01(im.Pix)
	}
	if subSampling < 1 {
		subSampling = 1
	}
	pixels := len(im.Pix) / 3
	samples := make([]float64, 0, (pixels/subSampling+1)*3)
	for p := 0; p < pixels; p += subSampling {
		samples = append(samples, im.Pix[p*3], im.Pix[p*3+1], im.Pix[p*3+2])
	}
	return samples, nil
}

// ImageScatterVisual returns a point cloud of the image's pixels in model
// space. The gamut flags successively restrict the cloud to the samples
// outside the primary, secondary or Pointer's gamut; when any flag is set
// the point colours collapse to white so that the out of gamut set reads as
// an overlay.
func (e *Engine) ImageScatterVisual(req ScatterRequest) (*buffergeometry.Buffer, error) {
	spaces, err := e.resolveSpaces(req.PrimaryColourspace, req.SecondaryColourspace, req.ImageColourspace)
	if err != nil {
		return nil, err
	}
	m, err := lookupModel(req.Model)
	if err != nil {
		return nil, err
	}

	subSampling := req.SubSampling
	if subSampling < 1 {
		subSampling = DefaultSubSampling
	}
	samples, err := e.loadSamples(req.Path, req.Decoding, req.Saturate, subSampling)
	if err != nil {
		return nil, err
	}

	anyGamut := req.OutOfPrimaryGamut || req.OutOfSecondaryGamut || req.OutOfPointerGamut
	if anyGamut {
		start := time.Now()
		if req.OutOfPrimaryGamut {
			samples = filterSamples(samples, gamut.OutOfRGBGamut(samples, spaces.image, spaces.primary))
		}
		if req.OutOfSecondaryGamut {
			samples = filterSamples(samples, gamut.OutOfRGBGamut(samples, spaces.image, spaces.secondary))
		}
		if req.OutOfPointerGamut {
			samples = filterSamples(samples, gamut.OutOfPointerGamut(samples, spaces.image))
		}
		e.log.Debug("gamut classification",
			observability.Float64(observability.MetricClassifyTime, time.Since(start).Seconds()))
	}

	vertices, err := e.transform(rgbToXYZ(samples, spaces.image), spaces.image, m, true)
	if err != nil {
		return nil, err
	}

	colours := samples
	if req.OutOfPrimaryGamut || req.OutOfSecondaryGamut || req.OutOfPointerGamut {
		colours = onesLike(len(samples))
	}

	e.log.Debug("image scatter visual",
		observability.String("path", req.Path),
		observability.Int("points", len(samples)/3))

	return e.encode(map[string]buffergeometry.Attribute{
		"position": buffergeometry.Floats64(vertices, 3),
		"color":    buffergeometry.NarrowFloats64(colours, 3),
	}, "image scatter visual")
}

// ImageDataRequest parametrises a raw image data response.
type ImageDataRequest struct {
	Path                 string
	PrimaryColourspace   string
	SecondaryColourspace string
	ImageColourspace     Selector
	Decoding             string
	OutOfPrimaryGamut    bool
	OutOfSecondaryGamut  bool
	OutOfPointerGamut    bool
	Saturate             bool
}

// ImageData is a raw image analysis result: either the decoded pixels or,
// when a gamut flag is set, a per pixel membership mask where 1 marks an
// out of gamut pixel. NaN values are preserved here and only replaced at
// the JSON boundary.
type ImageData struct {
	Width  int
	Height int
	Data   []float64

	// digits is the serialisation precision, taken from the engine's
	// narrow encoder setting.
	digits int
}

// maskOutOfGamut replaces the buffer with a per pixel indicator: all three
// channels become 1 for pixels outside the target gamut, 0 otherwise.
func maskOutOfGamut(pix []float64, source, target *colourspace.Colourspace) {
	mask := gamut.OutOfRGBGamut(pix, source, target)
	for i, out := range mask {
		v := 0.0
		if out {
			v = 1.0
		}
		pix[i*3], pix[i*3+1], pix[i*3+2] = v, v, v
	}
}

// ImageData returns the decoded image, or its gamut membership masks when
// any of the out of gamut flags is set.
func (e *Engine) ImageData(req ImageDataRequest) (*ImageData, error) {
	spaces, err := e.resolveSpaces(req.PrimaryColourspace, req.SecondaryColourspace, req.ImageColourspace)
	if err != nil {
		return nil, err
	}

	decoding := req.Decoding
	if decoding == "" {
		decoding = DefaultDecoding
	}
	im, err := e.cache.Load(req.Path, decoding)
	if err != nil {
		return nil, err
	}
	if req.Saturate {
		clip01(im.Pix)
	}

	// The masks apply in sequence on the current buffer, mirroring the
	// reference behaviour when several flags are combined.
	if req.OutOfPrimaryGamut {
		maskOutOfGamut(im.Pix, spaces.image, spaces.primary)
	}
	if req.OutOfSecondaryGamut {
		maskOutOfGamut(im.Pix, spaces.image, spaces.secondary)
	}
	if req.OutOfPointerGamut {
		mask := gamut.OutOfPointerGamut(im.Pix, spaces.image)
		for i, out := range mask {
			v := 0.0
			if out {
				v = 1.0
			}
			im.Pix[i*3], im.Pix[i*3+1], im.Pix[i*3+2] = v, v, v
		}
	}

	return &ImageData{
		Width:  im.Width,
		Height: im.Height,
		Data:   im.Pix,
		digits: e.encoder.NarrowDigits,
	}, nil
}

// MarshalJSON serialises the image data with values rounded to the narrow
// precision; NaN becomes null since JSON has no representation for it.
func (d *ImageData) MarshalJSON() ([]byte, error) {
	digits := d.digits
	if digits <= 0 {
		digits = 3
	}
	scale := math.Pow(10, float64(digits))

	var buf bytes.Buffer
	buf.WriteString(`{"width":`)
	buf.WriteString(strconv.Itoa(d.Width))
	buf.WriteString(`,"height":`)
	buf.WriteString(strconv.Itoa(d.Height))
	buf.WriteString(`,"data":[`)
	for i, v := range d.Data {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) {
			buf.WriteString("null")
			continue
		}
		rounded := math.Round(v*scale) / scale
		b, err := json.Marshal(rounded)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}
