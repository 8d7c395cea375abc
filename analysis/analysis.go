// Package analysis orchestrates the core pipeline: it turns parametric
// requests into model-space geometry buffers and pixel classification
// arrays, wiring the image cache, the colour model engine, the gamut
// classifiers and the geometry encoder together. The HTTP layer above is a
// thin façade over the operations defined here.
package analysis

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/colour-science/colour-analysis/buffergeometry"
	"github.com/colour-science/colour-analysis/colourspace"
	"github.com/colour-science/colour-analysis/imagecache"
	"github.com/colour-science/colour-analysis/model"
	"github.com/colour-science/colour-analysis/observability"
	"github.com/colour-science/colour-analysis/transfer"
)

// Request defaults, mirroring the reference client.
const (
	PrimaryColourspace   = "sRGB"
	SecondaryColourspace = "DCI-P3"
	DefaultDecoding      = "sRGB"
	DefaultSubSampling   = 25
	DefaultSegments      = 16
)

// DefaultModel is the colour model used when a request leaves it unset.
const DefaultModel = model.CIExyY

// Engine evaluates analysis operations. All operations are pure apart from
// the image cache, which the engine owns and shares across requests.
type Engine struct {
	cache   *imagecache.Cache
	encoder *buffergeometry.Encoder
	log     observability.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache injects the image decode cache.
func WithCache(c *imagecache.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithEncoder injects the geometry encoder.
func WithEncoder(enc *buffergeometry.Encoder) Option {
	return func(e *Engine) { e.encoder = enc }
}

// WithLogger injects the logger.
func WithLogger(log observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New constructs an engine with a fresh cache, default encoder and no-op
// logger unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		cache:   imagecache.New(),
		encoder: buffergeometry.NewEncoder(),
		log:     observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decodings returns the registered decoding transfer function names.
func (e *Engine) Decodings() []string { return transfer.Names() }

// Colourspaces returns the registered RGB colourspace names.
func (e *Engine) Colourspaces() []string { return colourspace.Names() }

// Models returns the supported colour model names in listing order.
func (e *Engine) Models() []model.Model { return model.Models() }

// ModelLabels maps every model name to its visualisation axis labels.
func (e *Engine) ModelLabels() map[string][3]string {
	out := make(map[string][3]string)
	for _, m := range model.Models() {
		labels, _ := model.Labels(m)
		out[string(m)] = labels
	}
	return out
}

// transform runs the parallel model conversion and reports its duration.
func (e *Engine) transform(samples []float64, space *colourspace.Colourspace, m model.Model, sanitise bool) ([]float64, error) {
	start := time.Now()
	out, err := transformParallel(samples, space, m, sanitise)
	if err != nil {
		return nil, err
	}
	e.log.Debug("model transform",
		observability.String("model", string(m)),
		observability.Int("samples", len(samples)/3),
		observability.Float64(observability.MetricTransformTime, time.Since(start).Seconds()))
	return out, nil
}

// transformParallel converts flat XYZ samples to the model across all CPUs.
// The work is pure and chunked by sample ranges into a shared output.
func transformParallel(samples []float64, space *colourspace.Colourspace, m model.Model, sanitise bool) ([]float64, error) {
	// Validate the model once up front so that workers cannot fail on
	// lookup half way through.
	if _, err := model.Labels(m); err != nil {
		return nil, err
	}

	n := len(samples) / 3
	workers := runtime.NumCPU()
	if n < 4096 || workers < 2 {
		return model.Transform(samples, space.WhitePoint, m, sanitise)
	}

	out := make([]float64, len(samples))
	per := (n + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * per * 3
		hi := lo + per*3
		if hi > len(samples) {
			hi = len(samples)
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			chunk, err := model.Transform(samples[lo:hi], space.WhitePoint, m, sanitise)
			if err != nil {
				return err
			}
			copy(out[lo:hi], chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// rgbToXYZ converts flat RGB samples to flat XYZ through the colourspace.
func rgbToXYZ(samples []float64, space *colourspace.Colourspace) []float64 {
	out := make([]float64, len(samples))
	for i := 0; i+2 < len(samples); i += 3 {
		xyz := space.RGBToXYZ([3]float64{samples[i], samples[i+1], samples[i+2]})
		out[i], out[i+1], out[i+2] = xyz[0], xyz[1], xyz[2]
	}
	return out
}

func clip01(values []float64) {
	for i, v := range values {
		values[i] = math.Min(math.Max(v, 0), 1)
	}
}

func filterSamples(samples []float64, mask []bool) []float64 {
	out := samples[:0:0]
	for i, keep := range mask {
		if keep {
			out = append(out, samples[i*3], samples[i*3+1], samples[i*3+2])
		}
	}
	return out
}

func onesLike(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func lookupModel(m model.Model) (model.Model, error) {
	if m == "" {
		m = DefaultModel
	}
	if _, err := model.Labels(m); err != nil {
		return m, err
	}
	return m, nil
}

func lookupColourspace(name, fallback string) (*colourspace.Colourspace, error) {
	if name == "" {
		name = fallback
	}
	return colourspace.Lookup(name)
}

func (e *Engine) encode(attributes map[string]buffergeometry.Attribute, op string) (*buffergeometry.Buffer, error) {
	start := time.Now()
	buf, err := e.encoder.Encode(attributes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.log.Debug("geometry encoded",
		observability.String("op", op),
		observability.Float64(observability.MetricEncodeTime, time.Since(start).Seconds()))
	return buf, nil
}
