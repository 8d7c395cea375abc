// Package server exposes the analysis operations over HTTP, mirroring the
// reference application's routes. The handlers are a thin façade: they
// normalise web-boundary string parameters, call into the analysis engine
// and serialise the result, with response caching, ETags and gzip layered
// on the way out.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/colour-science/colour-analysis/analysis"
	"github.com/colour-science/colour-analysis/buffergeometry"
	"github.com/colour-science/colour-analysis/colourspace"
	"github.com/colour-science/colour-analysis/imagecache"
	"github.com/colour-science/colour-analysis/imageio"
	"github.com/colour-science/colour-analysis/model"
	"github.com/colour-science/colour-analysis/observability"
	"github.com/colour-science/colour-analysis/scripting"
	"github.com/colour-science/colour-analysis/transfer"
)

// Server serves the analysis API.
type Server struct {
	cfg    Config
	engine *analysis.Engine
	log    observability.Logger
	cache  *responseCache
}

// Option configures a Server.
type Option func(*Server)

// WithLogger overrides the logger.
func WithLogger(log observability.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New builds a server from the configuration, compiling and registering
// any scripted transfer functions before the first request.
func New(cfg Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:   cfg,
		log:   observability.NopLogger{},
		cache: newResponseCache(time.Duration(cfg.ResponseCacheTTL)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(cfg.Transfers) > 0 {
		engine := scripting.NewEngine()
		if err := engine.RegisterTransfers(cfg.Transfers); err != nil {
			return nil, err
		}
	}

	encoder := buffergeometry.NewEncoder()
	if cfg.NarrowDigits > 0 {
		encoder.NarrowDigits = cfg.NarrowDigits
	}
	if cfg.WideDigits > 0 {
		encoder.WideDigits = cfg.WideDigits
	}

	s.engine = analysis.New(
		analysis.WithCache(imagecache.New(
			imagecache.WithTTL(time.Duration(cfg.ImageCacheTTL)),
			imagecache.WithLogger(s.log),
		)),
		analysis.WithEncoder(encoder),
		analysis.WithLogger(s.log),
	)
	return s, nil
}

// Handler returns the route multiplexer wrapped with the response
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/images", s.handle(s.imagesResponse))
	mux.HandleFunc("/decoding-cctfs", s.handle(s.decodingsResponse))
	mux.HandleFunc("/colourspace-models", s.handle(s.modelsResponse))
	mux.HandleFunc("/RGB-colourspaces", s.handle(s.colourspacesResponse))
	mux.HandleFunc("/RGB-colourspace-volume-visual", s.handle(s.volumeVisualResponse))
	mux.HandleFunc("/spectral-locus-visual", s.handle(s.spectralLocusResponse))
	mux.HandleFunc("/pointer-gamut-visual", s.handle(s.pointerGamutResponse))
	mux.HandleFunc("/visible-spectrum-visual", s.handle(s.visibleSpectrumResponse))
	mux.HandleFunc("/RGB-image-scatter-visual/", s.handle(s.scatterVisualResponse))
	mux.HandleFunc("/image-data/", s.handle(s.imageDataResponse))

	return mux
}

// imagePath resolves an image name from the request path against the
// configured images directory, refusing traversal outside it.
func (s *Server) imagePath(r *http.Request, prefix string) string {
	name := strings.TrimPrefix(r.URL.Path, prefix)
	name, _ = url.PathUnescape(name)
	return filepath.Join(s.cfg.ImagesDir, filepath.Base(name))
}

func (s *Server) imagesResponse(r *http.Request) (any, error) {
	entries, err := os.ReadDir(s.cfg.ImagesDir)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Server) decodingsResponse(*http.Request) (any, error) {
	return s.engine.Decodings(), nil
}

func (s *Server) modelsResponse(*http.Request) (any, error) {
	return s.engine.ModelLabels(), nil
}

func (s *Server) colourspacesResponse(*http.Request) (any, error) {
	return s.engine.Colourspaces(), nil
}

func (s *Server) volumeVisualResponse(r *http.Request) (any, error) {
	q := r.URL.Query()
	segments, err := queryInt(q, "segments", analysis.DefaultSegments)
	if err != nil {
		return nil, err
	}
	wireframe, err := queryBool(q, "wireframe", false)
	if err != nil {
		return nil, err
	}
	return s.engine.VolumeVisual(analysis.VolumeRequest{
		Colourspace: queryString(q, "colourspace", analysis.PrimaryColourspace),
		Model:       model.Model(queryString(q, "colourspaceModel", string(analysis.DefaultModel))),
		Segments:    segments,
		Wireframe:   wireframe,
	})
}

func (s *Server) spectralLocusResponse(r *http.Request) (any, error) {
	q := r.URL.Query()
	return s.engine.SpectralLocusVisual(
		queryString(q, "colourspace", analysis.PrimaryColourspace),
		model.Model(queryString(q, "colourspaceModel", string(analysis.DefaultModel))))
}

func (s *Server) visibleSpectrumResponse(r *http.Request) (any, error) {
	q := r.URL.Query()
	return s.engine.VisibleSpectrumVisual(
		queryString(q, "colourspace", analysis.PrimaryColourspace),
		model.Model(queryString(q, "colourspaceModel", string(analysis.DefaultModel))))
}

func (s *Server) pointerGamutResponse(r *http.Request) (any, error) {
	q := r.URL.Query()
	return s.engine.PointerGamutVisual(
		model.Model(queryString(q, "colourspaceModel", string(analysis.DefaultModel))))
}

func (s *Server) scatterVisualResponse(r *http.Request) (any, error) {
	q := r.URL.Query()
	req := analysis.ScatterRequest{
		Path:                 s.imagePath(r, "/RGB-image-scatter-visual/"),
		PrimaryColourspace:   queryString(q, "primaryColourspace", analysis.PrimaryColourspace),
		SecondaryColourspace: queryString(q, "secondaryColourspace", analysis.SecondaryColourspace),
		ImageColourspace:     analysis.Selector(queryString(q, "imageColourspace", string(analysis.SelectPrimary))),
		Decoding:             queryString(q, "imageDecodingCctf", analysis.DefaultDecoding),
		Model:                model.Model(queryString(q, "colourspaceModel", string(analysis.DefaultModel))),
	}
	var err error
	if req.OutOfPrimaryGamut, err = queryBool(q, "outOfPrimaryColourspaceGamut", false); err != nil {
		return nil, err
	}
	if req.OutOfSecondaryGamut, err = queryBool(q, "outOfSecondaryColourspaceGamut", false); err != nil {
		return nil, err
	}
	if req.OutOfPointerGamut, err = queryBool(q, "outOfPointerGamut", false); err != nil {
		return nil, err
	}
	if req.Saturate, err = queryBool(q, "saturate", false); err != nil {
		return nil, err
	}
	if req.SubSampling, err = queryInt(q, "subSampling", analysis.DefaultSubSampling); err != nil {
		return nil, err
	}
	return s.engine.ImageScatterVisual(req)
}

func (s *Server) imageDataResponse(r *http.Request) (any, error) {
	q := r.URL.Query()
	req := analysis.ImageDataRequest{
		Path:                 s.imagePath(r, "/image-data/"),
		PrimaryColourspace:   queryString(q, "primaryColourspace", analysis.PrimaryColourspace),
		SecondaryColourspace: queryString(q, "secondaryColourspace", analysis.SecondaryColourspace),
		ImageColourspace:     analysis.Selector(queryString(q, "imageColourspace", string(analysis.SelectPrimary))),
		Decoding:             queryString(q, "imageDecodingCctf", analysis.DefaultDecoding),
	}
	var err error
	if req.OutOfPrimaryGamut, err = queryBool(q, "outOfPrimaryColourspaceGamut", false); err != nil {
		return nil, err
	}
	if req.OutOfSecondaryGamut, err = queryBool(q, "outOfSecondaryColourspaceGamut", false); err != nil {
		return nil, err
	}
	if req.OutOfPointerGamut, err = queryBool(q, "outOfPointerGamut", false); err != nil {
		return nil, err
	}
	if req.Saturate, err = queryBool(q, "saturate", false); err != nil {
		return nil, err
	}
	return s.engine.ImageData(req)
}

// statusFor maps the core error conditions to transport statuses: lookup
// and resource failures are the client's, everything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, colourspace.ErrNotFound),
		errors.Is(err, model.ErrNotFound),
		errors.Is(err, transfer.ErrNotFound),
		errors.Is(err, imageio.ErrUnreadable):
		return http.StatusNotFound
	case errors.Is(err, errBadParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadParameter = errors.New("bad parameter")

// queryString reads a string parameter, treating JavaScript originated
// "null" and "undefined" values as absent.
func queryString(q url.Values, name, fallback string) string {
	v := q.Get(name)
	if v == "" || v == "null" || v == "undefined" {
		return fallback
	}
	return v
}

// queryBool reads a JavaScript originated boolean parameter.
func queryBool(q url.Values, name string, fallback bool) (bool, error) {
	switch v := q.Get(name); v {
	case "", "null", "undefined":
		return fallback, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &paramError{name: name, value: v}
	}
}

// queryInt reads an integer parameter.
func queryInt(q url.Values, name string, fallback int) (int, error) {
	v := q.Get(name)
	if v == "" || v == "null" || v == "undefined" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &paramError{name: name, value: v}
	}
	return n, nil
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + " for parameter " + e.name
}

func (e *paramError) Is(target error) bool { return target == errBadParameter }

func marshal(v any) ([]byte, error) {
	if m, ok := v.(json.Marshaler); ok {
		return m.MarshalJSON()
	}
	return json.Marshal(v)
}
