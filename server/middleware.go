package server

import (
	"compress/gzip"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/colour-science/colour-analysis/observability"
)

// cachedResponse is a fully rendered response body with its ETag.
type cachedResponse struct {
	body    []byte
	etag    string
	expires time.Time
}

// responseCache memoises rendered JSON bodies keyed by the full request
// URI. The visuals are deterministic for a given query string, so the
// cache only has to bound staleness against images changing on disk.
type responseCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[uint64]cachedResponse
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:     ttl,
		entries: make(map[uint64]cachedResponse),
	}
}

func (c *responseCache) key(r *http.Request) uint64 {
	return xxhash.Sum64String(r.Method + " " + r.URL.RequestURI())
}

func (c *responseCache) get(key uint64) (cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return cachedResponse{}, false
	}
	return entry, true
}

func (c *responseCache) put(key uint64, body []byte, etag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedResponse{
		body:    body,
		etag:    etag,
		expires: time.Now().Add(c.ttl),
	}
}

// etagFor derives a strong ETag from the response body.
func etagFor(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// handle wraps a response producer with the shared response pipeline:
// response caching, ETag revalidation, CORS headers and gzip.
func (s *Server) handle(fn func(*http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "X-Content-Length")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		key := s.cache.key(r)
		entry, ok := s.cache.get(key)
		if !ok {
			v, err := fn(r)
			if err != nil {
				status := statusFor(err)
				if status >= http.StatusInternalServerError {
					s.log.Error("request failed",
						observability.String("path", r.URL.Path),
						observability.Error("error", err))
				} else {
					s.log.Debug("request rejected",
						observability.String("path", r.URL.Path),
						observability.Error("error", err))
				}
				http.Error(w, err.Error(), status)
				return
			}
			body, err := marshal(v)
			if err != nil {
				s.log.Error("response encoding failed",
					observability.String("path", r.URL.Path),
					observability.Error("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			entry = cachedResponse{body: body, etag: etagFor(body)}
			s.cache.put(key, entry.body, entry.etag)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("ETag", entry.etag)
		w.Header().Set("X-Content-Length", strconv.Itoa(len(entry.body)))
		if match := r.Header.Get("If-None-Match"); match != "" && match == entry.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		s.log.Debug("response",
			observability.String("path", r.URL.Path),
			observability.Int(observability.MetricResponseBytes, len(entry.body)))

		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			defer gz.Close()
			gz.Write(entry.body)
			return
		}
		w.Write(entry.body)
	}
}
