// Package imagecache caches decoded, linearised images by (path, decoding
// function) key with a bounded time-to-live. The cache is an explicitly
// constructed value handed to callers, not ambient state.
//
// Concurrent first access on the same key is intentionally not deduplicated:
// each caller decodes independently and the last write wins. A duplicated
// decode on a stampede is an accepted inefficiency, each decode is
// independently correct.
package imagecache

import (
	"sync"
	"time"

	"github.com/colour-science/colour-analysis/imageio"
	"github.com/colour-science/colour-analysis/observability"
	"github.com/colour-science/colour-analysis/transfer"
)

// DefaultTTL is the default retention from last write.
const DefaultTTL = 7 * 24 * time.Hour

type entry struct {
	image   *imageio.Image
	written time.Time
}

// Cache is a TTL bounded image decode cache.
type Cache struct {
	ttl  time.Duration
	now  func() time.Time
	read func(path string) (*imageio.Image, error)
	log  observability.Logger

	mu      sync.RWMutex
	entries map[string]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the entry retention.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithReader overrides the raster reader, for tests.
func WithReader(read func(path string) (*imageio.Image, error)) Option {
	return func(c *Cache) { c.read = read }
}

// WithLogger overrides the logger.
func WithLogger(log observability.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New constructs a cache with the default one week retention.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:     DefaultTTL,
		now:     time.Now,
		read:    imageio.Read,
		log:     observability.NopLogger{},
		entries: map[string]entry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// key derives the cache key: linear format files ignore the decoding
// function since no decoding is applied to them.
func key(path, decoding string) string {
	if imageio.IsLinearFormat(path) {
		return path
	}
	return path + "-" + decoding
}

// Load returns the decoded, linearised image at path. Non-linear files are
// mapped through the named decoding transfer function element-wise. The
// returned buffer is a copy, callers may mutate it freely. Entries older
// than the retention are treated as absent and recomputed.
func (c *Cache) Load(path, decoding string) (*imageio.Image, error) {
	k := key(path, decoding)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.written) < c.ttl {
		c.log.Debug(observability.MetricCacheHits,
			observability.String("key", k))
		return e.image.Clone(), nil
	}

	// Miss or expired. The decode runs outside the lock; concurrent misses
	// on the same key race and the last write wins.
	start := time.Now()
	im, err := c.read(path)
	if err != nil {
		return nil, err
	}

	if !imageio.IsLinearFormat(path) {
		fn, err := transfer.Lookup(decoding)
		if err != nil {
			return nil, err
		}
		im.Pix = transfer.Apply(fn, im.Pix)
	}

	c.mu.Lock()
	c.entries[k] = entry{image: im, written: c.now()}
	c.mu.Unlock()

	c.log.Debug(observability.MetricCacheMisses,
		observability.String("key", k),
		observability.Float64(observability.MetricDecodeTime, time.Since(start).Seconds()))

	return im.Clone(), nil
}

// Evict drops every expired entry. Eviction is otherwise lazy; this exists
// for long running servers that want to bound memory between accesses.
func (c *Cache) Evict() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if now.Sub(e.written) >= c.ttl {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of resident entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
