package raster

import (
	"bytes"
	"context"
	"image"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/synthtext/pkg/cache"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/observability"
)

const cacheKeyType = "raster"

// Cached serves repeated documents from a cache as PNG bytes. Cache
// failures are treated as misses; only the inner rasterizer can fail a call.
type Cached struct {
	inner Rasterizer
	cache cache.Cache
	keyer cache.Keyer
	vp    markup.Viewport
	ttl   time.Duration
}

// NewCached wraps r. A nil keyer uses cache.NewDefaultKeyer.
func NewCached(r Rasterizer, c cache.Cache, keyer cache.Keyer, vp markup.Viewport, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{inner: r, cache: c, keyer: keyer, vp: vp, ttl: ttl}
}

// Name returns the inner backend's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Rasterize returns the cached image for doc or renders and stores it.
func (c *Cached) Rasterize(ctx context.Context, doc markup.Document) (image.Image, error) {
	key := c.key(doc)

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return img, nil
		}
		// Undecodable entry: fall through and overwrite it.
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	img, err := c.inner.Rasterize(ctx, doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err == nil {
		if c.cache.Set(ctx, key, buf.Bytes(), c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, buf.Len())
		}
	}
	return img, nil
}

// Close closes the inner rasterizer. The cache is owned by the caller.
func (c *Cached) Close() error { return c.inner.Close() }

func (c *Cached) key(doc markup.Document) string {
	m := doc.SVG
	if c.inner.Name() == BackendBrowser {
		m = doc.HTML
	}
	return c.keyer.RasterKey(c.inner.Name(), cache.RasterKeyOpts{
		Width:  c.vp.Width,
		Height: c.vp.Height,
		Markup: m,
	})
}

var _ Rasterizer = (*Cached)(nil)
