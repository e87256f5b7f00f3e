// Package cache stores rasterized samples keyed by the inputs that produced
// them, so repeated runs over the same words skip the browser.
//
// Three backends share the [Cache] interface: [FileCache] for the CLI,
// [RedisCache] for servers sharing one cache, and [NullCache] when caching is
// disabled. Keys come from a [Keyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// RasterKey identifies one rendered document.
	RasterKey(backend string, opts RasterKeyOpts) string
}

// RasterKeyOpts holds everything that influences a rasterized image.
type RasterKeyOpts struct {
	Width  int    `json:"w"`
	Height int    `json:"h"`
	Markup string `json:"markup"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RasterKey returns "raster:<backend>:<sha256 of opts>".
func (DefaultKeyer) RasterKey(backend string, opts RasterKeyOpts) string {
	return hashKey("raster:"+backend, opts)
}

var _ Keyer = DefaultKeyer{}
