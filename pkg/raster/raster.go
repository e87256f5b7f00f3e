package raster

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/synthtext/pkg/cache"
	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/markup"
)

// Backend names.
const (
	BackendBrowser = "browser"
	BackendRSVG    = "rsvg"
)

// Rasterizer renders documents at a fixed viewport size.
type Rasterizer interface {
	// Rasterize renders doc. The result has the viewport's dimensions.
	Rasterize(ctx context.Context, doc markup.Document) (image.Image, error)

	// Name identifies the backend; it is part of cache keys.
	Name() string

	// Close releases the backend. It is safe to call more than once.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Viewport markup.Viewport

	// BrowserBin is the Chromium executable; empty lets rod find or
	// download one.
	BrowserBin string
	// NoSandbox disables the Chromium sandbox (needed as root in containers).
	NoSandbox bool
	// RSVGBin is the rsvg-convert executable; empty means "rsvg-convert".
	RSVGBin string

	// Timeout bounds a single Rasterize call; 0 means no limit.
	Timeout time.Duration

	// Cache, when set, wraps the backend with Cached.
	Cache    cache.Cache
	Keyer    cache.Keyer
	CacheTTL time.Duration

	Logger *log.Logger
}

// ParseBackend normalizes a backend name.
func ParseBackend(s string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(s)); b {
	case "", BackendBrowser, "chrome", "chromium":
		return BackendBrowser, nil
	case BackendRSVG, "rsvg-convert":
		return BackendRSVG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown raster backend %q (must be browser or rsvg)", s)
	}
}

// Open starts the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Rasterizer, error) {
	backend, err := ParseBackend(opts.Backend)
	if err != nil {
		return nil, err
	}
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "viewport %dx%d must be positive", opts.Viewport.Width, opts.Viewport.Height)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	var r Rasterizer
	switch backend {
	case BackendRSVG:
		r, err = NewRSVG(opts.RSVGBin, opts.Viewport, opts.Timeout)
	default:
		r, err = NewBrowser(ctx, BrowserOptions{
			Bin:       opts.BrowserBin,
			NoSandbox: opts.NoSandbox,
			Viewport:  opts.Viewport,
			Timeout:   opts.Timeout,
			Logger:    opts.Logger,
		})
	}
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("rasterizer ready", "backend", r.Name(),
		"width", opts.Viewport.Width, "height", opts.Viewport.Height)

	if opts.Cache != nil {
		r = NewCached(r, opts.Cache, opts.Keyer, opts.Viewport, opts.CacheTTL)
	}
	return r, nil
}

// With opens a rasterizer, passes it to fn and always closes it. An error
// from fn takes precedence over an error from Close.
func With(ctx context.Context, opts Options, fn func(Rasterizer) error) (err error) {
	r, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	return Use(r, fn)
}

// Use passes an already opened rasterizer to fn and closes it afterwards.
func Use(r Rasterizer, fn func(Rasterizer) error) (err error) {
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeRasterize, cerr, "release %s rasterizer", r.Name())
		}
	}()
	return fn(r)
}

// withTimeout derives a per-call context.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// checkSize verifies a rendered image matches the viewport.
func checkSize(img image.Image, vp markup.Viewport, backend string) error {
	b := img.Bounds()
	if b.Dx() != vp.Width || b.Dy() != vp.Height {
		return errors.New(errors.ErrCodeRasterize, "%s rendered %dx%d, want %dx%d",
			backend, b.Dx(), b.Dy(), vp.Width, vp.Height)
	}
	return nil
}
