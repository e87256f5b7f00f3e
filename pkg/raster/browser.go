package raster

import (
	"bytes"
	"context"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/matzehuels/synthtext/pkg/buildinfo"
	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/markup"
)

// BrowserOptions configures a headless Chromium session.
type BrowserOptions struct {
	Bin       string
	NoSandbox bool
	Viewport  markup.Viewport
	Timeout   time.Duration
	Logger    *log.Logger
}

// Browser rasterizes the HTML form of a document in headless Chromium.
// One page is created at startup and reused for every document; calls to
// Rasterize must not overlap.
type Browser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	vp       markup.Viewport
	timeout  time.Duration
	logger   *log.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewBrowser launches Chromium, connects to it and prepares a page sized to
// the viewport at a device scale factor of 1.
func NewBrowser(ctx context.Context, opts BrowserOptions) (*Browser, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	l := launcher.New().Context(ctx).Headless(true).Leakless(true)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	logger.Debug("launching browser", "bin", opts.Bin, "sandbox", !opts.NoSandbox)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBrowserUnavailable, err, "launch browser")
	}

	b := &Browser{launcher: l, vp: opts.Viewport, timeout: opts.Timeout, logger: logger}

	b.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.browser.Connect(); err != nil {
		b.kill()
		return nil, errors.Wrap(errors.ErrCodeBrowserUnavailable, err, "connect to browser")
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		b.Close()
		return nil, errors.Wrap(errors.ErrCodeBrowserUnavailable, err, "open page")
	}
	b.page = page

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: buildinfo.UserAgent()}); err != nil {
		logger.Debug("user agent not set", "error", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Viewport.Width,
		Height:            opts.Viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		b.Close()
		return nil, errors.Wrap(errors.ErrCodeBrowserUnavailable, err, "set viewport")
	}

	return b, nil
}

// Name returns "browser".
func (b *Browser) Name() string { return BackendBrowser }

// Rasterize loads doc.HTML and screenshots the viewport.
func (b *Browser) Rasterize(ctx context.Context, doc markup.Document) (image.Image, error) {
	ctx, cancel := withTimeout(ctx, b.timeout)
	defer cancel()
	page := b.page.Context(ctx)

	if err := page.Navigate(markup.DataURI(doc.HTML)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "load document")
	}
	if err := page.WaitLoad(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "wait for document")
	}

	// The DevTools transport carries the capture base64-encoded; rod hands
	// back the decoded PNG.
	png, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "capture screenshot")
	}

	img, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "decode screenshot")
	}
	if err := checkSize(img, b.vp, BackendBrowser); err != nil {
		return nil, err
	}
	return img, nil
}

// Close shuts the browser down and removes its temporary profile.
func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		if b.browser != nil {
			b.closeErr = b.browser.Close()
		}
		b.kill()
		b.logger.Debug("browser closed")
	})
	return b.closeErr
}

func (b *Browser) kill() {
	b.launcher.Kill()
	b.launcher.Cleanup()
}

var _ Rasterizer = (*Browser)(nil)
