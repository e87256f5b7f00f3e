package raster

import (
	"bytes"
	"context"
	"image"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/markup"
)

// RSVG rasterizes the SVG form of a document with rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	bin     string
	vp      markup.Viewport
	timeout time.Duration
}

// NewRSVG checks that the converter is installed.
func NewRSVG(bin string, vp markup.Viewport, timeout time.Duration) (*RSVG, error) {
	if bin == "" {
		bin = "rsvg-convert"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBrowserUnavailable, err,
			"rsvg backend requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}
	return &RSVG{bin: path, vp: vp, timeout: timeout}, nil
}

// Name returns "rsvg".
func (r *RSVG) Name() string { return BackendRSVG }

// Rasterize renders doc.SVG to a PNG of the viewport size.
func (r *RSVG) Rasterize(ctx context.Context, doc markup.Document) (image.Image, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.bin,
		"-f", "png",
		"-w", strconv.Itoa(r.vp.Width),
		"-h", strconv.Itoa(r.vp.Height),
	)
	cmd.Stdin = strings.NewReader(doc.SVG)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String()))
	}

	img, err := imaging.Decode(&out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterize, err, "decode rsvg-convert output")
	}
	if err := checkSize(img, r.vp, BackendRSVG); err != nil {
		return nil, err
	}
	return img, nil
}

// Close does nothing; each Rasterize call runs its own process.
func (r *RSVG) Close() error { return nil }

var _ Rasterizer = (*RSVG)(nil)
