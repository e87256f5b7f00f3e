package pipeline

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/synthtext/pkg/degrade"
	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/manifest"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/observability"
	"github.com/matzehuels/synthtext/pkg/raster"
	"github.com/matzehuels/synthtext/pkg/shape"
)

// Runner turns words into degraded samples with one rasterizer.
//
// Rasterizer calls are serialized; everything else is safe for concurrent
// use, so one Runner can back an HTTP server.
type Runner struct {
	Rasterizer raster.Rasterizer
	Shaper     shape.Shaper
	Degrade    degrade.Pipeline
	Sink       manifest.Sink
	Viewport   markup.Viewport
	Logger     *log.Logger

	// Seed is the run seed. Each sample's noise seed is derived from it with
	// SampleSeed.
	Seed uint64

	mu sync.Mutex
}

// NewRunner creates a runner with the stock degradation, visual shaping,
// no manifest and a random seed. Fields may be replaced before first use.
func NewRunner(r raster.Rasterizer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Rasterizer: r,
		Shaper:     shape.Visual{},
		Degrade:    degrade.Default(),
		Sink:       manifest.Null{},
		Viewport:   markup.DefaultViewport(),
		Logger:     logger,
		Seed:       RandomSeed(),
	}
}

// RandomSeed returns a non-zero seed.
func RandomSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}

// RenderSample shapes, renders and degrades a single word.
func (r *Runner) RenderSample(ctx context.Context, text string, fonts markup.Fonts, style markup.Style) (*Sample, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeInvalidWord, "word cannot be empty")
	}
	display, err := r.Shaper.Shape(text)
	if err != nil {
		return nil, err
	}
	s, _, err := r.render(ctx, shape.Word{Text: text, Display: display}, fonts, style)
	return s, err
}

// stageTimes holds per-sample durations.
type stageTimes struct {
	rasterize, degrade time.Duration
}

func (r *Runner) render(ctx context.Context, w shape.Word, fonts markup.Fonts, style markup.Style) (*Sample, stageTimes, error) {
	var st stageTimes
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}

	doc := markup.Render(w.Display, fonts, style, r.Viewport)
	backend := r.Rasterizer.Name()

	hooks := observability.Pipeline()
	hooks.OnRasterizeStart(ctx, backend, w.Text)
	start := time.Now()

	r.mu.Lock()
	img, err := r.Rasterizer.Rasterize(ctx, doc)
	r.mu.Unlock()

	st.rasterize = time.Since(start)
	hooks.OnRasterizeComplete(ctx, backend, w.Text, st.rasterize, err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeRasterize, err, "rasterize %q (%s)", w.Text, style.Name)
		}
		return nil, st, err
	}

	seed := SampleSeed(r.Seed, w.Text, style.Name)
	start = time.Now()
	out, err := r.Degrade.Apply(img, degrade.NewRand(seed))
	st.degrade = time.Since(start)
	hooks.OnDegradeComplete(ctx, w.Text, st.degrade, err)
	if err != nil {
		return nil, st, err
	}

	r.Logger.Debug("rendered sample", "word", w.Text, "variant", style.Name,
		"raster", st.rasterize.Round(time.Millisecond), "degrade", st.degrade.Round(time.Millisecond))

	return &Sample{Word: w, Style: style, Seed: seed, Image: out}, st, nil
}

// Generate renders every word in every variant and writes the files. Words
// are shaped once up front. The first failure stops the batch; files
// already written are kept.
func (r *Runner) Generate(ctx context.Context, plan Plan) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	plan.Format, _ = io.ParseFormat(string(plan.Format))
	if err := io.EnsureDir(plan.OutputDir); err != nil {
		return nil, err
	}

	texts := make([]string, len(plan.Words))
	for i, w := range plan.Words {
		texts[i] = w.Text
	}
	shaped, err := shape.Words(r.Shaper, texts)
	if err != nil {
		return nil, err
	}

	result := &Result{Run: manifest.NewID(), Seed: r.Seed}
	total := len(plan.Words) * len(plan.Variants)
	begin := time.Now()

	r.Logger.Info("generating samples", "words", len(plan.Words), "variants", len(plan.Variants),
		"backend", r.Rasterizer.Name(), "seed", r.Seed, "dir", plan.OutputDir)

	for i, spec := range plan.Words {
		for _, variant := range plan.Variants {
			sample, st, err := r.render(ctx, shaped[i], plan.Fonts, variant)
			if err != nil {
				return nil, err
			}
			result.Stats.RasterizeTime += st.rasterize
			result.Stats.DegradeTime += st.degrade

			path := filepath.Join(plan.OutputDir, io.SampleFilename(spec.Stem(), variant.Suffix, plan.Format))
			start := time.Now()
			n, err := io.WriteImage(path, sample.Image, plan.Format)
			result.Stats.WriteTime += time.Since(start)
			observability.Pipeline().OnWriteComplete(ctx, path, n, err)
			if err != nil {
				return nil, err
			}

			rec := manifest.Record{
				ID:        manifest.NewID(),
				Run:       result.Run,
				Text:      spec.Text,
				Display:   sample.Word.Display,
				Variant:   variant.Name,
				Path:      path,
				Format:    string(plan.Format),
				Backend:   r.Rasterizer.Name(),
				Noise:     r.Degrade.Noise.Mode.String(),
				Seed:      sample.Seed,
				Width:     sample.Image.Bounds().Dx(),
				Height:    sample.Image.Bounds().Dy(),
				Bytes:     n,
				CreatedAt: time.Now().UTC(),
			}
			if err := r.Sink.Write(ctx, rec); err != nil {
				return nil, err
			}

			result.Files = append(result.Files, path)
			result.Stats.Samples++
			result.Stats.Bytes += n
			r.Logger.Debug("wrote sample", "path", path, "bytes", n)
			if plan.OnSample != nil {
				plan.OnSample(len(result.Files), total, path)
			}
		}
	}

	result.Stats.Total = time.Since(begin)
	return result, nil
}
