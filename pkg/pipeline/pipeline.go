// Package pipeline produces samples: shape a word, format it as markup,
// rasterize it, degrade it and write it out.
//
// The CLI, the HTTP server and tests all go through [Runner], so a sample
// rendered on demand is identical to the file a batch run writes for the
// same word, variant and seed.
//
// # Usage
//
//	err := raster.With(ctx, rasterOpts, func(r raster.Rasterizer) error {
//	    runner := pipeline.NewRunner(r, logger)
//	    result, err := runner.Generate(ctx, pipeline.DefaultPlan())
//	    ...
//	})
//
// The caller owns the rasterizer; [raster.With] releases it whether or not
// generation succeeds.
package pipeline

import (
	"hash/fnv"
	"image"
	"time"

	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/shape"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultOutputDir is where samples are written unless configured otherwise.
const DefaultOutputDir = "resources/sample-images"

// DefaultFormat is the default output encoding.
const DefaultFormat = io.FormatJPEG

// DefaultWords are the stock sample words. Surrounding and repeated spaces
// are intentional.
var DefaultWords = []string{
	"خانه من سرای من",
	"خانهٔ",
	"سَلامت",
	"دانِسته",
	"   abolfazl     mahdizade   ",
	"aaa",
	"آمریکا",
}

// =============================================================================
// Plan
// =============================================================================

// WordSpec is one word to render. Name, when set, replaces Text as the
// filename stem.
type WordSpec struct {
	Text string `toml:"text" json:"text"`
	Name string `toml:"name,omitempty" json:"name,omitempty"`
}

// Stem returns the filename stem.
func (w WordSpec) Stem() string {
	if w.Name != "" {
		return w.Name
	}
	return w.Text
}

// Words converts plain texts to specs.
func Words(texts ...string) []WordSpec {
	specs := make([]WordSpec, len(texts))
	for i, t := range texts {
		specs[i] = WordSpec{Text: t}
	}
	return specs
}

// Plan describes a batch: every word is rendered in every variant.
type Plan struct {
	Words     []WordSpec
	Fonts     markup.Fonts
	Variants  []markup.Style
	OutputDir string
	Format    io.Format

	// OnSample, if set, is called after each file is written.
	OnSample func(done, total int, path string)
}

// DefaultPlan reproduces the stock batch: seven words in three variants.
func DefaultPlan() Plan {
	return Plan{
		Words:     Words(DefaultWords...),
		Fonts:     markup.DefaultFonts(),
		Variants:  markup.DefaultVariants(),
		OutputDir: DefaultOutputDir,
		Format:    DefaultFormat,
	}
}

// Validate checks that every output filename is usable and unique.
func (p Plan) Validate() error {
	if len(p.Words) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no words to render")
	}
	if len(p.Variants) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no style variants")
	}
	if err := errors.ValidateOutputDir(p.OutputDir); err != nil {
		return err
	}
	if _, err := io.ParseFormat(string(p.Format)); err != nil {
		return err
	}

	for _, w := range p.Words {
		if err := errors.ValidateWord(w.Stem()); err != nil {
			return err
		}
		if w.Name != "" && w.Text == "" {
			return errors.New(errors.ErrCodeInvalidWord, "word %q has a name but no text", w.Name)
		}
	}

	suffixes := make(map[string]string, len(p.Variants))
	for _, v := range p.Variants {
		if err := errors.ValidateSuffix(v.Suffix); err != nil {
			return err
		}
		if prev, dup := suffixes[v.Suffix]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "variants %q and %q share suffix %q", prev, v.Name, v.Suffix)
		}
		suffixes[v.Suffix] = v.Name
	}

	files := make(map[string]bool, len(p.Words)*len(p.Variants))
	for _, w := range p.Words {
		for _, v := range p.Variants {
			name := io.SampleFilename(w.Stem(), v.Suffix, p.Format)
			if files[name] {
				return errors.New(errors.ErrCodeInvalidInput, "duplicate output file %q", name)
			}
			files[name] = true
		}
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Sample is one degraded image and what produced it.
type Sample struct {
	Word  shape.Word
	Style markup.Style
	Seed  uint64
	Image *image.Gray
}

// Stats holds timing for a batch.
type Stats struct {
	Samples       int
	Bytes         int
	RasterizeTime time.Duration
	DegradeTime   time.Duration
	WriteTime     time.Duration
	Total         time.Duration
}

// Result is the outcome of Generate.
type Result struct {
	Run   string
	Seed  uint64
	Files []string
	Stats Stats
}

// SampleSeed derives the noise seed for one word/variant pair from the run
// seed, so a sample does not depend on its position in the batch.
func SampleSeed(base uint64, text, variant string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(variant))
	return base ^ h.Sum64()
}
