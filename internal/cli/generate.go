package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/synthtext/pkg/config"
	"github.com/matzehuels/synthtext/pkg/manifest"
	"github.com/matzehuels/synthtext/pkg/pipeline"
	"github.com/matzehuels/synthtext/pkg/raster"
)

// generateOpts are flag overrides for the config file.
type generateOpts struct {
	words    []string
	out      string
	format   string
	backend  string
	seed     uint64
	noCache  bool
	manifest string
}

// apply writes the set flags over cfg.
func (o generateOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if len(o.words) > 0 {
		cfg.Words = pipeline.Words(o.words...)
	}
	if flags.Changed("out") {
		cfg.Output.Dir = o.out
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("backend") {
		cfg.Raster.Backend = o.backend
	}
	if flags.Changed("seed") {
		cfg.Output.Seed = o.seed
	}
	if o.noCache {
		cfg.Cache.Kind = config.CacheNone
	}
	if o.manifest != "" {
		cfg.Manifest.Kind = manifest.KindJSONL
		cfg.Manifest.Path = o.manifest
	}
}

// generateCommand creates the batch generation command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render every word in every style variant",
		Long: `Render every configured word in every style variant, degrade each
rendering and write one image file per pair.

Files are named <word><suffix>.<ext>, e.g. aaa_bold.jpeg.`,
		Example: `  synthtext generate
  synthtext generate --word hello --word سلام --format png -o samples
  synthtext generate -c synthtext.toml --manifest samples.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runGenerate(cmd, cfg)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.words, "word", "w", nil, "word to render (repeatable, replaces the configured words)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", pipeline.DefaultOutputDir, "output directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(pipeline.DefaultFormat), "image format: jpeg or png")
	cmd.Flags().StringVar(&opts.backend, "backend", raster.BackendBrowser, "rasterizer: browser or rsvg")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "noise seed (0 for random)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the raster cache")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "append sample records to this JSONL file")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	rc, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
	}

	sink, err := manifest.Open(ctx, cfg.Manifest)
	if err != nil {
		return err
	}
	defer sink.Close()

	r, err := openRasterizer(ctx, rasterOptions(cfg, rc, logger))
	if err != nil {
		return err
	}

	var result *pipeline.Result
	err = raster.Use(r, func(r raster.Rasterizer) error {
		runner, err := newRunner(r, cfg, logger)
		if err != nil {
			return err
		}
		runner.Sink = sink

		spinner := newSpinnerWithContext(ctx, "Rendering samples...")
		plan := cfg.Plan()
		plan.OnSample = func(done, total int, path string) {
			spinner.SetMessage("Rendering samples %d/%d", done, total)
			logger.Debug("sample written", "path", path)
		}

		prog := newProgress(logger)
		spinner.Start()
		result, err = runner.Generate(ctx, plan)
		spinner.Stop()
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Generated %d samples", len(result.Files)))
		return nil
	})
	if err != nil {
		return err
	}

	printSuccess("Wrote %d samples to %s", len(result.Files), cfg.Output.Dir)
	printStats(result.Stats)
	printDetail("Run %s, seed %d", result.Run, result.Seed)
	if cfg.Manifest.Kind == manifest.KindJSONL {
		printFile(cfg.Manifest.Path)
	}
	return nil
}

// round formats a stage duration for the summary line.
func round(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
