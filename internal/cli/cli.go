package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/synthtext/pkg/buildinfo"
	"github.com/matzehuels/synthtext/pkg/cache"
	"github.com/matzehuels/synthtext/pkg/config"
	"github.com/matzehuels/synthtext/pkg/pipeline"
	"github.com/matzehuels/synthtext/pkg/raster"
	"github.com/matzehuels/synthtext/pkg/shape"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "synthtext"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Synthtext generates degraded text images for OCR training",
		Long: `Synthtext renders words in several style variants through a headless
browser, degrades the result with noise, blur and binarization, and writes
the samples as image files named after the word and the variant.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.markupCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	c.registerFlagCompletions(root)

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig returns the --config file over the defaults, or the defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// openCache opens the raster cache selected by cfg. A nil cache means
// caching is off.
func openCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Kind {
	case config.CacheFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, nil
	}
}

// rasterOptions builds rasterizer options from cfg.
func rasterOptions(cfg config.Config, c cache.Cache, logger *log.Logger) raster.Options {
	return raster.Options{
		Backend:    cfg.Raster.Backend,
		Viewport:   cfg.Viewport(),
		BrowserBin: cfg.Raster.BrowserBin,
		NoSandbox:  cfg.Raster.NoSandbox,
		RSVGBin:    cfg.Raster.RSVGBin,
		Timeout:    cfg.Raster.Timeout.Duration,
		Cache:      c,
		Keyer:      cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix),
		CacheTTL:   cfg.Cache.TTL.Duration,
		Logger:     logger,
	}
}

// newRunner creates a pipeline runner for r configured by cfg.
func newRunner(r raster.Rasterizer, cfg config.Config, logger *log.Logger) (*pipeline.Runner, error) {
	shaper, err := shape.ByName(cfg.Shaper)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(r, logger)
	runner.Shaper = shaper
	runner.Degrade = cfg.Degrade
	runner.Viewport = cfg.Viewport()
	if cfg.Output.Seed != 0 {
		runner.Seed = cfg.Output.Seed
	}
	return runner, nil
}

// openRasterizer starts the backend behind a spinner; a browser launch can
// take several seconds on first use.
func openRasterizer(ctx context.Context, opts raster.Options) (raster.Rasterizer, error) {
	spinner := newSpinnerWithContext(ctx, "Starting "+opts.Backend+" rasterizer...")
	spinner.Start()
	r, err := raster.Open(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rasterizer unavailable")
		return nil, err
	}
	spinner.Stop()
	return r, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/synthtext/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
