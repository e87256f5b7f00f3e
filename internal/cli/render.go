package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/synthtext/pkg/config"
	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/raster"
)

// renderCommand creates the single-sample command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		variant string
		output  string
		backend string
		seed    uint64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render <word>",
		Short: "Render one word in one style variant",
		Long: `Render a single degraded sample. Without --output the file is named
after the word and the variant suffix and written to the current directory;
the format follows the output extension.`,
		Example: `  synthtext render hello
  synthtext render سلام --variant bold -o salam.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("backend") {
				cfg.Raster.Backend = backend
			}
			if flags.Changed("seed") {
				cfg.Output.Seed = seed
			}
			if noCache {
				cfg.Cache.Kind = config.CacheNone
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			style, err := findVariant(cfg.Variants, variant)
			if err != nil {
				return err
			}
			path, format, err := renderTarget(args[0], style, output, cfg.Output.Format)
			if err != nil {
				return err
			}

			rc, err := openCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			if rc != nil {
				defer rc.Close()
			}

			r, err := openRasterizer(ctx, rasterOptions(cfg, rc, logger))
			if err != nil {
				return err
			}
			return raster.Use(r, func(r raster.Rasterizer) error {
				runner, err := newRunner(r, cfg, logger)
				if err != nil {
					return err
				}
				sample, err := runner.RenderSample(ctx, args[0], cfg.Fonts, style)
				if err != nil {
					return err
				}
				n, err := io.WriteImage(path, sample.Image, format)
				if err != nil {
					return err
				}
				printSuccess("Rendered %q (%s)", sample.Word.Text, style.Name)
				printFile(path)
				printDetail("%dx%d · %s · seed %d", sample.Image.Rect.Dx(), sample.Image.Rect.Dy(), formatBytes(n), sample.Seed)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "style variant name (default: the first configured variant)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&backend, "backend", raster.BackendBrowser, "rasterizer: browser or rsvg")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "noise seed (0 for random)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the raster cache")

	return cmd
}

// findVariant resolves a variant by name; empty selects the first.
func findVariant(variants []markup.Style, name string) (markup.Style, error) {
	if name == "" {
		return variants[0], nil
	}
	v, ok := markup.FindVariant(variants, name)
	if !ok {
		names := make([]string, len(variants))
		for i, v := range variants {
			names[i] = v.Name
		}
		return markup.Style{}, errors.New(errors.ErrCodeNotFound, "unknown variant %q (have %s)", name, strings.Join(names, ", "))
	}
	return v, nil
}

// renderTarget picks the output path and format for a single sample.
// An explicit output path decides the format by its extension.
func renderTarget(word string, style markup.Style, output, defaultFormat string) (string, io.Format, error) {
	if output == "" {
		if err := errors.ValidateWord(word); err != nil {
			return "", "", err
		}
		format, err := io.ParseFormat(defaultFormat)
		if err != nil {
			return "", "", err
		}
		return io.SampleFilename(word, style.Suffix, format), format, nil
	}

	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if ext == "" {
		return "", "", errors.New(errors.ErrCodeInvalidFormat, "output %q has no extension", output)
	}
	format, err := io.ParseFormat(ext)
	if err != nil {
		return "", "", err
	}
	return output, format, nil
}
