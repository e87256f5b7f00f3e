package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/synthtext/pkg/config"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/raster"
	"github.com/matzehuels/synthtext/pkg/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve samples over HTTP",
		Long: `Start an HTTP server that renders samples on demand with one shared
rasterizer.

  GET  /healthz
  GET  /v1/variants
  GET  /v1/document?text=&variant=&form=html|svg
  POST /v1/samples   {"text": "...", "variant": "bold", "format": "png"}`,
		Example: `  synthtext serve --addr :8080
  curl -o s.png -d '{"text":"hello","format":"png"}' localhost:8080/v1/samples`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("backend") {
				cfg.Raster.Backend = backend
			}
			if noCache {
				cfg.Cache.Kind = config.CacheNone
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			format, err := io.ParseFormat(cfg.Output.Format)
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
				srv := server.New(runner, server.Options{
					Fonts:         cfg.Fonts,
					Variants:      cfg.Variants,
					DefaultFormat: format,
					MaxTextBytes:  cfg.Server.MaxTextBytes,
					ReadTimeout:   cfg.Server.ReadTimeout.Duration,
					WriteTimeout:  cfg.Server.WriteTimeout.Duration,
					Logger:        logger,
				})
				printInfo("Listening on %s", StyleLink.Render("http://"+cfg.Server.Addr))
				printDetail("Backend %s · %d variants · Ctrl-C to stop", r.Name(), len(cfg.Variants))
				return srv.ListenAndServe(ctx, cfg.Server.Addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&backend, "backend", raster.BackendBrowser, "rasterizer: browser or rsvg")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the raster cache")

	return cmd
}
