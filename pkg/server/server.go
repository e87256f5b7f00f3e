// Package server exposes sample rendering over HTTP.
//
// Routes:
//
//	GET  /healthz                          liveness and build info
//	GET  /v1/variants                      configured style variants
//	GET  /v1/document?text=&variant=&form= markup for a word (html or svg)
//	POST /v1/samples                       {"text", "variant", "format"} -> image
//
// All requests share one [pipeline.Runner] and therefore one rasterizer;
// the runner serializes rasterization.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	Fonts         markup.Fonts
	Variants      []markup.Style
	DefaultFormat io.Format
	MaxTextBytes  int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Logger *log.Logger
}

// Server serves samples rendered by a Runner.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	router chi.Router
	logger *log.Logger
}

// New builds the router. Empty options fall back to the stock fonts,
// variants and JPEG output.
func New(runner *pipeline.Runner, opts Options) *Server {
	if len(opts.Variants) == 0 {
		opts.Variants = markup.DefaultVariants()
	}
	if opts.Fonts == (markup.Fonts{}) {
		opts.Fonts = markup.DefaultFonts()
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = pipeline.DefaultFormat
	}
	if opts.MaxTextBytes <= 0 {
		opts.MaxTextBytes = 200
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{runner: runner, opts: opts, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/variants", s.handleVariants)
		r.Get("/document", s.handleDocument)
		r.Post("/samples", s.handleSample)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting for in-flight renders.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("serving", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidWord, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidNoiseMode, errors.ErrCodeShape:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRasterize, errors.ErrCodeBrowserUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
