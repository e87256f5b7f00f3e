package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/synthtext/pkg/buildinfo"
	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/observability"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 64 << 10

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Backend: s.runner.Rasterizer.Name(),
	})
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Variants)
}

// variant resolves a variant name; empty selects the first variant.
func (s *Server) variant(name string) (markup.Style, error) {
	if name == "" {
		return s.opts.Variants[0], nil
	}
	v, ok := markup.FindVariant(s.opts.Variants, name)
	if !ok {
		return markup.Style{}, errors.New(errors.ErrCodeNotFound, "unknown variant %q", name)
	}
	return v, nil
}

func (s *Server) checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New(errors.ErrCodeInvalidWord, "text is required")
	}
	if len(text) > s.opts.MaxTextBytes {
		return errors.New(errors.ErrCodeInvalidWord, "text too long (max %d bytes)", s.opts.MaxTextBytes)
	}
	return nil
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("text")
	if err := s.checkText(text); err != nil {
		s.writeError(w, r, err)
		return
	}
	style, err := s.variant(q.Get("variant"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	display, err := s.runner.Shaper.Shape(text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc := markup.Render(display, s.opts.Fonts, style, s.runner.Viewport)
	switch q.Get("form") {
	case "", "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(doc.HTML))
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(doc.SVG))
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown form %q (must be html or svg)", q.Get("form")))
	}
}

// sampleRequest is the body of POST /v1/samples.
type sampleRequest struct {
	Text    string `json:"text"`
	Variant string `json:"variant"`
	Format  string `json:"format"`
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	var req sampleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := s.checkText(req.Text); err != nil {
		s.writeError(w, r, err)
		return
	}
	style, err := s.variant(req.Variant)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := s.opts.DefaultFormat
	if req.Format != "" {
		if format, err = io.ParseFormat(req.Format); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	sample, err := s.runner.RenderSample(r.Context(), req.Text, s.opts.Fonts, style)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := io.EncodeImage(&buf, sample.Image, format); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Sample-Seed", strconv.FormatUint(sample.Seed, 10))
	w.Header().Set("X-Sample-Variant", style.Name)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// instrument reports requests to the server hooks and the debug log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"bytes", ww.BytesWritten(), "duration", elapsed.Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
