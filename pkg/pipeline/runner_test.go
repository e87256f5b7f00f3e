package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"image/draw"
	stdio "io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/synthtext/pkg/errors"
	"github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/manifest"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/observability"
	"github.com/matzehuels/synthtext/pkg/shape"
)

// fakeRasterizer draws a black bar on white at the viewport size.
type fakeRasterizer struct {
	vp       markup.Viewport
	failAt   int
	calls    atomic.Int32
	inflight atomic.Int32
	overlap  atomic.Bool
	delay    time.Duration
}

func (f *fakeRasterizer) Name() string { return "fake" }
func (f *fakeRasterizer) Close() error { return nil }

func (f *fakeRasterizer) Rasterize(ctx context.Context, doc markup.Document) (image.Image, error) {
	if f.inflight.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.inflight.Add(-1)

	n := int(f.calls.Add(1))
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failAt > 0 && n == f.failAt {
		return nil, stderrors.New("page crashed")
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.vp.Width, f.vp.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	bar := image.Rect(f.vp.Width/4, f.vp.Height/3, 3*f.vp.Width/4, 2*f.vp.Height/3)
	draw.Draw(img, bar, image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img, nil
}

// memorySink collects records.
type memorySink struct {
	mu      sync.Mutex
	records []manifest.Record
}

func (m *memorySink) Write(_ context.Context, r manifest.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *memorySink) Close() error { return nil }

// countingShaper counts Shape calls.
type countingShaper struct {
	calls int
}

func (c *countingShaper) Shape(word string) (string, error) {
	c.calls++
	return shape.Identity{}.Shape(word)
}

func newTestRunner(f *fakeRasterizer) *Runner {
	r := NewRunner(f, log.New(stdio.Discard))
	r.Seed = 42
	return r
}

func testPlan(dir string) Plan {
	p := DefaultPlan()
	p.OutputDir = dir
	p.Format = io.FormatPNG
	return p
}

func TestGenerateWritesEveryWordVariant(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resources", "sample-images")
	f := &fakeRasterizer{vp: markup.DefaultViewport()}
	sink := &memorySink{}
	r := newTestRunner(f)
	r.Sink = sink

	var progress []int
	plan := testPlan(dir)
	plan.OnSample = func(done, total int, path string) {
		if total != 21 {
			t.Errorf("total = %d, want 21", total)
		}
		progress = append(progress, done)
	}

	result, err := r.Generate(context.Background(), plan)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(result.Files) != 21 || result.Stats.Samples != 21 {
		t.Fatalf("files = %d, samples = %d, want 21", len(result.Files), result.Stats.Samples)
	}
	if int(f.calls.Load()) != 21 {
		t.Errorf("rasterize calls = %d, want 21", f.calls.Load())
	}
	if len(progress) != 21 || progress[20] != 21 {
		t.Errorf("progress callbacks = %v", progress)
	}

	want := []string{
		"خانه من سرای من.png",
		"خانه من سرای من_bold.png",
		"خانه من سرای من_italic.png",
	}
	for i, name := range want {
		if result.Files[i] != filepath.Join(dir, name) {
			t.Errorf("file %d = %q, want %q", i, result.Files[i], name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "   abolfazl     mahdizade   _italic.png")); err != nil {
		t.Errorf("spaced filename missing: %v", err)
	}

	img, err := imaging.Open(result.Files[0])
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	if img.Bounds().Dx() != 500 || img.Bounds().Dy() != 150 {
		t.Errorf("output size = %v, want 500x150", img.Bounds().Size())
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("PNG decoded as %T, want *image.Gray", img)
	}
	for _, v := range gray.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("output pixel %d, want 0 or 255", v)
		}
	}

	if len(sink.records) != 21 {
		t.Fatalf("manifest records = %d, want 21", len(sink.records))
	}
	rec := sink.records[1]
	if rec.Run != result.Run || rec.Variant != "bold" || rec.Backend != "fake" || rec.Width != 500 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Path != result.Files[1] || rec.Bytes <= 0 {
		t.Errorf("record path/bytes = %q/%d", rec.Path, rec.Bytes)
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	read := func(dir string) []byte {
		f := &fakeRasterizer{vp: markup.DefaultViewport()}
		plan := testPlan(dir)
		plan.Words = Words("aaa")
		res, err := newTestRunner(f).Generate(context.Background(), plan)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		data, err := os.ReadFile(res.Files[0])
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	a := read(t.TempDir())
	b := read(t.TempDir())
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different files")
	}
}

func TestGenerateStopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	f := &fakeRasterizer{vp: markup.DefaultViewport(), failAt: 3}
	sink := &memorySink{}
	r := newTestRunner(f)
	r.Sink = sink

	_, err := r.Generate(context.Background(), testPlan(dir))
	if !errors.Is(err, errors.ErrCodeRasterize) {
		t.Fatalf("error = %v, want %s", err, errors.ErrCodeRasterize)
	}
	if int(f.calls.Load()) != 3 {
		t.Errorf("rasterize calls = %d, want 3", f.calls.Load())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 || len(sink.records) != 2 {
		t.Errorf("files = %d, records = %d, want 2 each", len(entries), len(sink.records))
	}
}

func TestGenerateShapesEachWordOnce(t *testing.T) {
	f := &fakeRasterizer{vp: markup.DefaultViewport()}
	s := &countingShaper{}
	r := newTestRunner(f)
	r.Shaper = s

	if _, err := r.Generate(context.Background(), testPlan(t.TempDir())); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if s.calls != 7 {
		t.Errorf("shape calls = %d, want 7", s.calls)
	}
}

func TestGenerateInvalidPlan(t *testing.T) {
	f := &fakeRasterizer{vp: markup.DefaultViewport()}
	plan := testPlan(t.TempDir())
	plan.Words = Words("a/b")

	if _, err := newTestRunner(f).Generate(context.Background(), plan); !errors.Is(err, errors.ErrCodeInvalidWord) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidWord)
	}
	if f.calls.Load() != 0 {
		t.Error("rasterizer called for an invalid plan")
	}
}

func TestGenerateCanceled(t *testing.T) {
	dir := t.TempDir()
	f := &fakeRasterizer{vp: markup.DefaultViewport()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestRunner(f).Generate(ctx, testPlan(dir)); !stderrors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if f.calls.Load() != 0 {
		t.Error("rasterizer called after cancellation")
	}
}

func TestRenderSample(t *testing.T) {
	f := &fakeRasterizer{vp: markup.DefaultViewport()}
	r := newTestRunner(f)

	s, err := r.RenderSample(context.Background(), "سلام", markup.DefaultFonts(), markup.DefaultStyle())
	if err != nil {
		t.Fatalf("RenderSample: %v", err)
	}
	if s.Word.Text != "سلام" || s.Word.Display != "مالس" {
		t.Errorf("word = %+v", s.Word)
	}
	if s.Image.Bounds().Dx() != 500 || s.Image.Bounds().Dy() != 150 {
		t.Errorf("size = %v", s.Image.Bounds().Size())
	}
	if s.Seed != SampleSeed(42, "سلام", "normal") {
		t.Errorf("seed = %d", s.Seed)
	}

	if _, err := r.RenderSample(context.Background(), "  ", markup.DefaultFonts(), markup.DefaultStyle()); !errors.Is(err, errors.ErrCodeInvalidWord) {
		t.Errorf("blank word error = %v", err)
	}
	if _, err := r.RenderSample(context.Background(), "\xff", markup.DefaultFonts(), markup.DefaultStyle()); !errors.Is(err, errors.ErrCodeShape) {
		t.Errorf("invalid UTF-8 error = %v", err)
	}
}

func TestRenderSampleSerializesRasterizer(t *testing.T) {
	f := &fakeRasterizer{vp: markup.Viewport{Width: 40, Height: 20}, delay: 2 * time.Millisecond}
	r := newTestRunner(f)
	r.Viewport = f.vp

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.RenderSample(context.Background(), "aaa", markup.DefaultFonts(), markup.DefaultStyle()); err != nil {
				t.Errorf("RenderSample: %v", err)
			}
		}()
	}
	wg.Wait()

	if f.overlap.Load() {
		t.Error("rasterizer called concurrently")
	}
}

type countingPipelineHooks struct {
	observability.NoopPipelineHooks
	mu                             sync.Mutex
	rasterStarts, degrades, writes int
	rasterErrors                   int
}

func (h *countingPipelineHooks) OnRasterizeStart(context.Context, string, string) {
	h.mu.Lock()
	h.rasterStarts++
	h.mu.Unlock()
}

func (h *countingPipelineHooks) OnRasterizeComplete(_ context.Context, _, _ string, _ time.Duration, err error) {
	if err != nil {
		h.mu.Lock()
		h.rasterErrors++
		h.mu.Unlock()
	}
}

func (h *countingPipelineHooks) OnDegradeComplete(context.Context, string, time.Duration, error) {
	h.mu.Lock()
	h.degrades++
	h.mu.Unlock()
}

func (h *countingPipelineHooks) OnWriteComplete(context.Context, string, int, error) {
	h.mu.Lock()
	h.writes++
	h.mu.Unlock()
}

func TestGenerateEmitsHooks(t *testing.T) {
	hooks := &countingPipelineHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	f := &fakeRasterizer{vp: markup.DefaultViewport(), failAt: 5}
	_, _ = newTestRunner(f).Generate(context.Background(), testPlan(t.TempDir()))

	if hooks.rasterStarts != 5 || hooks.rasterErrors != 1 || hooks.degrades != 4 || hooks.writes != 4 {
		t.Errorf("hooks: starts=%d errors=%d degrades=%d writes=%d, want 5/1/4/4",
			hooks.rasterStarts, hooks.rasterErrors, hooks.degrades, hooks.writes)
	}
}
