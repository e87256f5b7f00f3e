package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// JSONL appends one JSON object per line to a file.
type JSONL struct {
	mu   sync.Mutex
	f    *os.File
	enc  *json.Encoder
	path string
}

// NewJSONL opens path for appending, creating it and its directory.
func NewJSONL(path string) (*JSONL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifest, err, "create manifest directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifest, err, "open manifest %s", path)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	return &JSONL{f: f, enc: enc, path: path}, nil
}

// Path returns the manifest file path.
func (j *JSONL) Path() string { return j.path }

// Write appends r.
func (j *JSONL) Write(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(r); err != nil {
		return errors.Wrap(errors.ErrCodeManifest, err, "append to %s", j.path)
	}
	return nil
}

// Close flushes and closes the file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeManifest, err, "close %s", j.path)
	}
	return nil
}

var _ Sink = (*JSONL)(nil)
