// Package manifest records one entry per generated sample: which word and
// variant produced which file, with which seed and backend. Training
// pipelines use it to pair each image with its ground-truth text.
//
// Records go to a [Sink]: a JSON Lines file next to the images, a MongoDB
// collection, or nowhere.
package manifest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// Record describes one written sample.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Run       string    `json:"run" bson:"run"`
	Text      string    `json:"text" bson:"text"`
	Display   string    `json:"display" bson:"display"`
	Variant   string    `json:"variant" bson:"variant"`
	Path      string    `json:"path" bson:"path"`
	Format    string    `json:"format" bson:"format"`
	Backend   string    `json:"backend" bson:"backend"`
	Noise     string    `json:"noise" bson:"noise"`
	Seed      uint64    `json:"seed" bson:"seed"`
	Width     int       `json:"width" bson:"width"`
	Height    int       `json:"height" bson:"height"`
	Bytes     int       `json:"bytes" bson:"bytes"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewID returns a random record or run identifier.
func NewID() string {
	return uuid.NewString()
}

// Sink receives records.
type Sink interface {
	Write(ctx context.Context, r Record) error
	Close() error
}

// Sink kinds.
const (
	KindNone  = "none"
	KindJSONL = "jsonl"
	KindMongo = "mongo"
)

// Config selects a sink.
type Config struct {
	Kind string `toml:"kind"`

	// Path of the JSONL file. Relative paths are resolved against the
	// output directory by the caller.
	Path string `toml:"path"`

	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultConfig disables the manifest.
func DefaultConfig() Config {
	return Config{
		Kind:       KindNone,
		Path:       "manifest.jsonl",
		Database:   "synthtext",
		Collection: "samples",
	}
}

// Validate checks that the selected kind has what it needs.
func (c Config) Validate() error {
	switch strings.ToLower(c.Kind) {
	case "", KindNone:
		return nil
	case KindJSONL:
		if c.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "manifest path is required for jsonl")
		}
		return nil
	case KindMongo:
		if err := errors.ValidateURL(c.URI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "manifest uri")
		}
		if c.Database == "" || c.Collection == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "manifest database and collection are required for mongo")
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown manifest kind %q (must be none, jsonl or mongo)", c.Kind)
	}
}

// Open creates the sink selected by c.
func Open(ctx context.Context, c Config) (Sink, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(c.Kind) {
	case KindJSONL:
		return NewJSONL(c.Path)
	case KindMongo:
		return NewMongo(ctx, c.URI, c.Database, c.Collection)
	default:
		return Null{}, nil
	}
}

// Null discards records.
type Null struct{}

func (Null) Write(context.Context, Record) error { return nil }
func (Null) Close() error                        { return nil }
