package io

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// Format is an output image encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// JPEGQuality is the quality used for JPEG output.
const JPEGQuality = 95

// ParseFormat parses a format name; "jpg" is accepted for JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q (must be jpeg or png)", s)
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(b []byte) error {
	parsed, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// SampleFilename returns "<word><suffix>.<ext>". The word is used verbatim,
// including inner and surrounding spaces.
func SampleFilename(word, suffix string, f Format) string {
	return word + suffix + "." + f.Ext()
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "create output directory %s", dir)
	}
	return nil
}

// EncodeImage writes img to w in format f.
func EncodeImage(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", string(f))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "encode %s", f)
	}
	return nil
}

// WriteImage encodes img to path and returns the number of bytes written.
// The file is written under a temporary name and renamed into place.
func WriteImage(path string, img image.Image, f Format) (int, error) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, f); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sample-*")
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeWrite, err, "create %s", path)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return 0, errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return 0, errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	return buf.Len(), nil
}
