package degrade

import (
	"image"
	"math"
	"strings"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// Binarization defaults.
const (
	DefaultThreshold = 128
	DefaultBlockSize = 11
	DefaultOffset    = 2
)

// Method selects the binarization rule.
type Method int

const (
	// MethodGlobal compares every pixel against one fixed threshold.
	MethodGlobal Method = iota
	// MethodAdaptive compares every pixel against its Gaussian-weighted
	// neighborhood mean.
	MethodAdaptive
)

func (m Method) String() string {
	switch m {
	case MethodGlobal:
		return "global"
	case MethodAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// ParseMethod parses a method name.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "":
		return MethodGlobal, nil
	case "adaptive":
		return MethodAdaptive, nil
	default:
		return MethodGlobal, errors.New(errors.ErrCodeInvalidConfig, "unknown binarization %q (must be global or adaptive)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Binarize maps every pixel to 255 if it is at least threshold, else 0.
func Binarize(img *image.Gray, threshold uint8) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)] >= threshold {
				dst.Pix[dst.PixOffset(x, y)] = 255
			}
		}
	}
	return dst
}

// BinarizeAdaptive maps every pixel to 255 if it is above its local
// Gaussian-weighted mean minus offset, else 0. The neighborhood is a
// blockSize x blockSize window (rounded up to an odd size of at least 3)
// with sigma = 0.3*((blockSize-1)/2 - 1) + 0.8. Borders are replicated.
func BinarizeAdaptive(img *image.Gray, blockSize int, offset float64) *image.Gray {
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}
	mean := gaussianMean(img, gaussianKernel(blockSize))

	b := img.Bounds()
	w := b.Dx()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := float64(img.Pix[img.PixOffset(x, y)])
			if v > mean[(y-b.Min.Y)*w+(x-b.Min.X)]-offset {
				dst.Pix[dst.PixOffset(x, y)] = 255
			}
		}
	}
	return dst
}

// gaussianKernel returns normalized 1D weights of the given odd size.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	k := make([]float64, size)
	var sum float64
	for i := range k {
		d := float64(i - half)
		k[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianMean convolves img separably with kernel, replicating borders,
// and returns the means in row-major order relative to the image origin.
func gaussianMean(img *image.Gray, kernel []float64) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	half := len(kernel) / 2

	at := func(x, y int) float64 {
		return float64(img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	horiz := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s float64
			for i, k := range kernel {
				s += k * at(clampInt(x+i-half, 0, w-1), y)
			}
			horiz[y*w+x] = s
		}
	}

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s float64
			for i, k := range kernel {
				s += k * horiz[clampInt(y+i-half, 0, h-1)*w+x]
			}
			out[y*w+x] = s
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
