package degrade

import (
	"image"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// NoiseMode selects the noise model.
type NoiseMode int

const (
	NoiseNone NoiseMode = iota
	NoiseSaltPepper
	NoiseGaussian
	NoisePoisson
	NoiseSpeckle
)

// Noise defaults.
const (
	DefaultAmount       = 0.004
	DefaultSaltVsPepper = 0.5
	DefaultVariance     = 0.1
)

var noiseModeNames = map[NoiseMode]string{
	NoiseNone:       "none",
	NoiseSaltPepper: "salt-pepper",
	NoiseGaussian:   "gaussian",
	NoisePoisson:    "poisson",
	NoiseSpeckle:    "speckle",
}

// noiseModeAliases maps accepted spellings to modes.
var noiseModeAliases = map[string]NoiseMode{
	"none":        NoiseNone,
	"salt-pepper": NoiseSaltPepper,
	"s&p":         NoiseSaltPepper,
	"gaussian":    NoiseGaussian,
	"gauss":       NoiseGaussian,
	"poisson":     NoisePoisson,
	"speckle":     NoiseSpeckle,
}

// ParseNoiseMode parses a mode name. Matching is case-insensitive.
func ParseNoiseMode(s string) (NoiseMode, error) {
	if m, ok := noiseModeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return NoiseNone, errors.New(errors.ErrCodeInvalidNoiseMode,
		"unknown noise mode %q (must be one of: none, salt-pepper, gaussian, poisson, speckle)", s)
}

func (m NoiseMode) String() string {
	if s, ok := noiseModeNames[m]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m NoiseMode) MarshalText() ([]byte, error) {
	if _, ok := noiseModeNames[m]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidNoiseMode, "unknown noise mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NoiseMode) UnmarshalText(b []byte) error {
	parsed, err := ParseNoiseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Noise is a noise model and its parameters. Only the fields of the
// selected Mode are read.
//
// Noise works on raw 8-bit channel values and clips results to [0, 255].
// It touches the color channels only, never alpha.
type Noise struct {
	Mode NoiseMode `toml:"mode" json:"mode"`

	// Amount is the fraction of channel values replaced (salt-and-pepper).
	Amount float64 `toml:"amount" json:"amount"`

	// SaltVsPepper is the share of replaced values set to the maximum
	// (salt-and-pepper); the rest are set to the minimum.
	SaltVsPepper float64 `toml:"salt_vs_pepper" json:"salt_vs_pepper"`

	// Variance of the additive zero-mean gaussian, in channel levels
	// squared. The default 0.1 is a sub-level jitter.
	Variance float64 `toml:"variance" json:"variance"`
}

// DefaultNoise returns salt-and-pepper noise with amount 0.004 split evenly.
func DefaultNoise() Noise {
	return Noise{
		Mode:         NoiseSaltPepper,
		Amount:       DefaultAmount,
		SaltVsPepper: DefaultSaltVsPepper,
		Variance:     DefaultVariance,
	}
}

// Validate checks the parameters of the selected mode.
func (n Noise) Validate() error {
	switch n.Mode {
	case NoiseNone, NoisePoisson, NoiseSpeckle:
		return nil
	case NoiseSaltPepper:
		if n.Amount < 0 || n.Amount > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "noise amount %v out of range [0, 1]", n.Amount)
		}
		if n.SaltVsPepper < 0 || n.SaltVsPepper > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "salt_vs_pepper %v out of range [0, 1]", n.SaltVsPepper)
		}
		return nil
	case NoiseGaussian:
		if n.Variance < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "noise variance %v must not be negative", n.Variance)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidNoiseMode, "unknown noise mode %d", int(n.Mode))
	}
}

// Apply returns a noisy copy of img. The copy always starts at the origin.
func (n Noise) Apply(img image.Image, rng *rand.Rand) *image.NRGBA {
	dst := imaging.Clone(img)
	if dst.Rect.Empty() {
		return dst
	}

	switch n.Mode {
	case NoiseSaltPepper:
		saltPepper(dst, n.Amount, n.SaltVsPepper, rng)
	case NoiseGaussian:
		sigma := math.Sqrt(n.Variance)
		mapChannels(dst, func(v float64) float64 {
			return v + rng.NormFloat64()*sigma
		})
	case NoisePoisson:
		levels := float64(QuantizationLevels(distinctValues(dst)))
		mapChannels(dst, func(v float64) float64 {
			return float64(poisson(rng, v*levels)) / levels
		})
	case NoiseSpeckle:
		mapChannels(dst, func(v float64) float64 {
			return v + v*rng.NormFloat64()
		})
	}
	return dst
}

// saltPepper forces ceil(amount*size*svp) random channel values to the
// maximum, then ceil(amount*size*(1-svp)) random channel values to the
// minimum. Coordinates are drawn independently and may repeat.
func saltPepper(img *image.NRGBA, amount, svp float64, rng *rand.Rand) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	size := float64(w * h * 3)

	set := func(count int, value uint8) {
		for i := 0; i < count; i++ {
			x, y, c := rng.IntN(w), rng.IntN(h), rng.IntN(3)
			img.Pix[y*img.Stride+x*4+c] = value
		}
	}
	set(int(math.Ceil(amount*size*svp)), 255)
	set(int(math.Ceil(amount*size*(1-svp))), 0)
}

// mapChannels replaces every color channel value v by fn(v), rounded and
// clipped to [0, 255].
func mapChannels(img *image.NRGBA, fn func(float64) float64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			for c := 0; c < 3; c++ {
				row[x+c] = toChannel(fn(float64(row[x+c])))
			}
		}
	}
}

// distinctValues counts the distinct color channel values of img.
func distinctValues(img *image.NRGBA) int {
	var seen [256]bool
	count := 0
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			for c := 0; c < 3; c++ {
				if v := row[x+c]; !seen[v] {
					seen[v] = true
					count++
				}
			}
		}
	}
	return count
}

// QuantizationLevels returns the smallest power of two greater than or equal
// to distinct, the value range used to scale Poisson noise. It is 1 for
// inputs with at most one distinct value.
func QuantizationLevels(distinct int) int {
	levels := 1
	for levels < distinct {
		levels <<= 1
	}
	return levels
}

// poisson draws a Poisson-distributed count with mean lambda. Small means use
// Knuth's multiplication method, large means a rounded normal approximation.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda >= 30 {
		k := math.Round(lambda + math.Sqrt(lambda)*rng.NormFloat64())
		return int(math.Max(k, 0))
	}
	limit := math.Exp(-lambda)
	k := 0
	for p := rng.Float64(); p > limit; p *= rng.Float64() {
		k++
	}
	return k
}

func toChannel(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 255)))
}

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
