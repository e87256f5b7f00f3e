package degrade

import (
	"image"
	"math/rand/v2"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// Pipeline is the ordered degradation applied to every rasterized sample:
// noise, blur, composite, binarize.
type Pipeline struct {
	Noise      Noise   `toml:"noise" json:"noise"`
	BlurRadius float64 `toml:"blur_radius" json:"blur_radius"`
	Method     Method  `toml:"binarize" json:"binarize"`
	Threshold  uint8   `toml:"threshold" json:"threshold"`
	BlockSize  int     `toml:"block_size" json:"block_size"`
	Offset     float64 `toml:"offset" json:"offset"`
}

// Default returns the stock pipeline: salt-and-pepper noise, 0.25 box blur,
// white background, global threshold at 128.
func Default() Pipeline {
	return Pipeline{
		Noise:      DefaultNoise(),
		BlurRadius: DefaultBlurRadius,
		Method:     MethodGlobal,
		Threshold:  DefaultThreshold,
		BlockSize:  DefaultBlockSize,
		Offset:     DefaultOffset,
	}
}

// Validate checks the pipeline parameters.
func (p Pipeline) Validate() error {
	if err := p.Noise.Validate(); err != nil {
		return err
	}
	if p.BlurRadius < 0 || p.BlurRadius > MaxBlurRadius {
		return errors.New(errors.ErrCodeInvalidConfig, "blur radius %v out of range [0, %v]", p.BlurRadius, MaxBlurRadius)
	}
	if p.Method == MethodAdaptive && (p.BlockSize < 3 || p.BlockSize%2 == 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "adaptive block size %d must be odd and at least 3", p.BlockSize)
	}
	return nil
}

// Apply runs every stage on img and returns the binarized result, which has
// img's dimensions and contains only 0 and 255. rng drives the noise stage.
func (p Pipeline) Apply(img image.Image, rng *rand.Rand) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New(errors.ErrCodeFilter, "cannot degrade an empty image")
	}
	if rng == nil {
		rng = NewRand(0)
	}

	noisy := p.Noise.Apply(img, rng)
	blurred := BoxBlur(noisy, p.BlurRadius)
	gray := Composite(blurred)

	switch p.Method {
	case MethodAdaptive:
		return BinarizeAdaptive(gray, p.BlockSize, p.Offset), nil
	case MethodGlobal:
		return Binarize(gray, p.Threshold), nil
	default:
		return nil, errors.New(errors.ErrCodeFilter, "unknown binarization method %d", int(p.Method))
	}
}
