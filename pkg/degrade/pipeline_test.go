package degrade

import (
	"bytes"
	"image"
	"testing"

	"github.com/matzehuels/synthtext/pkg/errors"
)

func TestPipelineZeroNoiseDeterministic(t *testing.T) {
	p := Default()
	p.Noise.Amount = 0
	img := textLike(100, 30)

	a, err := p.Apply(img, NewRand(1))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	b, err := p.Apply(img, NewRand(2))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("noise-free pipeline depends on the seed")
	}
}

func TestPipelineOutputBinaryAndSized(t *testing.T) {
	methods := []Method{MethodGlobal, MethodAdaptive}
	modes := []NoiseMode{NoiseNone, NoiseSaltPepper, NoiseGaussian, NoisePoisson, NoiseSpeckle}

	img := textLike(120, 40)
	for _, method := range methods {
		for _, mode := range modes {
			t.Run(method.String()+"/"+mode.String(), func(t *testing.T) {
				p := Default()
				p.Method = method
				p.Noise.Mode = mode

				out, err := p.Apply(img, NewRand(17))
				if err != nil {
					t.Fatalf("Apply: %v", err)
				}
				if out.Bounds().Dx() != 120 || out.Bounds().Dy() != 40 {
					t.Errorf("size = %v, want 120x40", out.Bounds().Size())
				}
				if !onlyExtremes(out) {
					t.Error("output contains values other than 0 and 255")
				}
			})
		}
	}
}

func TestPipelineKeepsText(t *testing.T) {
	out, err := Default().Apply(textLike(100, 30), NewRand(5))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var black, white int
	for _, v := range out.Pix {
		if v == 0 {
			black++
		} else {
			white++
		}
	}
	if black == 0 || white == 0 {
		t.Errorf("black=%d white=%d, want both present", black, white)
	}
}

func TestPipelineEmptyImage(t *testing.T) {
	_, err := Default().Apply(image.NewNRGBA(image.Rect(0, 0, 0, 0)), NewRand(1))
	if !errors.Is(err, errors.ErrCodeFilter) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeFilter)
	}

	_, err = Default().Apply(nil, nil)
	if !errors.Is(err, errors.ErrCodeFilter) {
		t.Errorf("nil image error = %v, want code %s", err, errors.ErrCodeFilter)
	}
}

func TestPipelineNilRand(t *testing.T) {
	if _, err := Default().Apply(textLike(10, 10), nil); err != nil {
		t.Errorf("Apply with nil rand: %v", err)
	}
}

func TestPipelineValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Pipeline)
		wantErr bool
	}{
		{"default", func(*Pipeline) {}, false},
		{"negative blur", func(p *Pipeline) { p.BlurRadius = -1 }, true},
		{"blur too large", func(p *Pipeline) { p.BlurRadius = 2 }, true},
		{"even block", func(p *Pipeline) { p.Method = MethodAdaptive; p.BlockSize = 10 }, true},
		{"tiny block", func(p *Pipeline) { p.Method = MethodAdaptive; p.BlockSize = 1 }, true},
		{"even block global", func(p *Pipeline) { p.BlockSize = 10 }, false},
		{"bad noise", func(p *Pipeline) { p.Noise.Amount = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.modify(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
