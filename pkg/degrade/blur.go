package degrade

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultBlurRadius is the box-blur radius of the stock pipeline.
const DefaultBlurRadius = 0.25

// MaxBlurRadius is the largest radius BoxBlur supports.
const MaxBlurRadius = 1.0

// BoxBlur averages every pixel with its neighborhood. A fractional radius r
// weights the immediate neighbors by r, so the separable kernel is
// [r, 1, r] / (1 + 2r). Edge pixels are replicated. A radius of 0 returns a
// copy; radii above MaxBlurRadius are clamped. Alpha is not blurred.
func BoxBlur(img image.Image, radius float64) *image.NRGBA {
	if radius <= 0 {
		return imaging.Clone(img)
	}
	if radius > MaxBlurRadius {
		radius = MaxBlurRadius
	}
	r := radius
	kernel := [9]float64{
		r * r, r, r * r,
		r, 1, r,
		r * r, r, r * r,
	}
	return imaging.Convolve3x3(img, kernel, &imaging.ConvolveOptions{Normalize: true})
}
