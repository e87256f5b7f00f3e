package degrade

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Composite pastes img onto an opaque white canvas of the same size, using
// img's own alpha as the mask, and returns the luminance of the result.
// Transparent regions become white. A fully opaque gray input is returned
// unchanged (as a copy starting at the origin).
func Composite(img image.Image) *image.Gray {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	flat := imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := flat.Pix[y*flat.Stride : y*flat.Stride+b.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			dst[x] = luma(src[x*4], src[x*4+1], src[x*4+2])
		}
	}
	return gray
}

// luma is the ITU-R 601-2 luminance with integer weights, rounded.
func luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}
