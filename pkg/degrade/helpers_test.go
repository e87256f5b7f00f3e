package degrade

import (
	"image"
	"image/color"
	"image/draw"
)

// uniform returns a w x h NRGBA image filled with c.
func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// textLike returns a white image with a black bar, the shape of a rendered word.
func textLike(w, h int) *image.NRGBA {
	img := uniform(w, h, color.NRGBA{255, 255, 255, 255})
	bar := image.Rect(w/4, h/3, 3*w/4, 2*h/3)
	draw.Draw(img, bar, image.NewUniform(color.NRGBA{0, 0, 0, 255}), image.Point{}, draw.Src)
	return img
}

// checkerboard returns a w x h image of alternating black and white pixels.
func checkerboard(w, h int) *image.NRGBA {
	img := uniform(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 1 {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

// gradient returns a horizontal gray ramp covering all 256 levels.
func gradient() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 256, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 256; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x)})
		}
	}
	return img
}

// onlyExtremes reports whether every pixel is 0 or 255.
func onlyExtremes(img *image.Gray) bool {
	for _, v := range img.Pix {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}
