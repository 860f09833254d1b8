package imaging

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Crop copies a rectangle out of the screenshot into a zero-origin RGBA
// buffer. The source is never modified.
func Crop(img image.Image, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}

// Downscale resizes an image to the given width, keeping the aspect ratio.
// Used for archived captures, where a thumbnail is enough for audit.
func Downscale(img image.Image, width int) *image.RGBA {
	bounds := img.Bounds()
	if bounds.Dx() <= width || bounds.Dx() == 0 {
		return Crop(img, bounds)
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, bounds, xdraw.Src, nil)
	return out
}
