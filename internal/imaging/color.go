package imaging

import "image"

// ColorWindow is an inclusive RGB range used for presence checks: stack text
// is yellow, card backs are red, the dealer button is orange. The windows
// themselves are layout data, calibrated per table skin.
type ColorWindow struct {
	RMin, RMax uint8
	GMin, GMax uint8
	BMin, BMax uint8
}

func (w ColorWindow) Contains(r, g, b uint8) bool {
	return r >= w.RMin && r <= w.RMax &&
		g >= w.GMin && g <= w.GMax &&
		b >= w.BMin && b <= w.BMax
}

// CountWindow counts the pixels of img that fall inside the window.
func CountWindow(img image.Image, w ColorWindow) int {
	bounds := img.Bounds()
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if w.Contains(uint8(r>>8), uint8(g>>8), uint8(b>>8)) {
				n++
			}
		}
	}
	return n
}
