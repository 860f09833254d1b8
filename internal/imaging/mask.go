package imaging

import "image"

// Mask is a binary pixel mask in row-major order.
type Mask struct {
	W, H int
	Bits []bool
}

// NewMask allocates an all-clear mask.
func NewMask(w, h int) Mask {
	return Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

func (m Mask) At(x, y int) bool {
	return m.Bits[y*m.W+x]
}

func (m Mask) Set(x, y int, v bool) {
	m.Bits[y*m.W+x] = v
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// InkMask binarizes a crop: a pixel is set when its channel sum R+G+B exceeds
// threshold (scale 0..765). Card glyphs are brighter than the felt behind
// them, so set bits trace the printed ink.
func InkMask(img image.Image, threshold int) Mask {
	bounds := img.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sum := int(r>>8) + int(g>>8) + int(b>>8)
			m.Bits[i] = sum > threshold
			i++
		}
	}
	return m
}

// ClearTopLeftDiagonal clears a triangular corner of the mask. Rank crops
// catch a sliver of the neighbouring card in that corner, which varies from
// card to card and has to be blanked before matching. Strength is the
// proportion of each axis covered by the triangle.
func (m Mask) ClearTopLeftDiagonal(strength float64) {
	maxX := int(float64(m.W) * strength)
	maxY := int(float64(m.H) * strength)
	if maxY == 0 || maxX == 0 {
		return
	}

	for y := 0; y < maxY; y++ {
		xLimit := maxX - int(float64(maxX)/float64(maxY)*float64(y))
		for x := 0; x < xLimit && x < m.W; x++ {
			m.Bits[y*m.W+x] = false
		}
	}
}

// Mismatches counts positions where the two masks differ. Masks must have
// identical dimensions.
func (m Mask) Mismatches(other Mask) int {
	n := 0
	for i, b := range m.Bits {
		if b != other.Bits[i] {
			n++
		}
	}
	return n
}
