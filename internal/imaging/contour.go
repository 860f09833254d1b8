package imaging

import (
	"image"
	"image/color"
)

// Component is a connected region of bright pixels.
type Component struct {
	Rect   image.Rectangle
	Pixels int
}

// BrightComponents thresholds the crop to grayscale and returns the connected
// components of pixels brighter than grayThreshold. A face-up card is a large
// white area, so a component with enough pixels means a card occupies the
// region regardless of which card it is.
func BrightComponents(img image.Image, grayThreshold uint8) []Component {
	gray := toGrayscale(img)
	bounds := gray.Bounds()

	visited := make([][]bool, bounds.Dy())
	for i := range visited {
		visited[i] = make([]bool, bounds.Dx())
	}

	var components []Component
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if gray.GrayAt(x, y).Y > grayThreshold && !visited[y-bounds.Min.Y][x-bounds.Min.X] {
				components = append(components, floodFill(gray, visited, x, y, grayThreshold))
			}
		}
	}
	return components
}

// HasBrightComponent reports whether any component exceeds minPixels.
func HasBrightComponent(img image.Image, grayThreshold uint8, minPixels int) bool {
	for _, c := range BrightComponents(img, grayThreshold) {
		if c.Pixels > minPixels {
			return true
		}
	}
	return false
}

func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// floodFill walks one connected component and returns its bounding rectangle
// and pixel count.
func floodFill(img *image.Gray, visited [][]bool, startX, startY int, threshold uint8) Component {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	pixels := 0

	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y

		if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		if visited[y-bounds.Min.Y][x-bounds.Min.X] || img.GrayAt(x, y).Y <= threshold {
			continue
		}

		visited[y-bounds.Min.Y][x-bounds.Min.X] = true
		pixels++

		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}

	return Component{
		Rect:   image.Rect(minX, minY, maxX+1, maxY+1),
		Pixels: pixels,
	}
}
