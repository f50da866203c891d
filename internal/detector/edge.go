package detector

import (
	"image"
	"math"
)

// minEdgePixels below which an edge box is considered noise.
const minEdgePixels = 100

// edgeStrategy is the fallback for low-contrast designs (white-on-white) that
// the threshold pass cannot separate from the background. It bounds the
// pixels whose Sobel gradient magnitude exceeds the configured threshold.
type edgeStrategy struct {
	cfg Config
}

func (s *edgeStrategy) method() Method { return MethodEdge }

func (s *edgeStrategy) detect(gray *image.Gray) (image.Rectangle, float64, bool) {
	bounds := gray.Bounds()

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	count := 0

	// Sobel kernels
	gx := [3][3]int{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	gy := [3][3]int{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += pixel * float64(gx[ky+1][kx+1])
					sumY += pixel * float64(gy[ky+1][kx+1])
				}
			}

			if math.Sqrt(sumX*sumX+sumY*sumY) > s.cfg.EdgeThreshold {
				count++
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
			}
		}
	}

	if count < minEdgePixels {
		return image.Rectangle{}, ConfidenceLow, false
	}

	box := image.Rect(minX, minY, maxX+1, maxY+1)
	conf := classify(box, bounds, s.cfg)

	// A near-zero box means the edges were too sparse to trust.
	if float64(box.Dx()*box.Dy()) < 0.01*float64(bounds.Dx()*bounds.Dy()) {
		conf = ConfidenceLow
	}
	return box, conf, true
}
