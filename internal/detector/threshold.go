package detector

import "image"

// thresholdStrategy masks pixels darker than the assumed white background
// minus the configured tolerance and takes their tight bounding box.
type thresholdStrategy struct {
	cfg Config
}

func (s *thresholdStrategy) method() Method { return MethodThreshold }

func (s *thresholdStrategy) detect(gray *image.Gray) (image.Rectangle, float64, bool) {
	bounds := gray.Bounds()
	cutoff := uint8(255 - s.cfg.MarginBackgroundTolerance)

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := gray.Pix[(y-bounds.Min.Y)*gray.Stride:]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if row[x-bounds.Min.X] < cutoff {
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

	if maxX < minX || maxY < minY {
		// Blank page as far as the threshold can tell.
		return image.Rectangle{}, ConfidenceLow, false
	}

	box := image.Rect(minX, minY, maxX+1, maxY+1)
	return box, classify(box, bounds, s.cfg), true
}
