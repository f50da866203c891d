// Package detector finds the meaningful content rectangle of a rendered page,
// discounting margins, bleed and crop marks. Detection is a chain of
// strategies tried in order; the first result classified at or above the
// minimum confidence wins. Detection never fails: the worst case is the whole
// page with low confidence, which callers display as uncertain rather than
// silently upgrading.
package detector

import (
	"image"

	"github.com/ivlev/proofcheck/internal/raster"
)

// strategy produces a candidate content box with a confidence class.
type strategy interface {
	method() Method
	detect(gray *image.Gray) (image.Rectangle, float64, bool)
}

// Detect runs the strategy chain (threshold, then edge) over the raster and
// returns the first acceptable region, or the full page at low confidence.
func Detect(r *raster.Raster, cfg Config) Region {
	gray := r.Luminance()
	bounds := gray.Bounds()

	strategies := []strategy{
		&thresholdStrategy{cfg: cfg},
		&edgeStrategy{cfg: cfg},
	}

	fallback := ConfidenceLow
	for _, s := range strategies {
		box, conf, ok := s.detect(gray)
		if !ok {
			fallback = conf
			continue
		}
		if conf >= minAcceptable {
			return Region{
				Left:       box.Min.X,
				Top:        box.Min.Y,
				Right:      box.Max.X,
				Bottom:     box.Max.Y,
				Method:     s.method(),
				Confidence: conf,
			}
		}
		fallback = conf
	}

	return Full(bounds, fallback)
}
