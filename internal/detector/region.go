package detector

import (
	"fmt"
	"image"
	"math"
)

// Method identifies how a content region was produced.
type Method int

const (
	MethodThreshold Method = iota
	MethodEdge
	MethodFull
	MethodManual
)

func (m Method) String() string {
	switch m {
	case MethodThreshold:
		return "threshold"
	case MethodEdge:
		return "edge"
	case MethodFull:
		return "full"
	case MethodManual:
		return "manual"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// Confidence classes. High means clear margins on all four edges, Medium a
// non-trivial box with thin margins, Low an ambiguous result (full-bleed art
// or a failed pass).
const (
	ConfidenceHigh   = 0.9
	ConfidenceMedium = 0.6
	ConfidenceLow    = 0.4

	// minAcceptable is the cutoff for accepting a strategy result.
	minAcceptable = 0.5
)

// Region is the detected (or manually supplied) content rectangle of a page,
// in pixel coordinates. Always non-degenerate and within the page bounds.
type Region struct {
	Left       int
	Top        int
	Right      int
	Bottom     int
	Method     Method
	Confidence float64
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d,%d,%d] %s %.0f%%", r.Left, r.Top, r.Right, r.Bottom, r.Method, r.Confidence*100)
}

// Manual builds a caller-supplied region, clipped against the page bounds.
// Manual regions carry full confidence and bypass detection.
func Manual(rect, bounds image.Rectangle) (Region, error) {
	clipped := rect.Intersect(bounds)
	if clipped.Dx() <= 0 || clipped.Dy() <= 0 {
		return Region{}, fmt.Errorf("detector: manual region %v outside page %v", rect, bounds)
	}
	return Region{
		Left:       clipped.Min.X,
		Top:        clipped.Min.Y,
		Right:      clipped.Max.X,
		Bottom:     clipped.Max.Y,
		Method:     MethodManual,
		Confidence: 1.0,
	}, nil
}

// Full covers the whole page. Used as the fallback when no strategy produces
// an acceptable result; carries the Low confidence of the failed edge pass.
func Full(bounds image.Rectangle, confidence float64) Region {
	return Region{
		Left:       bounds.Min.X,
		Top:        bounds.Min.Y,
		Right:      bounds.Max.X,
		Bottom:     bounds.Max.Y,
		Method:     MethodFull,
		Confidence: confidence,
	}
}

// Config controls content region detection.
type Config struct {
	// MarginBackgroundTolerance is how far below pure white a luminance value
	// may sit and still count as background. Pixels darker than
	// 255-tolerance are content.
	MarginBackgroundTolerance int `yaml:"margin_background_tolerance"`
	// MinMarginFraction is the per-edge trimmed fraction required to classify
	// a detection as high confidence.
	MinMarginFraction float64 `yaml:"min_margin_fraction"`
	// MaxFullBleedFraction is the page-area fraction above which a bounding
	// box is ambiguous between full-bleed art and a failed pass.
	MaxFullBleedFraction float64 `yaml:"max_full_bleed_fraction"`
	// EdgeThreshold is the Sobel gradient magnitude cutoff for the edge pass.
	EdgeThreshold float64 `yaml:"edge_threshold"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MarginBackgroundTolerance: 5,
		MinMarginFraction:         0.02,
		MaxFullBleedFraction:      0.95,
		EdgeThreshold:             30.0,
	}
}

// Validate rejects malformed configuration before any pixel work starts.
func (c Config) Validate() error {
	if c.MarginBackgroundTolerance < 0 || c.MarginBackgroundTolerance > 255 {
		return fmt.Errorf("detector: margin background tolerance %d out of [0,255]", c.MarginBackgroundTolerance)
	}
	for name, v := range map[string]float64{
		"min_margin_fraction":     c.MinMarginFraction,
		"max_full_bleed_fraction": c.MaxFullBleedFraction,
		"edge_threshold":          c.EdgeThreshold,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("detector: %s is not finite", name)
		}
	}
	if c.MinMarginFraction < 0 || c.MinMarginFraction >= 0.5 {
		return fmt.Errorf("detector: min_margin_fraction %v out of [0,0.5)", c.MinMarginFraction)
	}
	if c.MaxFullBleedFraction <= 0 || c.MaxFullBleedFraction > 1 {
		return fmt.Errorf("detector: max_full_bleed_fraction %v out of (0,1]", c.MaxFullBleedFraction)
	}
	if c.EdgeThreshold <= 0 {
		return fmt.Errorf("detector: edge_threshold %v must be positive", c.EdgeThreshold)
	}
	return nil
}

// classify maps a candidate bounding box to a confidence class using the
// per-edge margin ratios and the full-bleed area check.
func classify(box, page image.Rectangle, cfg Config) float64 {
	pageArea := float64(page.Dx()) * float64(page.Dy())
	boxArea := float64(box.Dx()) * float64(box.Dy())
	if pageArea <= 0 || boxArea <= 0 {
		return ConfidenceLow
	}
	if boxArea/pageArea >= cfg.MaxFullBleedFraction {
		// Found essentially everything: true full-bleed art or a failed pass.
		return ConfidenceLow
	}

	left := float64(box.Min.X-page.Min.X) / float64(page.Dx())
	right := float64(page.Max.X-box.Max.X) / float64(page.Dx())
	top := float64(box.Min.Y-page.Min.Y) / float64(page.Dy())
	bottom := float64(page.Max.Y-box.Max.Y) / float64(page.Dy())

	if left >= cfg.MinMarginFraction && right >= cfg.MinMarginFraction &&
		top >= cfg.MinMarginFraction && bottom >= cfg.MinMarginFraction {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}
