package scorer

import (
	"fmt"
	"image"
)

// DegenerateRegionError reports a crop with zero area. It is page-local: the
// caller records the page's score as unavailable and moves on.
type DegenerateRegionError struct {
	Side string
	Rect image.Rectangle
}

func (e *DegenerateRegionError) Error() string {
	return fmt.Sprintf("scorer: degenerate %s region %v", e.Side, e.Rect)
}

// UnsupportedFormatError reports a raster that cannot be reduced to a
// luminance plane. Also page-local.
type UnsupportedFormatError struct {
	Side   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("scorer: unsupported %s raster: %s", e.Side, e.Reason)
}
