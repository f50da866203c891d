// Package scorer computes a normalized 0-100 similarity between the content
// regions of two rendered pages using the structural similarity index.
package scorer

import (
	"fmt"
	"image"
	"math"

	"github.com/ivlev/proofcheck/internal/detector"
	"github.com/ivlev/proofcheck/internal/raster"
)

// SSIM stabilizers for 8-bit luminance (K1=0.01, K2=0.03, L=255).
const (
	c1 = (0.01 * 255) * (0.01 * 255)
	c2 = (0.03 * 255) * (0.03 * 255)
)

// Config controls scoring.
type Config struct {
	// CanvasSize is the side of the canonical square both crops are fitted
	// into before comparison.
	CanvasSize int `yaml:"canvas_size"`
	// WindowSize is the side of the local SSIM window.
	WindowSize int `yaml:"window_size"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{CanvasSize: 800, WindowSize: 8}
}

// Validate rejects malformed configuration eagerly.
func (c Config) Validate() error {
	if c.CanvasSize < 16 {
		return fmt.Errorf("scorer: canvas_size %d too small", c.CanvasSize)
	}
	if c.WindowSize < 2 || c.WindowSize > c.CanvasSize {
		return fmt.Errorf("scorer: window_size %d out of [2,%d]", c.WindowSize, c.CanvasSize)
	}
	return nil
}

// Score compares two rasters cropped to their content regions. The result is
// a pure function of its inputs: identical calls yield identical scores.
//
// Aspect ratio differences between the crops are resolved by padding on the
// canonical canvas, never rejected; only a crop with exactly zero area fails,
// with *DegenerateRegionError.
func Score(a *raster.Raster, regionA detector.Region, b *raster.Raster, regionB detector.Region, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	cropA, err := cropSide("reference", a, regionA)
	if err != nil {
		return 0, err
	}
	cropB, err := cropSide("proof", b, regionB)
	if err != nil {
		return 0, err
	}

	grayA := cropA.FitCanvas(cfg.CanvasSize).Luminance()
	grayB := cropB.FitCanvas(cfg.CanvasSize).Luminance()

	index := ssimIndex(grayA, grayB, cfg.WindowSize)

	score := index * 100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

func cropSide(side string, r *raster.Raster, region detector.Region) (*raster.Raster, error) {
	if r == nil {
		return nil, &UnsupportedFormatError{Side: side, Reason: "no raster"}
	}
	rect := region.Rect()
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, &DegenerateRegionError{Side: side, Rect: rect}
	}
	crop, err := r.Crop(rect)
	if err != nil {
		return nil, &DegenerateRegionError{Side: side, Rect: rect}
	}
	return crop, nil
}

// ssimIndex is the mean windowed SSIM over the two equal-sized luminance
// planes, nominally in [-1,1].
func ssimIndex(a, b *image.Gray, window int) float64 {
	w := a.Bounds().Dx()
	h := a.Bounds().Dy()

	var total float64
	var windows int

	for ty := 0; ty < h; ty += window {
		for tx := 0; tx < w; tx += window {
			bw := window
			if tx+bw > w {
				bw = w - tx
			}
			bh := window
			if ty+bh > h {
				bh = h - ty
			}
			total += windowSSIM(a, b, tx, ty, bw, bh)
			windows++
		}
	}

	if windows == 0 {
		return 0
	}
	return total / float64(windows)
}

func windowSSIM(a, b *image.Gray, x0, y0, w, h int) float64 {
	n := float64(w * h)

	var sumA, sumB float64
	for y := y0; y < y0+h; y++ {
		rowA := a.Pix[y*a.Stride:]
		rowB := b.Pix[y*b.Stride:]
		for x := x0; x < x0+w; x++ {
			sumA += float64(rowA[x])
			sumB += float64(rowB[x])
		}
	}
	muA := sumA / n
	muB := sumB / n

	var varA, varB, cov float64
	for y := y0; y < y0+h; y++ {
		rowA := a.Pix[y*a.Stride:]
		rowB := b.Pix[y*b.Stride:]
		for x := x0; x < x0+w; x++ {
			da := float64(rowA[x]) - muA
			db := float64(rowB[x]) - muB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	num := (2*muA*muB + c1) * (2*cov + c2)
	den := (muA*muA + muB*muB + c1) * (varA + varB + c2)
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) {
		return 0
	}
	return v
}
