package detector

import (
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/proofcheck/internal/raster"
)

func whitePage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func fillRect(img *image.Gray, rect image.Rectangle, v uint8) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func mustRaster(t *testing.T, img image.Image) *raster.Raster {
	t.Helper()
	r, err := raster.New(img)
	if err != nil {
		t.Fatalf("raster.New failed: %v", err)
	}
	return r
}

func TestDetectCenteredBlock(t *testing.T) {
	// A 500x300 dark block centered in an 800x800 white page: clear margins
	// on all four edges, so the threshold pass wins with high confidence.
	page := whitePage(800, 800)
	block := image.Rect(150, 250, 650, 550)
	fillRect(page, block, 20)

	region := Detect(mustRaster(t, page), DefaultConfig())

	if region.Method != MethodThreshold {
		t.Errorf("method = %s, want threshold", region.Method)
	}
	if region.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %v, want %v", region.Confidence, ConfidenceHigh)
	}
	if region.Rect() != block {
		t.Errorf("region = %v, want %v", region.Rect(), block)
	}
}

func TestDetectBlankPageFallsBackToFull(t *testing.T) {
	page := whitePage(400, 400)

	region := Detect(mustRaster(t, page), DefaultConfig())

	if region.Method != MethodFull {
		t.Errorf("method = %s, want full", region.Method)
	}
	if region.Confidence != ConfidenceLow {
		t.Errorf("confidence = %v, want %v", region.Confidence, ConfidenceLow)
	}
	if region.Rect() != page.Bounds() {
		t.Errorf("region = %v, want whole page %v", region.Rect(), page.Bounds())
	}
}

func TestDetectFullBleedIsLowConfidence(t *testing.T) {
	// Ink everywhere: the bounding box covers the page, which is ambiguous
	// between full-bleed art and a failed pass. The result is the full page
	// at low confidence, never a silent upgrade.
	page := image.NewGray(image.Rect(0, 0, 300, 300))
	for i := range page.Pix {
		page.Pix[i] = 40
	}

	region := Detect(mustRaster(t, page), DefaultConfig())

	if region.Method != MethodFull {
		t.Errorf("method = %s, want full", region.Method)
	}
	if region.Confidence != ConfidenceLow {
		t.Errorf("confidence = %v, want %v", region.Confidence, ConfidenceLow)
	}
}

func TestDetectThinMarginsAreMedium(t *testing.T) {
	// Content nearly to the edge on one side: margins exist but one is below
	// the per-edge minimum, so the detection is medium confidence yet still
	// acceptable.
	page := whitePage(400, 400)
	fillRect(page, image.Rect(2, 100, 300, 300), 10)

	region := Detect(mustRaster(t, page), DefaultConfig())

	if region.Method != MethodThreshold {
		t.Errorf("method = %s, want threshold", region.Method)
	}
	if region.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %v, want %v", region.Confidence, ConfidenceMedium)
	}
}

func TestDetectNeverErrors(t *testing.T) {
	// Degenerate but decodable inputs still produce a usable region.
	inputs := []*image.Gray{
		whitePage(1, 1),
		whitePage(3, 900),
		image.NewGray(image.Rect(0, 0, 2, 2)),
	}
	for _, img := range inputs {
		region := Detect(mustRaster(t, img), DefaultConfig())
		rect := region.Rect()
		if rect.Dx() <= 0 || rect.Dy() <= 0 {
			t.Errorf("degenerate region %v for %v", rect, img.Bounds())
		}
		if !rect.In(img.Bounds()) {
			t.Errorf("region %v outside page %v", rect, img.Bounds())
		}
	}
}

func TestManualRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 500, 500)

	region, err := Manual(image.Rect(50, 50, 600, 450), bounds)
	if err != nil {
		t.Fatalf("Manual failed: %v", err)
	}
	if region.Method != MethodManual || region.Confidence != 1.0 {
		t.Errorf("manual region = %+v", region)
	}
	if region.Rect() != image.Rect(50, 50, 500, 450) {
		t.Errorf("manual region not clipped: %v", region.Rect())
	}

	if _, err := Manual(image.Rect(600, 600, 700, 700), bounds); err == nil {
		t.Error("manual region outside the page should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad := DefaultConfig()
	bad.MarginBackgroundTolerance = 300
	if err := bad.Validate(); err == nil {
		t.Error("tolerance 300 should be rejected")
	}

	bad = DefaultConfig()
	bad.EdgeThreshold = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero edge threshold should be rejected")
	}

	bad = DefaultConfig()
	bad.MinMarginFraction = 0.5
	if err := bad.Validate(); err == nil {
		t.Error("min margin 0.5 should be rejected")
	}
}
