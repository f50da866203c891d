package session

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/ivlev/proofcheck/internal/detector"
	"github.com/ivlev/proofcheck/internal/raster"
	"github.com/ivlev/proofcheck/internal/scorer"
	"github.com/ivlev/proofcheck/internal/source"
)

// Overrides carries caller-supplied manual content regions for one page.
// A nil rectangle leaves that side on automatic detection.
type Overrides struct {
	Reference *image.Rectangle
	Proof     *image.Rectangle
}

// ComputePage renders, detects and scores one page of one pair, replacing any
// prior result for that slot. It is idempotent: the same inputs produce the
// same result, and a repeat call is a full recomputation, not a patch.
//
// Page-local failures (rendering, degenerate region, unsupported raster) do
// not return an error; they are recorded on the result with a nil score.
func (s *Session) ComputePage(ctx context.Context, pairIndex, pageIndex int, ov Overrides) (PageResult, error) {
	pair, err := s.pair(pairIndex)
	if err != nil {
		return PageResult{}, err
	}
	if pageIndex < 0 || pageIndex >= pair.pages {
		return PageResult{}, fmt.Errorf("session: page %d out of range [0,%d)", pageIndex, pair.pages)
	}
	if err := ctx.Err(); err != nil {
		return PageResult{}, err
	}

	// One computation per slot at a time. Serializing makes last-writer-wins
	// mean "most recently completed", which is the well-defined order.
	slot := s.slotLock(pairIndex, pageIndex)
	slot.Lock()
	defer slot.Unlock()

	result := s.computePage(pair, pageIndex, ov)

	s.mu.Lock()
	pair.results[pageIndex] = &result
	s.mu.Unlock()

	return result, nil
}

func (s *Session) slotLock(pairIndex, pageIndex int) *sync.Mutex {
	key := [2]int{pairIndex, pageIndex}
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	m, ok := s.inflight[key]
	if !ok {
		m = &sync.Mutex{}
		s.inflight[key] = m
	}
	return m
}

func (s *Session) computePage(pair *Pair, pageIndex int, ov Overrides) PageResult {
	refRaster, refErr := renderSide(pair.reference, pageIndex, s.cfg.DPI)
	proofRaster, proofErr := renderSide(pair.proof, pageIndex, s.cfg.DPI)

	var result PageResult

	refRegion, err := s.sideRegion(refRaster, refErr, ov.Reference)
	if err != nil {
		result.Err = fmt.Errorf("reference: %w", err)
		return result
	}
	proofRegion, err := s.sideRegion(proofRaster, proofErr, ov.Proof)
	if err != nil {
		result.Err = fmt.Errorf("proof: %w", err)
		return result
	}
	result.Reference = refRegion
	result.Proof = proofRegion

	if refRegion == nil || proofRegion == nil {
		// Nothing to compare against; the pair is singleton or the page
		// exists on one side only.
		result.Err = fmt.Errorf("session: page %d present on one side only", pageIndex)
		return result
	}

	result.Confidence = refRegion.Confidence
	result.Method = refRegion.Method
	if proofRegion.Confidence < result.Confidence {
		result.Confidence = proofRegion.Confidence
		result.Method = proofRegion.Method
	}

	score, err := scorer.Score(refRaster, *refRegion, proofRaster, *proofRegion, s.cfg.Scorer)
	if err != nil {
		result.Err = err
		return result
	}
	result.Score = &score
	return result
}

// sideRegion resolves the region for one side: manual override when given,
// automatic detection otherwise, nil when the side has no raster.
func (s *Session) sideRegion(r *raster.Raster, renderErr error, manual *image.Rectangle) (*detector.Region, error) {
	if renderErr != nil {
		return nil, renderErr
	}
	if r == nil {
		return nil, nil
	}
	if manual != nil {
		region, err := detector.Manual(*manual, r.Bounds())
		if err != nil {
			return nil, err
		}
		return &region, nil
	}
	region := detector.Detect(r, s.cfg.Detector)
	return &region, nil
}

// renderSide renders pageIndex of a side, or (nil, nil) when the side is
// absent or the page beyond its count.
func renderSide(src source.Source, pageIndex, dpi int) (*raster.Raster, error) {
	if src == nil || pageIndex >= src.PageCount() {
		return nil, nil
	}
	r, err := src.RenderPage(pageIndex, dpi)
	if err != nil {
		return nil, fmt.Errorf("render page %d of %s: %w", pageIndex, src.Name(), err)
	}
	return r, nil
}

// Result returns the stored comparison result for a page, if any.
func (s *Session) Result(pairIndex, pageIndex int) (PageResult, bool, error) {
	pair, err := s.pair(pairIndex)
	if err != nil {
		return PageResult{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := pair.results[pageIndex]
	if !ok {
		return PageResult{}, false, nil
	}
	return *r, true, nil
}
