package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/proofcheck/internal/gate"
)

// ErrAdmissionDenied marks a batch stopped by the admission gate.
var ErrAdmissionDenied = errors.New("session: admission denied")

// BatchResult reports how far a batch run got.
type BatchResult struct {
	// Completed is the number of pairs whose every page was computed.
	Completed int
	// Total is the number of pairs the batch set out to compute.
	Total int
}

// ComputeBatch computes every page of every pair, bounded by the configured
// worker count. The gate is consulted once per pair before the pair is
// scheduled; a denial is a hard stop — no further pairs start, in-flight
// pairs finish, and the error wraps ErrAdmissionDenied so the caller can
// report how many units completed.
//
// Cancellation is best-effort and cannot corrupt state: every page
// computation is an idempotent full replacement, so an abandoned batch just
// leaves some pages without a result, which is a valid pending-score state.
func (s *Session) ComputeBatch(ctx context.Context, admission gate.Gate) (BatchResult, error) {
	if admission == nil {
		admission = gate.Unlimited{}
	}

	s.mu.RLock()
	total := len(s.pairs)
	s.mu.RUnlock()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.Workers)

	var completed atomic.Int64
	denied := false

	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		if !admission.TryAdmit() {
			denied = true
			break
		}
		pairIndex := i
		eg.Go(func() error {
			pair, err := s.pair(pairIndex)
			if err != nil {
				return err
			}
			for page := 0; page < pair.pages; page++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				// Page-level failures live on the result, not here.
				if _, err := s.ComputePage(ctx, pairIndex, page, Overrides{}); err != nil {
					return err
				}
			}
			completed.Add(1)
			return nil
		})
	}

	err := eg.Wait()
	result := BatchResult{Completed: int(completed.Load()), Total: total}

	if denied {
		return result, fmt.Errorf("%w after %d/%d pairs", ErrAdmissionDenied, result.Completed, total)
	}
	return result, err
}
