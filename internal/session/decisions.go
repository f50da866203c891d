package session

import (
	"fmt"

	"github.com/ivlev/proofcheck/internal/validate"
)

// RecordDecision applies one reviewer decision to one page. The pair verdict
// is derived, never stored, so it can't go stale.
func (s *Session) RecordDecision(pairIndex, pageIndex int, status validate.PageStatus, comment string) error {
	if !status.Valid() {
		return fmt.Errorf("session: invalid page status %d", int(status))
	}
	pair, err := s.pair(pairIndex)
	if err != nil {
		return err
	}
	if pageIndex < 0 || pageIndex >= pair.pages {
		return fmt.Errorf("session: page %d out of range [0,%d)", pageIndex, pair.pages)
	}

	s.mu.Lock()
	pair.validations[pageIndex] = validate.PageValidation{Status: status, Comment: comment}
	s.mu.Unlock()
	return nil
}

// AggregateStatus derives the pair verdict from its page decisions.
func (s *Session) AggregateStatus(pairIndex int) (validate.PairStatus, error) {
	pair, err := s.pair(pairIndex)
	if err != nil {
		return validate.PairPending, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return validate.Aggregate(pair.validations, pair.pages), nil
}

// AutoApprove bulk-approves the pages of a pair whose computed score reaches
// the session threshold. It only acts when every page with a computable score
// clears the threshold; pages without a score are never auto-approved, so a
// partially computed pair ends up Partial at best. Returns the number of
// pages approved.
func (s *Session) AutoApprove(pairIndex int) (int, error) {
	pair, err := s.pair(pairIndex)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scored := 0
	for i := 0; i < pair.pages; i++ {
		r, ok := pair.results[i]
		if !ok || r.Score == nil {
			continue
		}
		if *r.Score < s.cfg.Threshold {
			return 0, nil
		}
		scored++
	}
	if scored == 0 {
		return 0, nil
	}

	approved := 0
	for i := 0; i < pair.pages; i++ {
		r, ok := pair.results[i]
		if !ok || r.Score == nil {
			continue
		}
		pair.validations[i] = validate.PageValidation{
			Status:  validate.PageApproved,
			Comment: fmt.Sprintf("auto-approved at %.1f%%", *r.Score),
		}
		approved++
	}
	return approved, nil
}

// Validations returns a copy of a pair's page decision mapping.
func (s *Session) Validations(pairIndex int) (map[int]validate.PageValidation, error) {
	pair, err := s.pair(pairIndex)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]validate.PageValidation, len(pair.validations))
	for k, v := range pair.validations {
		out[k] = v
	}
	return out, nil
}
