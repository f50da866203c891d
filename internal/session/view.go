package session

import (
	"github.com/ivlev/proofcheck/internal/validate"
)

// PairView is an immutable snapshot of one pair, safe to hand to reporting
// and persistence without holding session locks.
type PairView struct {
	Index int
	Code  string

	ReferenceName string
	ReferenceSize int64
	ProofName     string
	ProofSize     int64

	Pages       int
	Status      validate.PairStatus
	Validations map[int]validate.PageValidation

	// Similarity is the worst computed page score, nil when no page has a
	// score yet. The worst page is what decides whether a proof can print.
	Similarity *float64
	// Comment is the first non-empty page comment, for tabular export.
	Comment string
}

func (v PairView) Matched() bool { return v.ReferenceName != "" && v.ProofName != "" }

// Pairs snapshots every pair in order.
func (s *Session) Pairs() []PairView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]PairView, 0, len(s.pairs))
	for i, p := range s.pairs {
		v := PairView{
			Index:       i,
			Code:        p.code,
			Pages:       p.pages,
			Status:      validate.Aggregate(p.validations, p.pages),
			Validations: make(map[int]validate.PageValidation, len(p.validations)),
		}
		if p.reference != nil {
			v.ReferenceName = p.reference.Name()
			v.ReferenceSize = p.reference.Size()
		}
		if p.proof != nil {
			v.ProofName = p.proof.Name()
			v.ProofSize = p.proof.Size()
		}
		for page := 0; page < p.pages; page++ {
			pv := p.validations[page]
			v.Validations[page] = pv
			if v.Comment == "" && pv.Comment != "" {
				v.Comment = pv.Comment
			}
		}
		for _, r := range p.results {
			if r.Score == nil {
				continue
			}
			if v.Similarity == nil || *r.Score < *v.Similarity {
				score := *r.Score
				v.Similarity = &score
			}
		}
		views = append(views, v)
	}
	return views
}
