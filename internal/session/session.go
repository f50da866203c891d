// Package session owns the comparison state for one review run: the matched
// pairs, their per-page comparison results and the reviewer decisions. The
// session is an explicit, caller-owned object; nothing here lives in package
// globals.
package session

import (
	"fmt"
	"sync"

	"github.com/ivlev/proofcheck/internal/detector"
	"github.com/ivlev/proofcheck/internal/matcher"
	"github.com/ivlev/proofcheck/internal/scorer"
	"github.com/ivlev/proofcheck/internal/source"
	"github.com/ivlev/proofcheck/internal/validate"
)

// Config carries everything a session needs to render, detect and score.
type Config struct {
	Detector detector.Config
	Scorer   scorer.Config
	// DPI used when rendering PDF pages.
	DPI int
	// Threshold is the similarity percentage a page must reach for
	// auto-approval.
	Threshold float64
	// Workers bounds concurrent page computations in batch runs.
	Workers int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Detector:  detector.DefaultConfig(),
		Scorer:    scorer.DefaultConfig(),
		DPI:       150,
		Threshold: 85,
		Workers:   4,
	}
}

// Validate rejects malformed configuration before any processing begins.
func (c Config) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	if err := c.Scorer.Validate(); err != nil {
		return err
	}
	if c.DPI < 36 || c.DPI > 1200 {
		return fmt.Errorf("session: dpi %d out of [36,1200]", c.DPI)
	}
	if c.Threshold < 0 || c.Threshold > 100 || c.Threshold != c.Threshold {
		return fmt.Errorf("session: threshold %v out of [0,100]", c.Threshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("session: workers %d must be at least 1", c.Workers)
	}
	return nil
}

// PageResult is one page's comparison outcome. It is replaced wholesale on
// every recomputation, never partially mutated.
type PageResult struct {
	// Score is the 0-100 similarity, or nil when not computable.
	Score *float64
	// Reference and Proof are the regions actually compared. Nil for an
	// absent side.
	Reference *detector.Region
	Proof     *detector.Region
	// Confidence is the lower of the two region confidences; Method the
	// method of that lower-confidence side.
	Confidence float64
	Method     detector.Method
	// Err records why the score is unavailable, page-locally.
	Err error
}

// Pair is the unit of comparison: a reference document and/or a proof
// document sharing a code. All mutation goes through Session methods.
type Pair struct {
	code      string
	reference source.Source // nil when the side is absent
	proof     source.Source

	pages       int
	results     map[int]*PageResult
	validations map[int]validate.PageValidation
}

func (p *Pair) Code() string { return p.code }
func (p *Pair) Pages() int   { return p.pages }

// Session is the caller-owned comparison state.
type Session struct {
	cfg Config

	mu    sync.RWMutex
	pairs []*Pair

	// inflight serializes computations per (pair, page) slot so that two
	// recomputations never race on the same result; the one finishing last
	// wins, which is well-defined under serialization.
	inflightMu sync.Mutex
	inflight   map[[2]int]*sync.Mutex
}

// New creates an empty session. The configuration is validated eagerly.
func New(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		cfg:      cfg,
		inflight: make(map[[2]int]*sync.Mutex),
	}, nil
}

// BuildPairs matches the two source collections by filename code and replaces
// the session's pair list. Matching mirrors matcher.Match: references in
// order take the first unconsumed proof with an equal code, leftovers become
// singleton pairs, first match wins for duplicate codes.
func (s *Session) BuildPairs(references, proofs []source.Source) int {
	consumed := make([]bool, len(proofs))
	pairs := make([]*Pair, 0, len(references)+len(proofs))

	for _, ref := range references {
		code := matcher.Code(ref.Name())
		pair := &Pair{code: code, reference: ref}
		for i, proof := range proofs {
			if consumed[i] {
				continue
			}
			if matcher.Code(proof.Name()) == code {
				pair.proof = proof
				consumed[i] = true
				break
			}
		}
		pairs = append(pairs, pair)
	}
	for i, proof := range proofs {
		if !consumed[i] {
			pairs = append(pairs, &Pair{code: matcher.Code(proof.Name()), proof: proof})
		}
	}

	for _, p := range pairs {
		p.pages = pageSpan(p.reference, p.proof)
		p.results = make(map[int]*PageResult)
		p.validations = make(map[int]validate.PageValidation, p.pages)
		for i := 0; i < p.pages; i++ {
			p.validations[i] = validate.PageValidation{Status: validate.PagePending}
		}
	}

	s.mu.Lock()
	s.pairs = pairs
	s.mu.Unlock()
	return len(pairs)
}

// pageSpan is max(pagesOf(reference), pagesOf(proof)), an absent side
// counting as one page.
func pageSpan(reference, proof source.Source) int {
	refPages, proofPages := 1, 1
	if reference != nil {
		refPages = reference.PageCount()
	}
	if proof != nil {
		proofPages = proof.PageCount()
	}
	if refPages < 1 {
		refPages = 1
	}
	if proofPages < 1 {
		proofPages = 1
	}
	if refPages > proofPages {
		return refPages
	}
	return proofPages
}

// PairCount returns the number of pairs in the session.
func (s *Session) PairCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pairs)
}

func (s *Session) pair(index int) (*Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.pairs) {
		return nil, fmt.Errorf("session: pair %d out of range [0,%d)", index, len(s.pairs))
	}
	return s.pairs[index], nil
}

// Close releases every document handle owned by the session's pairs.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	seen := make(map[source.Source]bool)
	for _, p := range s.pairs {
		for _, src := range []source.Source{p.reference, p.proof} {
			if src == nil || seen[src] {
				continue
			}
			seen[src] = true
			if err := src.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
