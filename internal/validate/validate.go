// Package validate holds the review decision model: per-page statuses and the
// pure aggregation of page decisions into a pair-level verdict.
package validate

import "fmt"

// PageStatus is a single reviewer decision for one page.
type PageStatus int

const (
	PagePending PageStatus = iota
	PageApproved
	PageRejected
)

func (s PageStatus) String() string {
	switch s {
	case PagePending:
		return "pending"
	case PageApproved:
		return "approved"
	case PageRejected:
		return "rejected"
	default:
		return fmt.Sprintf("page_status(%d)", int(s))
	}
}

// Valid reports whether s is one of the defined decisions.
func (s PageStatus) Valid() bool {
	switch s {
	case PagePending, PageApproved, PageRejected:
		return true
	}
	return false
}

// PairStatus is the derived pair-level verdict.
type PairStatus int

const (
	PairPending PairStatus = iota
	PairPartial
	PairApproved
	PairRejected
)

func (s PairStatus) String() string {
	switch s {
	case PairPending:
		return "pending"
	case PairPartial:
		return "partial"
	case PairApproved:
		return "approved"
	case PairRejected:
		return "rejected"
	default:
		return fmt.Sprintf("pair_status(%d)", int(s))
	}
}

// PageValidation is the decision record for one page of a pair. Created
// Pending and mutated only by explicit reviewer or auto-approve actions.
type PageValidation struct {
	Status  PageStatus `yaml:"status"`
	Comment string     `yaml:"comment,omitempty"`
}

// Aggregate derives the pair verdict from its page decisions. It is a pure
// function: recomputing over the same mapping always yields the same verdict,
// regardless of the order decisions were recorded in.
//
// A single rejected page forces Rejected once every page is decided; anything
// less than full coverage is Partial (or Pending when nothing is decided yet).
func Aggregate(pages map[int]PageValidation, totalPages int) PairStatus {
	validated := 0
	rejected := false
	for _, pv := range pages {
		switch pv.Status {
		case PagePending:
		case PageApproved:
			validated++
		case PageRejected:
			validated++
			rejected = true
		}
	}

	switch {
	case validated == 0:
		return PairPending
	case validated < totalPages:
		return PairPartial
	case rejected:
		return PairRejected
	default:
		return PairApproved
	}
}
