package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		pages map[int]PageValidation
		total int
		want  PairStatus
	}{
		{
			name:  "no decisions",
			pages: map[int]PageValidation{0: {Status: PagePending}, 1: {Status: PagePending}},
			total: 2,
			want:  PairPending,
		},
		{
			name:  "empty map",
			pages: nil,
			total: 3,
			want:  PairPending,
		},
		{
			name:  "some approved",
			pages: map[int]PageValidation{0: {Status: PageApproved}, 1: {Status: PagePending}},
			total: 2,
			want:  PairPartial,
		},
		{
			name:  "all approved",
			pages: map[int]PageValidation{0: {Status: PageApproved}, 1: {Status: PageApproved}},
			total: 2,
			want:  PairApproved,
		},
		{
			name:  "rejection dominates at full coverage",
			pages: map[int]PageValidation{0: {Status: PageApproved}, 1: {Status: PageRejected}},
			total: 2,
			want:  PairRejected,
		},
		{
			name:  "rejected but pages still pending",
			pages: map[int]PageValidation{0: {Status: PageRejected}, 1: {Status: PagePending}},
			total: 2,
			want:  PairPartial,
		},
		{
			name:  "single page approved",
			pages: map[int]PageValidation{0: {Status: PageApproved}},
			total: 1,
			want:  PairApproved,
		},
		{
			name:  "single page rejected",
			pages: map[int]PageValidation{0: {Status: PageRejected, Comment: "color shift"}},
			total: 1,
			want:  PairRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.pages, tt.total))
		})
	}
}

// Recomputing over the same decisions must give the same verdict no matter
// what order they were recorded in.
func TestAggregateIsPure(t *testing.T) {
	pages := map[int]PageValidation{
		0: {Status: PageApproved},
		1: {Status: PageRejected},
		2: {Status: PageApproved},
	}
	first := Aggregate(pages, 3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Aggregate(pages, 3))
	}
	assert.Equal(t, PairRejected, first)
}

func TestPageStatusValid(t *testing.T) {
	assert.True(t, PagePending.Valid())
	assert.True(t, PageApproved.Valid())
	assert.True(t, PageRejected.Valid())
	assert.False(t, PageStatus(42).Valid())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "approved", PageApproved.String())
	assert.Equal(t, "rejected", PairRejected.String())
	assert.Equal(t, "partial", PairPartial.String())
	assert.Equal(t, "pending", PairPending.String())
}
