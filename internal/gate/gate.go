// Package gate provides admission control for batch comparison runs. A gate
// is consulted once per comparison unit; a denial is a hard stop for the
// remainder of the batch, never a silent skip.
package gate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate approves or denies permission to perform one comparison unit.
type Gate interface {
	TryAdmit() bool
}

// Unlimited admits everything.
type Unlimited struct{}

func (Unlimited) TryAdmit() bool { return true }

// Tier is a subscription level with a daily comparison allowance.
type Tier string

const (
	TierAnonymous  Tier = "anonymous"
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Daily comparison limits per tier.
var tierLimits = map[Tier]int{
	TierAnonymous:  1,
	TierFree:       5,
	TierPro:        100,
	TierEnterprise: 999999,
}

// Limit returns the daily allowance for a tier. Unknown tiers fall back to
// the free allowance.
func (t Tier) Limit() int {
	if limit, ok := tierLimits[t]; ok {
		return limit
	}
	return tierLimits[TierFree]
}

// DailyQuota admits up to a tier's limit of units per UTC day, resetting at
// midnight. Safe for concurrent use.
type DailyQuota struct {
	mu    sync.Mutex
	limit int
	used  int
	day   string

	now func() time.Time // injectable for tests
}

func NewDailyQuota(tier Tier) *DailyQuota {
	return &DailyQuota{limit: tier.Limit(), now: time.Now}
}

func (q *DailyQuota) TryAdmit() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	today := q.now().UTC().Format("2006-01-02")
	if q.day != today {
		q.day = today
		q.used = 0
	}
	if q.used >= q.limit {
		return false
	}
	q.used++
	return true
}

// Remaining reports how many units are left today.
func (q *DailyQuota) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.day != q.now().UTC().Format("2006-01-02") {
		return q.limit
	}
	if q.used >= q.limit {
		return 0
	}
	return q.limit - q.used
}

// ResetsAt returns the next UTC midnight.
func (q *DailyQuota) ResetsAt() time.Time {
	now := q.now().UTC()
	return now.Truncate(24 * time.Hour).Add(24 * time.Hour)
}

// RateGate smooths batch admission with a token bucket. Unlike DailyQuota it
// bounds the rate, not the total.
type RateGate struct {
	limiter *rate.Limiter
}

func NewRateGate(perSecond float64, burst int) *RateGate {
	return &RateGate{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (g *RateGate) TryAdmit() bool { return g.limiter.Allow() }
