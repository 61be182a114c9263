package reconciler

import "github.com/agentstation/geomap/pkg/constants"

// Budget tracks lookups spent against a per-run limit. A negative limit is
// unlimited. A Budget is not safe for concurrent use.
type Budget struct {
	limit int
	used  int
}

// NewBudget returns a budget allowing limit lookups.
func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Unlimited returns a budget without a cap.
func Unlimited() *Budget {
	return NewBudget(constants.UnlimitedBudget)
}

// Limit returns the configured limit.
func (b *Budget) Limit() int {
	return b.limit
}

// Used returns the number of lookups spent.
func (b *Budget) Used() int {
	return b.used
}

// Exhausted reports whether no lookups remain.
func (b *Budget) Exhausted() bool {
	return b.limit >= 0 && b.used >= b.limit
}

// Spend records one lookup, successful or not.
func (b *Budget) Spend() {
	b.used++
}
