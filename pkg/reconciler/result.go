package reconciler

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/geomap/pkg/validators"
)

// Result is the outcome of one reconciliation.
type Result struct {
	// Records has exactly one entry per candidate, in candidate order.
	Records []validators.Record

	Existing int // prior located records reused
	Found    int // lookups that returned a location
	Missed   int // lookups that returned nothing
	Deferred int // candidates skipped because the budget ran out
	Calls    int // lookups attempted in this reconciliation
	Dropped  int // prior records whose node is no longer a candidate

	StartedAt  utc.Time
	FinishedAt utc.Time
}

// Duration returns how long the reconciliation took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// Located returns the number of output records carrying a location.
func (r *Result) Located() int {
	return r.Existing + r.Found
}

// Pending returns the number of output records without a location.
func (r *Result) Pending() int {
	return len(r.Records) - r.Located()
}
