// Package reconciler merges freshly discovered validators with a previously
// persisted dataset, geolocating only the validators that still need it.
//
// Lookups run one at a time. Each run is bounded by a Budget of lookup
// attempts and every attempt after the first waits on a Pacer, keeping the
// run under the lookup service's free-tier request rate.
package reconciler

import (
	"context"
	"fmt"

	"github.com/agentstation/utc"

	"github.com/agentstation/geomap/pkg/errors"
	"github.com/agentstation/geomap/pkg/geolocation"
	"github.com/agentstation/geomap/pkg/logging"
	"github.com/agentstation/geomap/pkg/validators"
)

// Reconciler produces one record per candidate from prior records and fresh
// lookups.
type Reconciler struct {
	locator geolocation.Locator
	pacer   Pacer
}

// New creates a reconciler that resolves addresses with locator.
func New(locator geolocation.Locator, opts ...Option) (*Reconciler, error) {
	if locator == nil {
		return nil, errors.NewValidationError("locator", nil, "cannot be nil")
	}

	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	pacer := o.pacer
	if pacer == nil {
		pacer = NewPacer(o.delay)
	}

	return &Reconciler{
		locator: locator,
		pacer:   pacer,
	}, nil
}

// Reconcile walks candidates in order. A candidate whose prior record is
// located is carried over untouched. Otherwise, while budget remains, its
// address is looked up and the record is built from the outcome. Once the
// budget is spent the remaining candidates are emitted without a location
// and are picked up by a later run.
//
// Prior records whose node is not a candidate are dropped. A nil budget is
// unlimited. Reconcile only fails when ctx is done.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []validators.Candidate, prior map[string]validators.Record, budget *Budget) (*Result, error) {
	if budget == nil {
		budget = Unlimited()
	}
	logger := logging.FromContext(ctx)

	result := &Result{
		Records:   make([]validators.Record, 0, len(candidates)),
		StartedAt: utc.Now(),
	}

	seen := make(map[string]struct{}, len(candidates))
	announced := false

	for _, c := range candidates {
		seen[c.NodeIdentity] = struct{}{}

		if rec, ok := prior[c.NodeIdentity]; ok && rec.Located() {
			result.Records = append(result.Records, rec)
			result.Existing++
			continue
		}

		if budget.Exhausted() {
			if !announced {
				logger.Info().
					Int("budget", budget.Limit()).
					Msg("Rate limit reached, skipping remaining new validators")
				announced = true
			}
			result.Records = append(result.Records, validators.Bare(c))
			result.Deferred++
			continue
		}

		if err := r.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting to geolocate %s: %w", c.Address, err)
		}

		logger.Debug().
			Str("node", c.NodeIdentity).
			Str("ip", c.Address).
			Msg("Geolocating")

		loc, found := r.locate(ctx, c.Address)
		budget.Spend()
		result.Calls++

		if found {
			result.Records = append(result.Records, validators.Merge(c, loc))
			result.Found++
		} else {
			result.Records = append(result.Records, validators.Bare(c))
			result.Missed++
		}
	}

	for node := range prior {
		if _, ok := seen[node]; !ok {
			result.Dropped++
		}
	}

	result.FinishedAt = utc.Now()
	return result, nil
}

// locate calls the locator, treating a panic as a miss.
func (r *Reconciler) locate(ctx context.Context, address string) (loc *validators.Location, found bool) {
	defer func() {
		if p := recover(); p != nil {
			logging.FromContext(ctx).Error().
				Str("ip", address).
				Interface("panic", p).
				Msg("Recovered from panic while geolocating")
			loc, found = nil, false
		}
	}()

	loc, found = r.locator.Locate(ctx, address)
	if found && loc == nil {
		return nil, false
	}
	return loc, found
}
