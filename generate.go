package geomap

import (
	"context"
	"fmt"

	"github.com/agentstation/geomap/pkg/logging"
	"github.com/agentstation/geomap/pkg/reconciler"
)

// Result is the outcome of one Generate run
type Result struct {
	*reconciler.Result

	// Path is where the dataset was written
	Path string

	// Candidates is the number of validators listed by the cluster
	Candidates int
}

// Added returns the number of validators located by this run
func (r *Result) Added() int {
	return r.Found
}

// Total returns the number of records written
func (r *Result) Total() int {
	return len(r.Records)
}

// Generate lists the cluster's validators, merges them with the stored
// dataset, geolocates what is still missing within the configured budget
// and overwrites the dataset with the result.
//
// A failure to list validators aborts the run before anything is written.
// Failed lookups do not: those validators are stored without a location
// and retried by the next run.
func (g *geomap) Generate(ctx context.Context) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithOperation(ctx, "generate")
	logger := logging.FromContext(ctx)

	// Step 1: List candidates. Fatal on failure.
	candidates, err := g.directory.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing validators: %w", err)
	}
	logger.Info().Int("validators", len(candidates)).Msg("Found validators with IPs")

	// Step 2: Load the prior dataset, starting fresh when it cannot be read
	prior := g.store.Load(ctx)

	// Step 3: Reconcile within this run's budget
	rec, err := g.reconciler.Reconcile(ctx, candidates, prior, reconciler.NewBudget(g.config.budget))
	if err != nil {
		return nil, err
	}

	// Step 4: Persist
	if err := g.store.Save(ctx, rec.Records); err != nil {
		return nil, err
	}

	g.trigger(prior, rec.Records)

	result := &Result{
		Result:     rec,
		Path:       g.store.Path(),
		Candidates: len(candidates),
	}

	logger.Info().
		Int("added", result.Added()).
		Int("total", result.Total()).
		Int("existing", rec.Existing).
		Int("missed", rec.Missed).
		Int("deferred", rec.Deferred).
		Int("dropped", rec.Dropped).
		Int("calls", rec.Calls).
		Dur("duration", rec.Duration()).
		Str("path", result.Path).
		Msgf("Added %d new locations. Total: %d", result.Added(), result.Total())

	return result, nil
}
