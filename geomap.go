// Package geomap maintains a dataset of cluster validators and their
// approximate geographic locations.
//
// A Geomap lists the validators of a cluster from its JSON-RPC endpoint,
// merges them with the dataset written by a previous run and geolocates the
// validators that are still missing a location, within a per-run budget of
// lookup calls. Repeated runs fill in the dataset incrementally.
//
//	gm, err := geomap.New(geomap.WithBudget(45))
//	if err != nil {
//		return err
//	}
//	result, err := gm.Generate(ctx)
package geomap

import (
	"context"

	"github.com/agentstation/geomap/internal/transport"
	"github.com/agentstation/geomap/pkg/dataset"
	"github.com/agentstation/geomap/pkg/directory"
	"github.com/agentstation/geomap/pkg/geolocation"
	"github.com/agentstation/geomap/pkg/reconciler"
	"github.com/agentstation/geomap/pkg/validators"
)

// Geomap builds and updates the validator location dataset
type Geomap interface {
	// Generate runs one incremental update of the dataset
	Generate(ctx context.Context) (*Result, error)

	// Records returns the records currently persisted in the dataset
	Records() ([]validators.Record, error)

	// Store returns the dataset store
	Store() *dataset.Store

	// OnRecordLocated registers a callback for validators located by a run
	OnRecordLocated(RecordLocatedHook)

	// OnRecordDropped registers a callback for validators removed by a run
	OnRecordDropped(RecordDroppedHook)
}

// geomap is the internal implementation of the Geomap interface
type geomap struct {
	config     *config
	directory  *directory.Client
	reconciler *reconciler.Reconciler
	store      *dataset.Store

	// Event hooks
	*hooks
}

var _ Geomap = (*geomap)(nil)

// New creates a new Geomap instance with the given options
func New(opts ...Option) (Geomap, error) {
	cfg, err := defaultConfig().apply(opts...)
	if err != nil {
		return nil, err
	}

	rpc := transport.New(
		transport.WithHTTPClient(cfg.httpClient),
		transport.WithAuth(&transport.BearerAuth{}, cfg.rpcToken),
	)
	geo := transport.New(
		transport.WithHTTPClient(cfg.httpClient),
		transport.WithAuth(&transport.QueryAuth{Param: "key"}, cfg.geoKey),
	)

	locator, err := geolocation.New(
		geolocation.WithBaseURL(cfg.geoURL),
		geolocation.WithTransport(geo),
		geolocation.WithCacheSize(cfg.cacheSize),
	)
	if err != nil {
		return nil, err
	}

	return newWithLocator(cfg, rpc, locator)
}

func newWithLocator(cfg *config, rpc *transport.Client, locator geolocation.Locator) (*geomap, error) {
	rec, err := reconciler.New(locator, reconciler.WithDelay(cfg.delay))
	if err != nil {
		return nil, err
	}

	var storeOpts []dataset.Option
	if cfg.formatSet {
		storeOpts = append(storeOpts, dataset.WithFormat(cfg.format))
	}

	return &geomap{
		config: cfg,
		directory: directory.New(
			directory.WithEndpoint(cfg.endpoint),
			directory.WithTransport(rpc),
		),
		reconciler: rec,
		store:      dataset.New(cfg.output, storeOpts...),
		hooks:      newHooks(),
	}, nil
}

// Records returns the records currently persisted in the dataset
func (g *geomap) Records() ([]validators.Record, error) {
	return g.store.Read()
}

// Store returns the dataset store
func (g *geomap) Store() *dataset.Store {
	return g.store
}
