package geomap

import (
	"sync"

	"github.com/agentstation/geomap/pkg/validators"
)

// Hook function types for dataset events
type (
	// RecordLocatedHook is called when a validator gains a location in a run
	RecordLocatedHook func(record validators.Record)

	// RecordDroppedHook is called when a previously stored validator is no
	// longer a candidate
	RecordDroppedHook func(record validators.Record)
)

// hooks manages event callbacks for dataset changes
type hooks struct {
	mu              sync.RWMutex
	onRecordLocated []RecordLocatedHook
	onRecordDropped []RecordDroppedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRecordLocated registers a callback for newly located records
func (h *hooks) OnRecordLocated(fn RecordLocatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordLocated = append(h.onRecordLocated, fn)
}

// OnRecordDropped registers a callback for dropped records
func (h *hooks) OnRecordDropped(fn RecordDroppedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordDropped = append(h.onRecordDropped, fn)
}

// trigger compares the prior dataset with the reconciled records
func (h *hooks) trigger(prior map[string]validators.Record, records []validators.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.onRecordLocated) == 0 && len(h.onRecordDropped) == 0 {
		return
	}

	current := make(map[string]struct{}, len(records))
	for _, rec := range records {
		current[rec.NodeIdentity] = struct{}{}
		if !rec.Located() {
			continue
		}
		if old, ok := prior[rec.NodeIdentity]; ok && old.Located() {
			continue
		}
		for _, hook := range h.onRecordLocated {
			hook(rec)
		}
	}

	for node, old := range prior {
		if _, ok := current[node]; ok {
			continue
		}
		for _, hook := range h.onRecordDropped {
			hook(old)
		}
	}
}
