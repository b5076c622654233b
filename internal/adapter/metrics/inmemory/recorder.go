package inmemory

import (
	"sync"

	"routeguide/internal/domain/route"
)

type Snapshot struct {
	ImportTotal      uint64            `json:"import_total"`
	ImportFailure    uint64            `json:"import_failure"`
	EvaluationTotal  uint64            `json:"evaluation_total"`
	OffRouteOrEnd    uint64            `json:"off_route_or_end"`
	PositionMiss     uint64            `json:"position_miss"`
	HighlightFailure uint64            `json:"highlight_failure"`
	ByDirection      map[string]uint64 `json:"by_direction"`
}

type Recorder struct {
	mu               sync.Mutex
	imports          uint64
	importFailures   uint64
	evaluations      uint64
	offRouteOrEnd    uint64
	positionMisses   uint64
	highlightFailure uint64
	byDirection      map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byDirection: map[string]uint64{},
	}
}

func (r *Recorder) RecordImport(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports++
	if !ok {
		r.importFailures++
	}
}

func (r *Recorder) RecordEvaluation(state route.TrackerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluations++
	r.byDirection[string(state.Direction)]++
	if state.Direction == route.DirectionNone {
		r.offRouteOrEnd++
	}
}

func (r *Recorder) RecordPositionMiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positionMisses++
}

func (r *Recorder) RecordHighlightFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlightFailure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ImportTotal:      r.imports,
		ImportFailure:    r.importFailures,
		EvaluationTotal:  r.evaluations,
		OffRouteOrEnd:    r.offRouteOrEnd,
		PositionMiss:     r.positionMisses,
		HighlightFailure: r.highlightFailure,
		ByDirection:      make(map[string]uint64, len(r.byDirection)),
	}
	for k, v := range r.byDirection {
		out.ByDirection[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
