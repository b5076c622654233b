package ports

import "routeguide/internal/domain/route"

type TrackerMetrics interface {
	RecordImport(ok bool)
	RecordEvaluation(state route.TrackerState)
	RecordPositionMiss()
	RecordHighlightFailure()
}
