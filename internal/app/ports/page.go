package ports

import (
	"context"

	"routeguide/internal/domain/route"
)

// PageDataSource returns the host page's global data blob as JSON.
type PageDataSource interface {
	PageData(ctx context.Context) ([]byte, error)
}

// PositionRegion exposes the position-bearing region of a page. present is false
// until the region first appears.
type PositionRegion interface {
	PositionText(ctx context.Context, pageID string) (text string, present bool, err error)
	OnRegionChanged(pageID string, fn func()) (cancel func())
}

type Highlight struct {
	PageID    string             `json:"page"`
	SessionID string             `json:"session_id"`
	State     route.TrackerState `json:"state"`
}

// HighlightSink shows the next movement on a page. ClearHighlight withdraws the
// one delivered by sessionID once there is no next movement.
type HighlightSink interface {
	Highlight(ctx context.Context, h Highlight) error
	ClearHighlight(ctx context.Context, pageID, sessionID string) error
}
