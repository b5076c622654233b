package importroute

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"routeguide/internal/app/ports"
	"routeguide/internal/app/tracking"
	"routeguide/internal/domain/route"
	"routeguide/internal/platform/logging"

	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid import request")

type RouteSource interface {
	GetRoute(ctx context.Context) (route.StoredRoute, error)
}

type SessionStarter interface {
	Start(pageID string, path route.Path, origin route.Coordinate) (*tracking.Session, error)
}

type UseCase struct {
	Routes   RouteSource
	Sessions SessionStarter
	Metrics  ports.TrackerMetrics
	Decoder  route.Decoder
	Log      *zap.SugaredLogger
}

type Request struct {
	PageID string
}

type Response struct {
	SessionID  string           `json:"session_id"`
	PageID     string           `json:"page"`
	Origin     route.Coordinate `json:"origin"`
	PathLength int              `json:"path_length"`
	Start      route.Coordinate `json:"start"`
	End        route.Coordinate `json:"end"`
}

// Execute loads the stored route, expands it once and starts tracking it on the page.
// A route that does not decode aborts the import before any session is touched.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	pageID := strings.TrimSpace(req.PageID)
	if pageID == "" {
		return Response{}, ErrInvalidRequest
	}
	stored, err := u.Routes.GetRoute(ctx)
	if err != nil {
		u.recordImport(false)
		return Response{}, fmt.Errorf("load route: %w", err)
	}
	path, err := u.Decoder.Decode(stored.Encoding)
	if err != nil {
		u.recordImport(false)
		u.logger().Warnw("route import failed", "page", pageID, "error", err)
		return Response{}, err
	}
	session, err := u.Sessions.Start(pageID, path, stored.Origin)
	if err != nil {
		u.recordImport(false)
		return Response{}, err
	}
	u.recordImport(true)
	end, _ := path.Last()
	u.logger().Infow("route imported", "page", pageID, "session", session.ID(), "path_length", len(path))
	return Response{
		SessionID:  session.ID(),
		PageID:     pageID,
		Origin:     stored.Origin,
		PathLength: len(path),
		Start:      path[0],
		End:        end,
	}, nil
}

func (u UseCase) recordImport(ok bool) {
	if u.Metrics != nil {
		u.Metrics.RecordImport(ok)
	}
}

func (u UseCase) logger() *zap.SugaredLogger {
	if u.Log == nil {
		return logging.Nop()
	}
	return u.Log
}
