package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"routeguide/internal/app/routedata"
	"routeguide/internal/domain/route"
	"routeguide/internal/platform/logging"
	"routeguide/internal/platform/wait"

	"go.uber.org/zap"
)

var (
	ErrInvalidRequest    = errors.New("invalid selection request")
	ErrUnknownExpedition = errors.New("unknown expedition")
)

type PageDataReader interface {
	PageData(ctx context.Context) (routedata.PageData, error)
}

type RouteSaver interface {
	SaveRoute(ctx context.Context, r route.StoredRoute) error
}

type UseCase struct {
	Pages           PageDataReader
	Routes          RouteSaver
	PollInterval    time.Duration
	PollMaxAttempts uint
	Decoder         route.Decoder
	Log             *zap.SugaredLogger
}

type ExpeditionOption struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Label string `json:"label"`
	Route string `json:"route"`
}

type SelectRequest struct {
	Route string
	Index *int
}

type SelectResponse struct {
	Route      string           `json:"route"`
	Origin     route.Coordinate `json:"origin"`
	PathLength int              `json:"path_length"`
}

// ListExpeditions waits until the page has published its expeditions and town
// coordinates, then returns them newest first.
func (u UseCase) ListExpeditions(ctx context.Context) ([]ExpeditionOption, error) {
	data, err := u.waitReady(ctx)
	if err != nil {
		return nil, err
	}
	return options(data), nil
}

// Select stores the chosen route with the page's current town as origin. The route
// is decoded first so a malformed or oversized one is never persisted, and it is
// stored in canonical form without empty segments.
func (u UseCase) Select(ctx context.Context, req SelectRequest) (SelectResponse, error) {
	if req.Index == nil && strings.TrimSpace(req.Route) == "" {
		return SelectResponse{}, ErrInvalidRequest
	}
	data, err := u.waitReady(ctx)
	if err != nil {
		return SelectResponse{}, err
	}

	encoding := strings.TrimSpace(req.Route)
	if req.Index != nil {
		opts := options(data)
		if *req.Index < 0 || *req.Index >= len(opts) {
			return SelectResponse{}, fmt.Errorf("%w: index %d", ErrUnknownExpedition, *req.Index)
		}
		encoding = opts[*req.Index].Route
	}
	path, err := u.Decoder.Decode(encoding)
	if err != nil {
		return SelectResponse{}, err
	}
	anchors, err := route.ParseAnchors(encoding)
	if err != nil {
		return SelectResponse{}, err
	}
	encoding = route.Encode(anchors)

	stored := route.StoredRoute{Encoding: encoding, Origin: data.Town}
	if err := u.Routes.SaveRoute(ctx, stored); err != nil {
		return SelectResponse{}, fmt.Errorf("save route: %w", err)
	}
	u.logger().Infow("expedition selected", "origin", data.Town.String(), "path_length", len(path))
	return SelectResponse{Route: encoding, Origin: data.Town, PathLength: len(path)}, nil
}

func (u UseCase) waitReady(ctx context.Context) (routedata.PageData, error) {
	interval := u.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	return wait.Until(ctx, wait.Options{
		Interval:    interval,
		MaxAttempts: u.PollMaxAttempts,
		Notify: func(err error) {
			u.logger().Warnw("failed to retrieve page data", "error", err)
		},
	}, func(ctx context.Context) (routedata.PageData, bool, error) {
		data, err := u.Pages.PageData(ctx)
		if err != nil {
			return routedata.PageData{}, false, err
		}
		return data, data.Ready, nil
	})
}

func options(data routedata.PageData) []ExpeditionOption {
	out := make([]ExpeditionOption, 0, len(data.Expeditions))
	for i := len(data.Expeditions) - 1; i >= 0; i-- {
		e := data.Expeditions[i]
		out = append(out, ExpeditionOption{
			Index: len(out),
			Key:   e.Key,
			Label: fmt.Sprintf("%s - %s", e.Day, e.Name),
			Route: e.Route,
		})
	}
	return out
}

func (u UseCase) logger() *zap.SugaredLogger {
	if u.Log == nil {
		return logging.Nop()
	}
	return u.Log
}
