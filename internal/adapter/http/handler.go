package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"routeguide/internal/app/importroute"
	"routeguide/internal/app/ports"
	"routeguide/internal/app/routedata"
	"routeguide/internal/app/selection"
	"routeguide/internal/app/tracking"
	"routeguide/internal/domain/route"
	"routeguide/internal/platform/wait"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const defaultWaitTimeout = 30 * time.Second

var ErrMissingPageID = errors.New("missing page id")

type routeReader interface {
	GetRoute(ctx context.Context) (route.StoredRoute, error)
}

type regionFeed interface {
	Publish(pageID, text string) bool
	Remove(pageID string)
}

type sessionLookup interface {
	Session(pageID string) (*tracking.Session, bool)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	SelectionUC selection.UseCase
	ImportUC    importroute.UseCase
	Routes      routeReader
	Regions     regionFeed
	Sessions    sessionLookup
	KPI         kpiSnapshotProvider
	Decoder     route.Decoder
	// WaitTimeout bounds how long a request may wait for the page to publish its data.
	WaitTimeout time.Duration
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.GET("/expeditions", h.listExpeditions)
	api.GET("/route", h.getRoute)
	api.POST("/route/select", h.selectRoute)

	pages := api.Group("/pages/:page")
	pages.POST("/import", h.importRoute)
	pages.POST("/position", h.publishPosition)
	pages.DELETE("/position", h.removePosition)
	pages.GET("/state", h.state)

	s.GET("/ops/kpi", h.kpi)
	s.GET("/healthz", h.healthz)
}

type selectRequest struct {
	Route string `json:"route"`
	Index *int   `json:"index"`
}

type positionRequest struct {
	Text string `json:"text"`
}

type routeResponse struct {
	Route      string           `json:"route"`
	Origin     route.Coordinate `json:"origin"`
	PathLength int              `json:"path_length"`
}

type positionResponse struct {
	PageID  string             `json:"page"`
	Changed bool               `json:"changed"`
	Session *tracking.Snapshot `json:"session,omitempty"`
}

func (h Handler) listExpeditions(c context.Context, ctx *app.RequestContext) {
	wc, cancel := context.WithTimeout(c, h.waitTimeout())
	defer cancel()

	opts, err := h.SelectionUC.ListExpeditions(wc)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"expeditions": opts})
}

func (h Handler) selectRoute(c context.Context, ctx *app.RequestContext) {
	var body selectRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	wc, cancel := context.WithTimeout(c, h.waitTimeout())
	defer cancel()

	resp, err := h.SelectionUC.Select(wc, selection.SelectRequest{Route: body.Route, Index: body.Index})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) getRoute(c context.Context, ctx *app.RequestContext) {
	stored, err := h.Routes.GetRoute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	path, err := h.Decoder.Decode(stored.Encoding)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, routeResponse{
		Route:      stored.Encoding,
		Origin:     stored.Origin,
		PathLength: len(path),
	})
}

func (h Handler) importRoute(c context.Context, ctx *app.RequestContext) {
	pageID, err := requirePageID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.ImportUC.Execute(c, importroute.Request{PageID: pageID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// publishPosition is the region change signal. Subscribers run before Publish
// returns, so the session snapshot in the response already reflects the new text.
func (h Handler) publishPosition(_ context.Context, ctx *app.RequestContext) {
	pageID, err := requirePageID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body positionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp := positionResponse{PageID: pageID, Changed: h.Regions.Publish(pageID, body.Text)}
	if s, ok := h.sessionFor(pageID); ok {
		snap := s.Snapshot()
		resp.Session = &snap
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) removePosition(_ context.Context, ctx *app.RequestContext) {
	pageID, err := requirePageID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	h.Regions.Remove(pageID)
	ctx.Status(consts.StatusNoContent)
}

func (h Handler) state(_ context.Context, ctx *app.RequestContext) {
	pageID, err := requirePageID(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	s, ok := h.sessionFor(pageID)
	if !ok {
		writeErrorBody(ctx, consts.StatusNotFound, "session_not_found", "no route imported on page")
		return
	}
	ctx.JSON(consts.StatusOK, s.Snapshot())
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func (h Handler) sessionFor(pageID string) (*tracking.Session, bool) {
	if h.Sessions == nil {
		return nil, false
	}
	return h.Sessions.Session(pageID)
}

func (h Handler) waitTimeout() time.Duration {
	if h.WaitTimeout > 0 {
		return h.WaitTimeout
	}
	return defaultWaitTimeout
}

func requirePageID(ctx *app.RequestContext) (string, error) {
	pageID := strings.TrimSpace(ctx.Param("page"))
	if pageID == "" {
		return "", ErrMissingPageID
	}
	return pageID, nil
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPageID):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_page_id", err.Error())
	case errors.Is(err, route.ErrMalformedEncoding):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "malformed_route", err.Error())
	case errors.Is(err, routedata.ErrInvalidStoredValue):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_stored_route", err.Error())
	case errors.Is(err, selection.ErrUnknownExpedition):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_expedition", err.Error())
	case errors.Is(err, selection.ErrInvalidRequest),
		errors.Is(err, importroute.ErrInvalidRequest),
		errors.Is(err, tracking.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, routedata.ErrInvalidPageData):
		writeErrorBody(ctx, consts.StatusBadGateway, "invalid_page_data", err.Error())
	case errors.Is(err, wait.ErrAttemptsExhausted),
		errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusGatewayTimeout, "page_data_not_ready", "page data not ready")
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
