package routedata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"routeguide/internal/app/ports"
	"routeguide/internal/domain/route"
)

// Flat keys shared with the page-side selection UI.
const (
	KeyRoute = "fm_route"
	KeyTownX = "fm_townx"
	KeyTownY = "fm_towny"
)

var ErrInvalidStoredValue = errors.New("invalid stored route value")

type Facade struct {
	Store ports.KeyValueStore
	Pages ports.PageDataSource
}

func (f Facade) GetRoute(ctx context.Context) (route.StoredRoute, error) {
	values, err := f.Store.Get(ctx, []string{KeyRoute, KeyTownX, KeyTownY})
	if err != nil {
		return route.StoredRoute{}, err
	}
	encoding, ok := values[KeyRoute]
	if !ok || strings.TrimSpace(encoding) == "" {
		return route.StoredRoute{}, fmt.Errorf("stored route: %w", ports.ErrNotFound)
	}
	x, err := storedInt(values, KeyTownX)
	if err != nil {
		return route.StoredRoute{}, err
	}
	y, err := storedInt(values, KeyTownY)
	if err != nil {
		return route.StoredRoute{}, err
	}
	return route.StoredRoute{Encoding: encoding, Origin: route.Coordinate{X: x, Y: y}}, nil
}

func (f Facade) SaveRoute(ctx context.Context, r route.StoredRoute) error {
	return f.Store.Set(ctx, map[string]string{
		KeyRoute: r.Encoding,
		KeyTownX: strconv.Itoa(r.Origin.X),
		KeyTownY: strconv.Itoa(r.Origin.Y),
	})
}

func (f Facade) PageData(ctx context.Context) (PageData, error) {
	if f.Pages == nil {
		return PageData{}, fmt.Errorf("page data source: %w", ports.ErrNotFound)
	}
	raw, err := f.Pages.PageData(ctx)
	if err != nil {
		return PageData{}, err
	}
	return ParsePageData(raw)
}

func storedInt(values map[string]string, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("stored %s: %w", key, ports.ErrNotFound)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidStoredValue, key, raw)
	}
	return n, nil
}
