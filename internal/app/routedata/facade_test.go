package routedata

import (
	"context"
	"errors"
	"testing"

	"routeguide/internal/app/ports"
	"routeguide/internal/domain/route"

	"github.com/google/go-cmp/cmp"
)

func TestFacade_SaveThenGetRoute(t *testing.T) {
	store := &fakeStore{values: map[string]string{}}
	f := Facade{Store: store}

	want := route.StoredRoute{Encoding: "0-0_3-0", Origin: route.Coordinate{X: 12, Y: -4}}
	if err := f.SaveRoute(context.Background(), want); err != nil {
		t.Fatalf("SaveRoute error: %v", err)
	}
	if got := store.values[KeyTownY]; got != "-4" {
		t.Fatalf("expected fm_towny=-4, got %q", got)
	}
	got, err := f.GetRoute(context.Background())
	if err != nil {
		t.Fatalf("GetRoute error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("route mismatch (-want +got):\n%s", diff)
	}
}

func TestFacade_GetRouteMissingKeys(t *testing.T) {
	f := Facade{Store: &fakeStore{values: map[string]string{KeyTownX: "1", KeyTownY: "2"}}}
	if _, err := f.GetRoute(context.Background()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing route, got %v", err)
	}

	f = Facade{Store: &fakeStore{values: map[string]string{KeyRoute: "1-1", KeyTownX: "1"}}}
	if _, err := f.GetRoute(context.Background()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing town y, got %v", err)
	}
}

func TestFacade_GetRouteInvalidOrigin(t *testing.T) {
	f := Facade{Store: &fakeStore{values: map[string]string{KeyRoute: "1-1", KeyTownX: "east", KeyTownY: "2"}}}
	if _, err := f.GetRoute(context.Background()); !errors.Is(err, ErrInvalidStoredValue) {
		t.Fatalf("expected ErrInvalidStoredValue, got %v", err)
	}
}

func TestFacade_PropagatesBackendError(t *testing.T) {
	wantErr := errors.New("storage unavailable")
	f := Facade{Store: &fakeStore{err: wantErr}}
	if _, err := f.GetRoute(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err := f.SaveRoute(context.Background(), route.StoredRoute{}); !errors.Is(err, wantErr) {
		t.Fatalf("expected backend error on save, got %v", err)
	}
}

func TestFacade_PageDataWithoutSource(t *testing.T) {
	if _, err := (Facade{}).PageData(context.Background()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeStore struct {
	values map[string]string
	err    error
}

func (s *fakeStore) Get(_ context.Context, keys []string) (map[string]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := map[string]string{}
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *fakeStore) Set(_ context.Context, values map[string]string) error {
	if s.err != nil {
		return s.err
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

var _ ports.KeyValueStore = (*fakeStore)(nil)
