package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"routeguide/internal/app/ports"
	"routeguide/internal/app/routedata"
	"routeguide/internal/domain/route"

	"github.com/google/go-cmp/cmp"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routeguide.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_SetGetUpsert(t *testing.T) {
	s, _ := openTempStore(t)
	ctx := context.Background()
	if err := s.Set(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := s.Set(ctx, map[string]string{"b": "3"}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := s.Get(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"a": "1", "b": "3"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_RoutePersistsAcrossReopen(t *testing.T) {
	s, path := openTempStore(t)
	ctx := context.Background()
	want := route.StoredRoute{Encoding: "2-2_2-0_4-0", Origin: route.Coordinate{X: 2, Y: 2}}
	if err := (routedata.Facade{Store: s}).SaveRoute(ctx, want); err != nil {
		t.Fatalf("SaveRoute error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()
	got, err := (routedata.Facade{Store: reopened}).GetRoute(ctx)
	if err != nil {
		t.Fatalf("GetRoute error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

var _ ports.KeyValueStore = (*Store)(nil)
