package gormrepo

import (
	"context"
	"os"
	"testing"

	"routeguide/internal/adapter/repo/gorm/migrations"
	"routeguide/internal/app/routedata"
	"routeguide/internal/domain/route"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("ROUTEGUIDE_DB_DSN")
	if dsn == "" {
		t.Skip("ROUTEGUIDE_DB_DSN is required for integration test")
	}
	return dsn
}

func TestKVStore_RouteRoundTrip(t *testing.T) {
	dsn := requireDSN(t)
	ctx := context.Background()
	db, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := ApplyMigrations(ctx, db, migrations.FS); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}
	_ = db.Exec("DELETE FROM route_settings WHERE key IN ?", []string{routedata.KeyRoute, routedata.KeyTownX, routedata.KeyTownY}).Error

	facade := routedata.Facade{Store: NewKVStore(db)}
	first := route.StoredRoute{Encoding: "1-1_1-4", Origin: route.Coordinate{X: 1, Y: 1}}
	if err := facade.SaveRoute(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := route.StoredRoute{Encoding: "1-1_5-1", Origin: route.Coordinate{X: -3, Y: 9}}
	if err := facade.SaveRoute(ctx, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := facade.GetRoute(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != second {
		t.Fatalf("expected %+v, got %+v", second, got)
	}
}
