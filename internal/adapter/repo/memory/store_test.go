package memory

import (
	"context"
	"testing"

	"routeguide/internal/app/ports"

	"github.com/google/go-cmp/cmp"
)

func TestStore_SetThenGetOmitsMissingKeys(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	if err := s.Set(ctx, map[string]string{"fm_route": "0-0_1-0", "fm_townx": "3"}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := s.Set(ctx, map[string]string{"fm_townx": "4"}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := s.Get(ctx, []string{"fm_route", "fm_townx", "fm_towny"})
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	want := map[string]string{"fm_route": "0-0_1-0", "fm_townx": "4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

var _ ports.KeyValueStore = (*Store)(nil)
