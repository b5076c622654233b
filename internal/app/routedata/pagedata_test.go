package routedata

import (
	"errors"
	"testing"

	"routeguide/internal/domain/route"

	"github.com/google/go-cmp/cmp"
)

func TestParsePageData_ReadyWithExpeditions(t *testing.T) {
	raw := []byte(`{
		"tx": 7, "ty": 9,
		"expeditions": {
			"e1": {"name": "Scouting", "day": 3, "route": "7-9_7-5"},
			"e2": {"name": "Ruins", "day": "4", "route": "7-9_10-9"}
		},
		"other": [1, 2, 3]
	}`)
	got, err := ParsePageData(raw)
	if err != nil {
		t.Fatalf("ParsePageData error: %v", err)
	}
	want := PageData{
		Expeditions: []Expedition{
			{Key: "e1", Name: "Scouting", Day: "3", Route: "7-9_7-5"},
			{Key: "e2", Name: "Ruins", Day: "4", Route: "7-9_10-9"},
		},
		Town:  route.Coordinate{X: 7, Y: 9},
		Ready: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("page data mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePageData_NotReadyUntilTownKnown(t *testing.T) {
	got, err := ParsePageData([]byte(`{"expeditions": {}, "tx": 1}`))
	if err != nil {
		t.Fatalf("ParsePageData error: %v", err)
	}
	if got.Ready {
		t.Fatalf("expected not ready without ty")
	}

	got, err = ParsePageData(nil)
	if err != nil || got.Ready {
		t.Fatalf("expected empty not-ready data, got %+v err=%v", got, err)
	}
}

func TestParsePageData_RejectsInvalidJSON(t *testing.T) {
	if _, err := ParsePageData([]byte(`{"tx": `)); !errors.Is(err, ErrInvalidPageData) {
		t.Fatalf("expected ErrInvalidPageData, got %v", err)
	}
}
