package route

import (
	"errors"
	"testing"
)

func TestResolve_InvertsVerticalAxis(t *testing.T) {
	got, err := Resolve("Position: 3 / -2", Coordinate{X: 10, Y: 10})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if want := (Coordinate{X: 13, Y: 12}); got != want {
		t.Fatalf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_FindsMarkerInsideRegionText(t *testing.T) {
	text := "Zone (desert)\n  Position: -4 / 7  \nZombies: 2"
	got, err := Resolve(text, Coordinate{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if want := (Coordinate{X: -4, Y: -7}); got != want {
		t.Fatalf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_MissingMarker(t *testing.T) {
	if _, err := Resolve("no position here", Coordinate{X: 1, Y: 1}); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestNextDirection(t *testing.T) {
	cases := []struct {
		name    string
		path    Path
		current Coordinate
		want    Direction
	}{
		{"south when y increases", Path{{0, 0}, {1, 0}, {1, 1}}, Coordinate{1, 0}, DirectionSouth},
		{"east", Path{{0, 0}, {1, 0}}, Coordinate{0, 0}, DirectionEast},
		{"west", Path{{1, 0}, {0, 0}}, Coordinate{1, 0}, DirectionWest},
		{"north", Path{{0, 1}, {0, 0}}, Coordinate{0, 1}, DirectionNorth},
		{"last element", Path{{0, 0}, {1, 0}}, Coordinate{1, 0}, DirectionNone},
		{"off route", Path{{0, 0}, {1, 0}}, Coordinate{5, 5}, DirectionNone},
		{"empty path", nil, Coordinate{0, 0}, DirectionNone},
		{"diagonal resolves horizontally", Path{{0, 0}, {1, 1}}, Coordinate{0, 0}, DirectionEast},
		{"first occurrence wins", Path{{0, 0}, {1, 0}, {0, 0}, {0, 1}}, Coordinate{0, 0}, DirectionEast},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextDirection(tc.path, tc.current); got != tc.want {
				t.Fatalf("NextDirection = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNextDirection_IsPure(t *testing.T) {
	path := Path{{0, 0}, {0, 1}, {1, 1}}
	first := NextDirection(path, Coordinate{0, 1})
	second := NextDirection(path, Coordinate{0, 1})
	if first != second {
		t.Fatalf("expected identical results, got %q then %q", first, second)
	}
}

func TestEvaluate_ComposesResolveAndDirection(t *testing.T) {
	path, err := Decode("10-10_10-12_12-12")
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	state, err := Evaluate(path, Coordinate{X: 10, Y: 10}, "Position: 0 / -1")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if state.Current != (Coordinate{10, 11}) || state.Index != 1 || state.Direction != DirectionSouth {
		t.Fatalf("unexpected state: %+v", state)
	}
	if !state.OnRoute() {
		t.Fatalf("expected on-route state")
	}

	state, err = Evaluate(path, Coordinate{X: 10, Y: 10}, "Position: 9 / 9")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if state.OnRoute() || state.Direction != DirectionNone {
		t.Fatalf("expected off-route none, got %+v", state)
	}

	if _, err := Evaluate(path, Coordinate{}, "loading..."); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}
