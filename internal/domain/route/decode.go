package route

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	SegmentDelimiter = "_"
	AxisDelimiter    = "-"
)

var ErrMalformedEncoding = errors.New("malformed route encoding")

type MalformedEncodingError struct {
	Segment string
	Reason  string
}

func (e *MalformedEncodingError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedEncoding.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: segment %q: %s", ErrMalformedEncoding.Error(), e.Segment, e.Reason)
}

func (e *MalformedEncodingError) Unwrap() error {
	return ErrMalformedEncoding
}

// DefaultMaxPathCells bounds the expanded length of a route when no limit is configured.
const DefaultMaxPathCells = 10000

// Decoder expands encoded routes up to a maximum number of cells.
type Decoder struct {
	// MaxCells bounds the expanded path length. Zero means DefaultMaxPathCells.
	MaxCells int
}

// Decode expands an encoded route with the default length limit.
func Decode(encoding string) (Path, error) {
	return Decoder{}.Decode(encoding)
}

// Decode expands an encoded route ("x1-y1_x2-y2_...") into every grid cell walked
// between consecutive anchors. Each step closes x and y by one unit at the same time
// when both still differ, and a cell equal to the previous one is never appended.
// The expanded length is checked against MaxCells before any cell is allocated.
func (d Decoder) Decode(encoding string) (Path, error) {
	anchors, err := ParseAnchors(encoding)
	if err != nil {
		return nil, err
	}
	limit := d.maxCells()
	n, ok := expandedLength(anchors, limit)
	if !ok {
		return nil, &MalformedEncodingError{Reason: fmt.Sprintf("route too long: more than %d cells", limit)}
	}
	path := make(Path, 1, n)
	path[0] = anchors[0]
	for i := 0; i < len(anchors)-1; i++ {
		path = appendLeg(path, anchors[i], anchors[i+1])
	}
	return path, nil
}

func (d Decoder) maxCells() int {
	if d.MaxCells > 0 {
		return d.MaxCells
	}
	return DefaultMaxPathCells
}

// expandedLength counts the cells Decode would produce: one for the first anchor
// plus the Chebyshev distance of every leg. It stops once limit is exceeded.
func expandedLength(anchors []Coordinate, limit int) (int, bool) {
	total := int64(1)
	for i := 0; i < len(anchors)-1; i++ {
		dx := abs64(int64(anchors[i+1].X) - int64(anchors[i].X))
		dy := abs64(int64(anchors[i+1].Y) - int64(anchors[i].Y))
		total += max(dx, dy)
		if total > int64(limit) {
			return 0, false
		}
	}
	return int(total), true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func appendLeg(path Path, start, end Coordinate) Path {
	path = appendDistinct(path, start)
	cur := start
	for cur != end {
		cur.X += sign(end.X - cur.X)
		cur.Y += sign(end.Y - cur.Y)
		path = appendDistinct(path, cur)
	}
	return path
}

func appendDistinct(path Path, c Coordinate) Path {
	if last, ok := path.Last(); ok && last == c {
		return path
	}
	return append(path, c)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ParseAnchors returns the explicit waypoints of an encoded route without expanding legs.
func ParseAnchors(encoding string) ([]Coordinate, error) {
	anchors := make([]Coordinate, 0)
	for _, segment := range strings.Split(strings.TrimSpace(encoding), SegmentDelimiter) {
		if segment == "" {
			continue
		}
		c, err := parseAnchor(segment)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, c)
	}
	if len(anchors) == 0 {
		return nil, &MalformedEncodingError{Reason: "no anchors"}
	}
	return anchors, nil
}

// parseAnchor splits "x-y" on the axis delimiter that is not a sign, so "-3--4" is (-3,-4).
func parseAnchor(segment string) (Coordinate, error) {
	split := -1
	for i := 1; i < len(segment); i++ {
		if strings.HasPrefix(segment[i:], AxisDelimiter) {
			split = i
			break
		}
	}
	if split < 0 {
		return Coordinate{}, &MalformedEncodingError{Segment: segment, Reason: "missing axis delimiter"}
	}
	x, err := parseAxis(segment, segment[:split], "x")
	if err != nil {
		return Coordinate{}, err
	}
	y, err := parseAxis(segment, segment[split+len(AxisDelimiter):], "y")
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{X: x, Y: y}, nil
}

// parseAxis reads one coordinate. Values are limited to 32 bits so leg distances
// cannot overflow.
func parseAxis(segment, raw, axis string) (int, error) {
	v, err := strconv.ParseInt(raw, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &MalformedEncodingError{Segment: segment, Reason: axis + " is out of range"}
	}
	if err != nil {
		return 0, &MalformedEncodingError{Segment: segment, Reason: axis + " is not an integer"}
	}
	return int(v), nil
}

func Encode(anchors []Coordinate) string {
	parts := make([]string, 0, len(anchors))
	for _, a := range anchors {
		parts = append(parts, strconv.Itoa(a.X)+AxisDelimiter+strconv.Itoa(a.Y))
	}
	return strings.Join(parts, SegmentDelimiter)
}
