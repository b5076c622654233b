package route

import (
	"errors"
	"regexp"
	"strconv"
)

var ErrPositionNotFound = errors.New("position marker not found")

var positionPattern = regexp.MustCompile(`Position: (-?\d+) / (-?\d+)`)

// Resolve reads the "Position: <x> / <y>" marker from region text and translates it
// against origin. The on-screen y axis points north, the world grid's y points south.
func Resolve(rawPositionText string, origin Coordinate) (Coordinate, error) {
	m := positionPattern.FindStringSubmatch(rawPositionText)
	if m == nil {
		return Coordinate{}, ErrPositionNotFound
	}
	relX, err := strconv.Atoi(m[1])
	if err != nil {
		return Coordinate{}, ErrPositionNotFound
	}
	relY, err := strconv.Atoi(m[2])
	if err != nil {
		return Coordinate{}, ErrPositionNotFound
	}
	return Coordinate{X: origin.X + relX, Y: origin.Y - relY}, nil
}
