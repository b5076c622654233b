package route

import "fmt"

type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Path is the expanded, step-by-step form of an encoded route.
type Path []Coordinate

// Index returns the first position of c in the path, or -1.
func (p Path) Index(c Coordinate) int {
	for i, step := range p {
		if step == c {
			return i
		}
	}
	return -1
}

func (p Path) Last() (Coordinate, bool) {
	if len(p) == 0 {
		return Coordinate{}, false
	}
	return p[len(p)-1], true
}

type StoredRoute struct {
	Encoding string     `json:"route"`
	Origin   Coordinate `json:"origin"`
}
