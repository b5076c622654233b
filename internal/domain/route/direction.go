package route

type Direction string

const (
	DirectionNone  Direction = "none"
	DirectionNorth Direction = "north"
	DirectionSouth Direction = "south"
	DirectionEast  Direction = "east"
	DirectionWest  Direction = "west"
)

// StepDirection classifies the move from current to next. The x axis wins, so a
// diagonal step is reported as east or west.
func StepDirection(current, next Coordinate) Direction {
	switch {
	case next.X > current.X:
		return DirectionEast
	case next.X < current.X:
		return DirectionWest
	case next.Y > current.Y:
		return DirectionSouth
	case next.Y < current.Y:
		return DirectionNorth
	default:
		return DirectionNone
	}
}
