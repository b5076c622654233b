package route

type TrackerState struct {
	Current   Coordinate `json:"current"`
	Index     int        `json:"index"`
	Direction Direction  `json:"direction"`
}

// OnRoute reports whether the current position was found on the path.
func (s TrackerState) OnRoute() bool {
	return s.Index >= 0
}

// NextDirection returns the move from current to the following path cell. Off-route
// positions and the final cell both yield DirectionNone.
func NextDirection(path Path, current Coordinate) Direction {
	i := path.Index(current)
	if i < 0 || i == len(path)-1 {
		return DirectionNone
	}
	return StepDirection(current, path[i+1])
}

func Evaluate(path Path, origin Coordinate, rawPositionText string) (TrackerState, error) {
	current, err := Resolve(rawPositionText, origin)
	if err != nil {
		return TrackerState{Index: -1, Direction: DirectionNone}, err
	}
	return TrackerState{
		Current:   current,
		Index:     path.Index(current),
		Direction: NextDirection(path, current),
	}, nil
}
