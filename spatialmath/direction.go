package spatialmath

// Direction is a turn sense. Right turns are clockwise, left turns counter-clockwise.
type Direction int

const (
	// Right is a clockwise turn.
	Right Direction = iota
	// Left is a counter-clockwise turn.
	Left
)

// Directions lists both turn senses, right first.
var Directions = []Direction{Right, Left}

// Sign returns +1 for Right and -1 for Left.
func (d Direction) Sign() float64 {
	if d == Left {
		return -1
	}
	return 1
}

// Opposite returns the other turn sense.
func (d Direction) Opposite() Direction {
	if d == Left {
		return Right
	}
	return Left
}

func (d Direction) String() string {
	if d == Left {
		return "L"
	}
	return "R"
}

// ParseDirection converts "L"/"R" (or "left"/"right") into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "R", "r", "right":
		return Right, nil
	case "L", "l", "left":
		return Left, nil
	default:
		return Right, NewUnknownDirectionError(s)
	}
}
