package dubins

import (
	"github.com/pkg/errors"

	"go.viam.com/dubins/spatialmath"
)

// ErrNoPath is returned by ShortestPath when no word is feasible.
var ErrNoPath = errors.New("no feasible Dubins path between the poses")

// NewCoincidentPosesError is returned when the start and end pose are the same.
func NewCoincidentPosesError(start, end spatialmath.Pose) error {
	return errors.Errorf("start %v and end %v coincide, no path is defined", start, end)
}

// NewUnknownWordError is returned when a Dubins word cannot be parsed.
func NewUnknownWordError(s string) error {
	return errors.Errorf("unknown Dubins word %q", s)
}
