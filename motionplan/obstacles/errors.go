package obstacles

import (
	"github.com/pkg/errors"

	"go.viam.com/dubins/spatialmath"
)

// NewEmptyObstacleError is returned when an obstacle is built without circles.
func NewEmptyObstacleError() error {
	return errors.New("an obstacle needs at least one circle")
}

// NewNestedCirclesError is returned when one circle of an obstacle encloses another, leaving no
// outer boundary through both.
func NewNestedCirclesError(i, j int, a, b spatialmath.Circle) error {
	return errors.Errorf("obstacle circles %d %v and %d %v are nested, no shell exists", i, a, j, b)
}

// NewCircleIndexError is returned for circle indices outside an obstacle.
func NewCircleIndexError(from, to, n int) error {
	return errors.Errorf("circle indices %d and %d must be within [0, %d)", from, to, n)
}

// NewCoincidentPosesError is returned when start and end are the same pose.
func NewCoincidentPosesError(start, end spatialmath.Pose) error {
	return errors.Errorf("start %v and end %v coincide, no path is defined", start, end)
}

// NewNilObstacleError is returned when the obstacle list contains a nil entry.
func NewNilObstacleError(i int) error {
	return errors.Errorf("obstacle %d is nil", i)
}
