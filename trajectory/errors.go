package trajectory

import (
	"github.com/golang/geo/s1"
	"github.com/pkg/errors"

	"go.viam.com/dubins/spatialmath"
)

// NewEmptyCompositeError is returned when a composite is built from no segments.
func NewEmptyCompositeError() error {
	return errors.New("a composite trajectory needs at least one segment")
}

// NewDiscontinuityError is returned when segment i does not end where segment i+1 begins.
func NewDiscontinuityError(i int, end, begin spatialmath.Pose) error {
	return errors.Errorf("segment %d ends at %v but segment %d begins at %v", i, end, i+1, begin)
}

// NewArcRadiusMismatchError is returned when the end points of an arc are not equidistant from its center.
func NewArcRadiusMismatchError(beginRadius, endRadius float64) error {
	return errors.Errorf("arc end points lie at different radii %v and %v from the center", beginRadius, endRadius)
}

// NewArcDirectionMismatchError is returned when an arc's sweep turns against its direction.
func NewArcDirectionMismatchError(sweep s1.Angle, dir spatialmath.Direction) error {
	return errors.Errorf("arc sweep %v rad does not turn %s", sweep.Radians(), dir)
}

// NewUnknownTrajectoryTypeError is returned when decoding or handling a trajectory of an unknown kind.
func NewUnknownTrajectoryTypeError(t interface{}) error {
	return errors.Errorf("unknown trajectory type %T (%v)", t, t)
}

// NewInvalidStepError is returned when sampling with a step that is not finite and positive.
func NewInvalidStepError(step float64) error {
	return errors.Errorf("sampling step must be finite and positive, got %v", step)
}
