package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/floats/scalar"
)

// Pose is a position in the plane together with a bearing. Poses are values and are never mutated.
type Pose struct {
	point   r2.Point
	bearing s1.Angle
}

// NewPose creates a pose at point facing bearing. The bearing is normalized to (-π, π].
func NewPose(point r2.Point, bearing s1.Angle) Pose {
	return Pose{point: point, bearing: NormalizeAngle(bearing)}
}

// NewPoseFromDirection creates a pose at point facing along direction, which need not be normalized.
func NewPoseFromDirection(point, direction r2.Point) (Pose, error) {
	if direction.Norm() == 0 || math.IsNaN(direction.X) || math.IsNaN(direction.Y) {
		return Pose{}, NewZeroDirectionError(point)
	}
	return NewPose(point, BearingOf(direction)), nil
}

// Point returns the position of the pose.
func (p Pose) Point() r2.Point {
	return p.point
}

// Bearing returns the heading of the pose.
func (p Pose) Bearing() s1.Angle {
	return p.bearing
}

// Direction returns the unit vector the pose is facing along.
func (p Pose) Direction() r2.Point {
	return BearingVector(p.bearing)
}

// Reversed returns a pose at the same position facing the opposite way.
func (p Pose) Reversed() Pose {
	return NewPose(p.point, p.bearing+math.Pi)
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.6g, %.6g) @ %.4g°", p.point.X, p.point.Y, p.bearing.Degrees())
}

// PoseAlmostEqual returns true if both poses agree within epsilon in each coordinate and in bearing
// (radians). Callers always supply the tolerance.
func PoseAlmostEqual(a, b Pose, epsilon float64) bool {
	return scalar.EqualWithinAbs(a.point.X, b.point.X, epsilon) &&
		scalar.EqualWithinAbs(a.point.Y, b.point.Y, epsilon) &&
		AngleAlmostEqual(a.bearing, b.bearing, epsilon)
}
