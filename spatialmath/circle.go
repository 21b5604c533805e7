package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"gonum.org/v1/gonum/floats/scalar"
)

// Circle is a center and a radius.
type Circle struct {
	Center r2.Point
	Radius float64
}

// NewCircle returns a circle, validating that the radius is finite and positive.
func NewCircle(center r2.Point, radius float64) (Circle, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Circle{}, NewInvalidRadiusError(radius)
	}
	return Circle{Center: center, Radius: radius}, nil
}

// TangentCircle returns the circle of the given radius that touches pose's heading at its position
// and that a vehicle turning in direction dir from pose would drive along.
func TangentCircle(pose Pose, radius float64, dir Direction) Circle {
	offset := BearingVector(pose.Bearing() + s1.Angle(dir.Sign()*math.Pi/2)).Mul(radius)
	return Circle{Center: pose.Point().Add(offset), Radius: radius}
}

// PointAt returns the point on the circle at the given bearing from its center.
func (c Circle) PointAt(angle s1.Angle) r2.Point {
	return c.Center.Add(BearingVector(angle).Mul(c.Radius))
}

// AngleOf returns the bearing of p as seen from the center of the circle.
func (c Circle) AngleOf(p r2.Point) s1.Angle {
	return BearingOf(p.Sub(c.Center))
}

// TangentBearing is the heading of a vehicle on the circle at the given angle, turning in direction dir.
func (c Circle) TangentBearing(angle s1.Angle, dir Direction) s1.Angle {
	return NormalizeAngle(angle + s1.Angle(dir.Sign()*math.Pi/2))
}

// PoseAt returns the pose of a vehicle on the circle at the given angle, turning in direction dir.
func (c Circle) PoseAt(angle s1.Angle, dir Direction) Pose {
	return NewPose(c.PointAt(angle), c.TangentBearing(angle, dir))
}

// Overlaps returns true if the circles touch, intersect or one is nested in the other.
func (c Circle) Overlaps(other Circle) bool {
	return c.Center.Sub(other.Center).Norm() <= c.Radius+other.Radius
}

// Encloses returns true if other lies entirely within c (touching from the inside counts).
func (c Circle) Encloses(other Circle) bool {
	return c.Center.Sub(other.Center).Norm()+other.Radius <= c.Radius
}

// ContainsPoint returns true if p lies within or on the circle.
func (c Circle) ContainsPoint(p r2.Point) bool {
	return p.Sub(c.Center).Norm() <= c.Radius
}

// AlmostEqual compares center and radius within epsilon.
func (c Circle) AlmostEqual(other Circle, epsilon float64) bool {
	return R2PointAlmostEqual(c.Center, other.Center, epsilon) && scalar.EqualWithinAbs(c.Radius, other.Radius, epsilon)
}

func (c Circle) String() string {
	return fmt.Sprintf("circle((%.6g, %.6g), %.6g)", c.Center.X, c.Center.Y, c.Radius)
}
