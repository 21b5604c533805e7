// Package spatialmath defines the planar geometry used by the planners: poses, circles, line
// segments and the tangent lines between circles.
//
// Bearings are measured clockwise from the positive Y axis. A bearing of 0 points along +Y and a
// bearing of π/2 points along +X. Every conversion between angles and vectors in this module goes
// through BearingVector and BearingOf.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// angleSnapEpsilon is how close to a full turn a wrapped angle may get before it is treated as zero.
const angleSnapEpsilon = 1e-9

// BearingVector returns the unit vector pointing along bearing.
func BearingVector(bearing s1.Angle) r2.Point {
	sin, cos := math.Sincos(bearing.Radians())
	return r2.Point{X: sin, Y: cos}
}

// BearingOf returns the bearing of v. The zero vector has bearing 0.
func BearingOf(v r2.Point) s1.Angle {
	return s1.Angle(math.Atan2(v.X, v.Y))
}

// NormalizeAngle returns an equivalent angle in (-π, π].
func NormalizeAngle(a s1.Angle) s1.Angle {
	return a.Normalized()
}

// WrapTo2Pi returns an equivalent angle in [0, 2π). Angles within angleSnapEpsilon of a full turn
// are returned as 0 so that floating point noise never becomes a full revolution.
func WrapTo2Pi(a s1.Angle) s1.Angle {
	rad := math.Mod(a.Radians(), 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	if rad > 2*math.Pi-angleSnapEpsilon {
		rad = 0
	}
	return s1.Angle(rad)
}

// AngleAlmostEqual returns true if a and b describe the same direction within epsilon radians.
func AngleAlmostEqual(a, b s1.Angle, epsilon float64) bool {
	return math.Abs(NormalizeAngle(a-b).Radians()) <= epsilon
}

// R2PointAlmostEqual compares two points coordinate-wise within epsilon.
func R2PointAlmostEqual(a, b r2.Point, epsilon float64) bool {
	return math.Abs(a.X-b.X) <= epsilon && math.Abs(a.Y-b.Y) <= epsilon
}
