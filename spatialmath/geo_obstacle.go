package spatialmath

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	geo "github.com/kellydunn/golang-geo"
)

// GeoPointToPoint returns the planar position of point, in meters, relative to origin. X grows east
// and Y grows north so that bearings keep their compass meaning.
// Because the function we use to project a point on a spheroid to a plane is nonlinear, we linearize
// it about the origin; accuracy degrades with distance from it.
func GeoPointToPoint(point, origin *geo.Point) r2.Point {
	distMeters := 1000 * origin.GreatCircleDistance(point)
	if distMeters == 0 {
		return r2.Point{}
	}
	return BearingVector(s1.Angle(origin.BearingTo(point)) * s1.Degree).Mul(distMeters)
}

// GeoPoseToPose converts a geographic location and compass heading (degrees) into a planar pose
// relative to origin.
func GeoPoseToPose(location *geo.Point, headingDegrees float64, origin *geo.Point) Pose {
	return NewPose(GeoPointToPoint(location, origin), s1.Angle(headingDegrees)*s1.Degree)
}
