package spatialmath

import (
	"testing"

	geo "github.com/kellydunn/golang-geo"
	"go.viam.com/test"
)

func TestGeoPointToPoint(t *testing.T) {
	origin := geo.NewPoint(40, -75)

	self := GeoPointToPoint(origin, origin)
	test.That(t, self.X, test.ShouldEqual, 0.)
	test.That(t, self.Y, test.ShouldEqual, 0.)

	north := GeoPointToPoint(geo.NewPoint(40.01, -75), origin)
	test.That(t, north.X, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, north.Y, test.ShouldAlmostEqual, 1111.9, 1)

	east := GeoPointToPoint(geo.NewPoint(40, -74.99), origin)
	test.That(t, east.X, test.ShouldBeGreaterThan, 0)
	test.That(t, east.Y, test.ShouldAlmostEqual, 0, 0.1)
}

func TestGeoPoseToPose(t *testing.T) {
	origin := geo.NewPoint(40, -75)
	pose := GeoPoseToPose(geo.NewPoint(39.99, -75), 90, origin)
	test.That(t, pose.Point().Y, test.ShouldAlmostEqual, -1111.9, 1)
	test.That(t, pose.Bearing().Degrees(), test.ShouldAlmostEqual, 90, 1e-9)
}
