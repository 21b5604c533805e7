package spatialmath

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestSegmentIntersectsCircle(t *testing.T) {
	c := mustCircle(t, 0, 0, 1)
	cases := []struct {
		name     string
		seg      LineSegment
		expected bool
	}{
		{"crossing", LineSegment{r2.Point{X: -2}, r2.Point{X: 2}}, true},
		{"ends inside", LineSegment{r2.Point{X: -2}, r2.Point{X: 0}}, true},
		{"fully inside", LineSegment{r2.Point{X: -0.5}, r2.Point{X: 0.5}}, true},
		{"tangent", LineSegment{r2.Point{X: -2, Y: 1}, r2.Point{X: 2, Y: 1}}, false},
		{"starts on circle going away", LineSegment{r2.Point{X: 1}, r2.Point{X: 3}}, false},
		{"misses", LineSegment{r2.Point{X: -2, Y: 1.5}, r2.Point{X: 2, Y: 1.5}}, false},
		{"stops short", LineSegment{r2.Point{X: -5}, r2.Point{X: -1.5}}, false},
		{"degenerate inside", LineSegment{r2.Point{X: 0.1}, r2.Point{X: 0.1}}, true},
		{"degenerate outside", LineSegment{r2.Point{X: 4}, r2.Point{X: 4}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, tc.seg.IntersectsCircle(c), test.ShouldEqual, tc.expected)
			test.That(t, tc.seg.Reversed().IntersectsCircle(c), test.ShouldEqual, tc.expected)
		})
	}
}

func TestTangentsDoNotIntersectTheirCircles(t *testing.T) {
	c1 := mustCircle(t, -3, 2, 4)
	c2 := mustCircle(t, 7, -5, 1.5)
	for _, seg := range TangentsBetweenCircles(c1, c2) {
		test.That(t, seg.IntersectsCircle(c1), test.ShouldBeFalse)
		test.That(t, seg.IntersectsCircle(c2), test.ShouldBeFalse)
	}
}

func TestSegmentIntersects(t *testing.T) {
	a := LineSegment{r2.Point{X: 0, Y: 0}, r2.Point{X: 4, Y: 4}}
	cases := []struct {
		name     string
		other    LineSegment
		expected bool
	}{
		{"crossing", LineSegment{r2.Point{X: 0, Y: 4}, r2.Point{X: 4, Y: 0}}, true},
		{"shared end point", LineSegment{r2.Point{X: 4, Y: 4}, r2.Point{X: 8, Y: 0}}, false},
		{"touching at interior", LineSegment{r2.Point{X: 2, Y: 2}, r2.Point{X: 4, Y: 0}}, false},
		{"parallel", LineSegment{r2.Point{X: 1, Y: 0}, r2.Point{X: 5, Y: 4}}, false},
		{"collinear overlap", LineSegment{r2.Point{X: 1, Y: 1}, r2.Point{X: 6, Y: 6}}, false},
		{"disjoint", LineSegment{r2.Point{X: 5, Y: 0}, r2.Point{X: 6, Y: -3}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, a.Intersects(tc.other), test.ShouldEqual, tc.expected)
			test.That(t, tc.other.Intersects(a), test.ShouldEqual, tc.expected)
		})
	}
}

func TestSegmentDistance(t *testing.T) {
	s := LineSegment{r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}}
	test.That(t, s.Length(), test.ShouldAlmostEqual, 10)
	test.That(t, s.Bearing().Degrees(), test.ShouldAlmostEqual, 90, 1e-12)
	test.That(t, s.DistanceToPoint(r2.Point{X: 5, Y: 3}), test.ShouldAlmostEqual, 3)
	test.That(t, s.DistanceToPoint(r2.Point{X: -3, Y: 4}), test.ShouldAlmostEqual, 5)
	test.That(t, s.ClosestPoint(r2.Point{X: 12, Y: -1}), test.ShouldResemble, r2.Point{X: 10, Y: 0})
}
