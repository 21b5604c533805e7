package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// intersectEpsilon is the relative slack used by the intersection predicates so that segments which
// merely touch a circle or another segment, as tangents do, are not reported as crossing it.
const intersectEpsilon = 1e-9

// LineSegment is a directed segment from Begin to End.
type LineSegment struct {
	Begin r2.Point
	End   r2.Point
}

// Vector returns End - Begin.
func (s LineSegment) Vector() r2.Point {
	return s.End.Sub(s.Begin)
}

// Length returns the euclidean length of the segment.
func (s LineSegment) Length() float64 {
	return s.Vector().Norm()
}

// Bearing returns the bearing from Begin to End.
func (s LineSegment) Bearing() s1.Angle {
	return BearingOf(s.Vector())
}

// Reversed swaps Begin and End.
func (s LineSegment) Reversed() LineSegment {
	return LineSegment{Begin: s.End, End: s.Begin}
}

// PointAt interpolates along the segment, t in [0, 1].
func (s LineSegment) PointAt(t float64) r2.Point {
	return s.Begin.Add(s.Vector().Mul(t))
}

// ClosestPoint returns the point of the segment nearest to p.
func (s LineSegment) ClosestPoint(p r2.Point) r2.Point {
	v := s.Vector()
	lenSq := v.Dot(v)
	if lenSq == 0 {
		return s.Begin
	}
	t := p.Sub(s.Begin).Dot(v) / lenSq
	return s.PointAt(math.Max(0, math.Min(1, t)))
}

// DistanceToPoint returns the distance from p to the nearest point of the segment.
func (s LineSegment) DistanceToPoint(p r2.Point) float64 {
	return p.Sub(s.ClosestPoint(p)).Norm()
}

// IntersectsCircle returns true if the segment enters the interior of c or lies inside it. The
// substitution of Begin + t*(End-Begin) into the circle equation gives a quadratic in t; the segment
// crosses the (slightly shrunk) open disk when the roots bracket part of [0, 1].
func (s LineSegment) IntersectsCircle(c Circle) bool {
	radius := c.Radius - intersectEpsilon*math.Max(1, c.Radius)
	if radius <= 0 {
		return false
	}
	d := s.Vector()
	f := s.Begin.Sub(c.Center)
	a := d.Dot(d)
	b := 2 * f.Dot(d)
	cc := f.Dot(f) - radius*radius
	if a == 0 {
		return cc < 0
	}
	disc := b*b - 4*a*cc
	if disc <= 0 {
		return false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	return t1 < 1 && t2 > 0
}

// Intersects returns true if the two segments properly cross. Segments that only touch at an end
// point, or are collinear, do not count.
func (s LineSegment) Intersects(other LineSegment) bool {
	d1 := orientation(other.Begin, other.End, s.Begin)
	d2 := orientation(other.Begin, other.End, s.End)
	d3 := orientation(s.Begin, s.End, other.Begin)
	d4 := orientation(s.Begin, s.End, other.End)
	return d1*d2 < 0 && d3*d4 < 0
}

// orientation returns the sign of the turn p -> q -> r, or 0 when the three points are collinear
// within a tolerance scaled by the lengths involved.
func orientation(p, q, r r2.Point) int {
	a := q.Sub(p)
	b := r.Sub(p)
	cross := a.Cross(b)
	if math.Abs(cross) <= intersectEpsilon*a.Norm()*math.Max(1, b.Norm()) {
		return 0
	}
	if cross > 0 {
		return 1
	}
	return -1
}

func (s LineSegment) String() string {
	return fmt.Sprintf("[(%.6g, %.6g) -> (%.6g, %.6g)]", s.Begin.X, s.Begin.Y, s.End.X, s.End.Y)
}
