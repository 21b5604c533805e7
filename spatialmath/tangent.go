package spatialmath

import (
	"math"

	"github.com/golang/geo/s1"
)

// TangentType names a tangent line between two circles by the turn direction a vehicle has on the
// circle it leaves and on the circle it joins, e.g. RSR.
type TangentType struct {
	Begin Direction
	End   Direction
}

// The four tangent types between two circles.
var (
	RSR = TangentType{Right, Right}
	LSL = TangentType{Left, Left}
	RSL = TangentType{Right, Left}
	LSR = TangentType{Left, Right}
)

// TangentTypes lists the tangent types, outer tangents first.
var TangentTypes = []TangentType{RSR, LSL, RSL, LSR}

func (t TangentType) String() string {
	return t.Begin.String() + "S" + t.End.String()
}

// Outer returns true for tangents that keep the same turn sense on both circles.
func (t TangentType) Outer() bool {
	return t.Begin == t.End
}

// TangentsBetweenCircles returns the tangent segments leaving c1 and joining c2, keyed by type.
//
// If one circle encloses the other the result is empty. If the circles overlap only the two outer
// tangents (RSR, LSL) exist. Disjoint circles have all four.
func TangentsBetweenCircles(c1, c2 Circle) map[TangentType]LineSegment {
	tangents := make(map[TangentType]LineSegment, len(TangentTypes))
	for _, tt := range TangentTypes {
		if seg, ok := TangentBetweenCircles(c1, tt.Begin, c2, tt.End); ok {
			tangents[tt] = seg
		}
	}
	return tangents
}

// TangentBetweenCircles computes the single tangent leaving c1 turning d1 and joining c2 turning d2.
// The returned segment starts on c1 and ends on c2. ok is false when that tangent does not exist.
func TangentBetweenCircles(c1 Circle, d1 Direction, c2 Circle, d2 Direction) (LineSegment, bool) {
	between := c2.Center.Sub(c1.Center)
	d := between.Norm()
	small, large := math.Min(c1.Radius, c2.Radius), math.Max(c1.Radius, c2.Radius)
	switch {
	case d+small <= large:
		return LineSegment{}, false
	case d-small <= large && d1 != d2:
		return LineSegment{}, false
	}

	// Signed radii: the tangent point sits at center + rho*n where n is the left normal of the line.
	rho1 := d1.Sign() * c1.Radius
	rho2 := d2.Sign() * c2.Radius
	r := rho1 - rho2
	lSq := d*d - r*r
	if lSq < 0 || math.IsNaN(lSq) {
		// only reachable through rounding right at the boundary of the cases above
		lSq = 0
	}
	l := math.Sqrt(lSq)

	theta := BearingOf(between) + s1.Angle(math.Atan2(r, l))
	normal := BearingVector(theta - math.Pi/2)
	return LineSegment{
		Begin: c1.Center.Add(normal.Mul(rho1)),
		End:   c2.Center.Add(normal.Mul(rho2)),
	}, true
}
