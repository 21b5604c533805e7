// Package trajectory describes the paths a vehicle with a minimum turning radius can drive: straight
// segments, circular arcs and ordered compositions of both.
//
// The set of trajectory kinds is closed. Every consumer switches over exactly Straight, Arc and
// Composite, and the unexported marker method keeps other packages from adding new kinds.
package trajectory

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"

	"go.viam.com/dubins/spatialmath"
)

const (
	// continuityEpsilon bounds the position and bearing gap allowed between consecutive segments of
	// a composite.
	continuityEpsilon = 1e-6

	// radiusRelativeEpsilon is how far apart, relative to the larger one, the two radii implied by an
	// arc's end points may be.
	radiusRelativeEpsilon = 1e-6

	// degenerateLength is the length under which Join drops a straight segment.
	degenerateLength = 1e-9
)

// Trajectory is a drivable path with a well defined pose at each end.
type Trajectory interface {
	fmt.Stringer
	Length() float64
	BeginPose() spatialmath.Pose
	EndPose() spatialmath.Pose
	Reversed() Trajectory

	isTrajectory()
}

// Straight is a line segment driven from begin to end.
type Straight struct {
	segment spatialmath.LineSegment
}

// NewStraight returns the straight trajectory from begin to end.
func NewStraight(begin, end r2.Point) Straight {
	return Straight{segment: spatialmath.LineSegment{Begin: begin, End: end}}
}

// NewStraightFromSegment drives along seg.
func NewStraightFromSegment(seg spatialmath.LineSegment) Straight {
	return Straight{segment: seg}
}

// Segment returns the underlying line segment.
func (s Straight) Segment() spatialmath.LineSegment {
	return s.segment
}

// Length is the distance between the end points.
func (s Straight) Length() float64 {
	return s.segment.Length()
}

// Bearing is the heading along the whole segment.
func (s Straight) Bearing() s1.Angle {
	return s.segment.Bearing()
}

// BeginPose returns the first point facing along the segment.
func (s Straight) BeginPose() spatialmath.Pose {
	return spatialmath.NewPose(s.segment.Begin, s.Bearing())
}

// EndPose returns the last point facing along the segment.
func (s Straight) EndPose() spatialmath.Pose {
	return spatialmath.NewPose(s.segment.End, s.Bearing())
}

// Reversed drives the segment from end to begin.
func (s Straight) Reversed() Trajectory {
	return Straight{segment: s.segment.Reversed()}
}

func (s Straight) String() string {
	return "straight" + s.segment.String()
}

func (Straight) isTrajectory() {}

// Arc is a part of a circle driven in one turn direction. The sweep is signed: positive sweeps turn
// right (clockwise), negative sweeps turn left. The direction is kept explicitly so that a zero sweep
// still has a defined heading.
type Arc struct {
	circle spatialmath.Circle
	start  s1.Angle
	sweep  s1.Angle
	dir    spatialmath.Direction
}

// NewArc returns the arc on circle that begins at angle start and turns by sweep. The turn direction
// follows the sign of sweep; a zero sweep turns right.
func NewArc(circle spatialmath.Circle, start, sweep s1.Angle) Arc {
	dir := spatialmath.Right
	if sweep < 0 {
		dir = spatialmath.Left
	}
	return Arc{circle: circle, start: spatialmath.NormalizeAngle(start), sweep: sweep, dir: dir}
}

// NewArcOnCircle returns the arc on circle from the angle of begin to the angle of end, turning in
// direction dir. Both points are projected onto the circle; use NewArcFromPoints to validate them.
// The sweep is always less than one full turn.
func NewArcOnCircle(circle spatialmath.Circle, begin, end r2.Point, dir spatialmath.Direction) Arc {
	a1 := circle.AngleOf(begin)
	a2 := circle.AngleOf(end)
	var sweep s1.Angle
	if dir == spatialmath.Right {
		sweep = spatialmath.WrapTo2Pi(a2 - a1)
	} else {
		sweep = -spatialmath.WrapTo2Pi(a1 - a2)
	}
	return Arc{circle: circle, start: a1, sweep: sweep, dir: dir}
}

// NewFullCircle returns the arc that starts and ends at angle start after one full turn in dir.
func NewFullCircle(circle spatialmath.Circle, start s1.Angle, dir spatialmath.Direction) Arc {
	return Arc{
		circle: circle,
		start:  spatialmath.NormalizeAngle(start),
		sweep:  s1.Angle(dir.Sign() * 2 * math.Pi),
		dir:    dir,
	}
}

// NewArcFromPoints returns the arc around center from begin to end turning in direction dir. Both
// points must lie at the same distance from center.
func NewArcFromPoints(center, begin, end r2.Point, dir spatialmath.Direction) (Arc, error) {
	beginRadius := begin.Sub(center).Norm()
	endRadius := end.Sub(center).Norm()
	if math.Abs(beginRadius-endRadius) > radiusRelativeEpsilon*math.Max(beginRadius, endRadius) {
		return Arc{}, NewArcRadiusMismatchError(beginRadius, endRadius)
	}
	circle, err := spatialmath.NewCircle(center, beginRadius)
	if err != nil {
		return Arc{}, err
	}
	return NewArcOnCircle(circle, begin, end, dir), nil
}

// Circle returns the circle the arc lies on.
func (a Arc) Circle() spatialmath.Circle {
	return a.circle
}

// Start is the angle, as seen from the center, where the arc begins.
func (a Arc) Start() s1.Angle {
	return a.start
}

// Sweep is the signed angle the arc turns through.
func (a Arc) Sweep() s1.Angle {
	return a.sweep
}

// End is the angle, as seen from the center, where the arc ends.
func (a Arc) End() s1.Angle {
	return a.start + a.sweep
}

// Direction is the turn sense of the arc.
func (a Arc) Direction() spatialmath.Direction {
	return a.dir
}

// Length is radius times the absolute sweep.
func (a Arc) Length() float64 {
	return a.circle.Radius * math.Abs(a.sweep.Radians())
}

// BeginPose is the pose on the circle at Start, facing along the turn.
func (a Arc) BeginPose() spatialmath.Pose {
	return a.circle.PoseAt(a.start, a.dir)
}

// EndPose is the pose on the circle at End, facing along the turn.
func (a Arc) EndPose() spatialmath.Pose {
	return a.circle.PoseAt(a.End(), a.dir)
}

// Reversed drives the same arc backwards, which turns the other way.
func (a Arc) Reversed() Trajectory {
	return Arc{circle: a.circle, start: a.End(), sweep: -a.sweep, dir: a.dir.Opposite()}
}

// poseAt returns the pose after driving distance along the arc.
func (a Arc) poseAt(distance float64) spatialmath.Pose {
	angle := a.start + s1.Angle(a.dir.Sign()*distance/a.circle.Radius)
	return a.circle.PoseAt(angle, a.dir)
}

func (a Arc) String() string {
	return fmt.Sprintf("arc[%v %s from %.4g° by %.4g°]", a.circle, a.dir, a.start.Degrees(), a.sweep.Degrees())
}

func (Arc) isTrajectory() {}

// Composite is a non-empty, pose-continuous sequence of trajectories driven in order.
type Composite struct {
	segments []Trajectory
}

// NewComposite chains segments. Consecutive segments must meet: the end pose of each segment must
// equal the begin pose of the next one in position and bearing.
func NewComposite(segments ...Trajectory) (Composite, error) {
	if len(segments) == 0 {
		return Composite{}, NewEmptyCompositeError()
	}
	for i := 0; i < len(segments)-1; i++ {
		end := segments[i].EndPose()
		begin := segments[i+1].BeginPose()
		if !spatialmath.PoseAlmostEqual(end, begin, continuityEpsilon) {
			return Composite{}, NewDiscontinuityError(i, end, begin)
		}
	}
	return Composite{segments: append([]Trajectory(nil), segments...)}, nil
}

// Join is NewComposite after dropping straight segments too short to have a meaningful bearing. A
// lone degenerate straight is kept.
func Join(segments ...Trajectory) (Composite, error) {
	kept := make([]Trajectory, 0, len(segments))
	for _, seg := range segments {
		if s, ok := seg.(Straight); ok && s.Length() < degenerateLength {
			continue
		}
		kept = append(kept, seg)
	}
	if len(kept) == 0 && len(segments) > 0 {
		kept = segments[:1]
	}
	return NewComposite(kept...)
}

// Segments returns a copy of the chained trajectories.
func (c Composite) Segments() []Trajectory {
	return append([]Trajectory(nil), c.segments...)
}

// Length is the sum of the segment lengths.
func (c Composite) Length() float64 {
	var total float64
	for _, seg := range c.segments {
		total += seg.Length()
	}
	return total
}

// BeginPose is the begin pose of the first segment.
func (c Composite) BeginPose() spatialmath.Pose {
	return c.segments[0].BeginPose()
}

// EndPose is the end pose of the last segment.
func (c Composite) EndPose() spatialmath.Pose {
	return c.segments[len(c.segments)-1].EndPose()
}

// Reversed drives the segments in reverse order, each reversed.
func (c Composite) Reversed() Trajectory {
	n := len(c.segments)
	reversed := make([]Trajectory, n)
	for i, seg := range c.segments {
		reversed[n-1-i] = seg.Reversed()
	}
	return Composite{segments: reversed}
}

func (c Composite) String() string {
	parts := make([]string, 0, len(c.segments))
	for _, seg := range c.segments {
		parts = append(parts, seg.String())
	}
	return fmt.Sprintf("composite(%.6g)[%s]", c.Length(), strings.Join(parts, ", "))
}

func (Composite) isTrajectory() {}

// Flatten returns the straight and arc leaves of t in driving order.
func Flatten(t Trajectory) []Trajectory {
	switch v := t.(type) {
	case Composite:
		var leaves []Trajectory
		for _, seg := range v.segments {
			leaves = append(leaves, Flatten(seg)...)
		}
		return leaves
	case Straight, Arc:
		return []Trajectory{v}
	default:
		panic(NewUnknownTrajectoryTypeError(t))
	}
}
