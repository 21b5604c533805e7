// Package obstacles plans Dubins-style trajectories around obstacles made of circles. Each obstacle
// is wrapped in a shell of outer tangents; paths leave the start turning circle, hop from obstacle to
// obstacle along tangents, follow obstacle shells, and finally join the goal turning circle.
package obstacles

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/dubins/spatialmath"
	"go.viam.com/dubins/trajectory"
)

// Obstacle is a region made of one or more circles, already inflated by the vehicle's turning
// radius. Circles are listed in boundary order: consecutive circles, and the last and first, are
// joined by the shell.
type Obstacle struct {
	circles  []spatialmath.Circle
	centroid r2.Point

	// dir is the turn sense of the shell tangents; shell[i] leaves circles[i] and joins
	// circles[i+1 mod n]. Single circle obstacles have no shell.
	dir   spatialmath.Direction
	shell []spatialmath.LineSegment
}

// NewObstacle builds an obstacle from circles and computes its shell. No circle may lie inside
// another.
func NewObstacle(circles ...spatialmath.Circle) (*Obstacle, error) {
	if len(circles) == 0 {
		return nil, NewEmptyObstacleError()
	}
	for _, c := range circles {
		if _, err := spatialmath.NewCircle(c.Center, c.Radius); err != nil {
			return nil, err
		}
	}
	for i := range circles {
		for j := i + 1; j < len(circles); j++ {
			if circles[i].Encloses(circles[j]) || circles[j].Encloses(circles[i]) {
				return nil, NewNestedCirclesError(i, j, circles[i], circles[j])
			}
		}
	}
	o := &Obstacle{circles: append([]spatialmath.Circle(nil), circles...)}
	for _, c := range circles {
		o.centroid = o.centroid.Add(c.Center)
	}
	o.centroid = o.centroid.Mul(1 / float64(len(circles)))

	dir, shell, err := buildShell(o.circles, o.centroid)
	if err != nil {
		return nil, err
	}
	o.dir = dir
	o.shell = shell
	return o, nil
}

// NewObstacleFromPolygon inflates every vertex of a polygon into a circle of the given radius.
func NewObstacleFromPolygon(vertices []r2.Point, radius float64) (*Obstacle, error) {
	if len(vertices) == 0 {
		return nil, NewEmptyObstacleError()
	}
	circles := make([]spatialmath.Circle, 0, len(vertices))
	for _, v := range vertices {
		c, err := spatialmath.NewCircle(v, radius)
		if err != nil {
			return nil, err
		}
		circles = append(circles, c)
	}
	return NewObstacle(circles...)
}

// Circles returns a copy of the obstacle's circles.
func (o *Obstacle) Circles() []spatialmath.Circle {
	return append([]spatialmath.Circle(nil), o.circles...)
}

// Centroid is the mean of the circle centers.
func (o *Obstacle) Centroid() r2.Point {
	return o.centroid
}

// Direction is the turn sense the shell was built for.
func (o *Obstacle) Direction() spatialmath.Direction {
	return o.dir
}

// Shell returns a copy of the shell tangents.
func (o *Obstacle) Shell() []spatialmath.LineSegment {
	return append([]spatialmath.LineSegment(nil), o.shell...)
}

// Equal returns true if both obstacles are built from the same circles in the same order.
func (o *Obstacle) Equal(other *Obstacle) bool {
	if o == nil || other == nil {
		return o == other
	}
	if len(o.circles) != len(other.circles) {
		return false
	}
	for i, c := range o.circles {
		if c != other.circles[i] {
			return false
		}
	}
	return true
}

// Intersects returns true if seg enters any circle of the obstacle or crosses its shell.
func (o *Obstacle) Intersects(seg spatialmath.LineSegment) bool {
	return o.intersectsExcept(seg, -1)
}

// intersectsExcept is Intersects ignoring circle skip, the circle seg is tangent to.
func (o *Obstacle) intersectsExcept(seg spatialmath.LineSegment, skip int) bool {
	for i, c := range o.circles {
		if i != skip && seg.IntersectsCircle(c) {
			return true
		}
	}
	return lo.SomeBy(o.shell, func(edge spatialmath.LineSegment) bool {
		return seg.Intersects(edge)
	})
}

// IntersectsCircle returns true if c touches or overlaps any circle of the obstacle, crosses its
// shell, or lies inside the shell.
func (o *Obstacle) IntersectsCircle(c spatialmath.Circle) bool {
	for _, own := range o.circles {
		if own.Overlaps(c) {
			return true
		}
	}
	for _, edge := range o.shell {
		if edge.IntersectsCircle(c) {
			return true
		}
	}
	return o.shellContains(c.Center)
}

// shellContains reports whether p is inside the polygon traced by the shell tangents.
func (o *Obstacle) shellContains(p r2.Point) bool {
	if len(o.shell) == 0 {
		return false
	}
	vertices := make([]r2.Point, 0, 2*len(o.shell))
	for _, edge := range o.shell {
		vertices = append(vertices, edge.Begin, edge.End)
	}
	inside := false
	for i, j := 0, len(vertices)-1; i < len(vertices); j, i = i, i+1 {
		a, b := vertices[i], vertices[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Circumvention walks the obstacle boundary in direction dir from circle from to circle to. The walk
// starts where the shell tangent arriving at from ends and stops where the shell tangent leaving to
// begins, alternating arcs and shell tangents. When from equals to it is the single boundary arc of
// that circle. A single circle obstacle yields one full turn.
func (o *Obstacle) Circumvention(dir spatialmath.Direction, from, to int) (trajectory.Composite, error) {
	n := len(o.circles)
	if from < 0 || from >= n || to < 0 || to >= n {
		return trajectory.Composite{}, NewCircleIndexError(from, to, n)
	}
	if n == 1 {
		return trajectory.NewComposite(trajectory.NewFullCircle(o.circles[0], 0, dir))
	}
	entry := o.incoming(dir, from).End
	exit := o.outgoing(dir, to).Begin
	return trajectory.Join(o.circumvent(dir, from, to, entry, exit)...)
}

// forward reports whether walking in direction dir follows the shell order.
func (o *Obstacle) forward(dir spatialmath.Direction) bool {
	return dir == o.dir
}

// next returns the circle after i when walking in direction dir.
func (o *Obstacle) next(dir spatialmath.Direction, i int) int {
	n := len(o.circles)
	if o.forward(dir) {
		return (i + 1) % n
	}
	return (i - 1 + n) % n
}

// outgoing returns the shell tangent leaving circle i when walking in direction dir.
func (o *Obstacle) outgoing(dir spatialmath.Direction, i int) spatialmath.LineSegment {
	if o.forward(dir) {
		return o.shell[i]
	}
	n := len(o.circles)
	return o.shell[(i-1+n)%n].Reversed()
}

// incoming returns the shell tangent arriving at circle i when walking in direction dir.
func (o *Obstacle) incoming(dir spatialmath.Direction, i int) spatialmath.LineSegment {
	n := len(o.circles)
	if o.forward(dir) {
		return o.shell[(i-1+n)%n]
	}
	return o.shell[i].Reversed()
}

// circumvent returns the segments that follow the boundary in direction dir from entry, a point on
// circle from, to exit, a point on circle to. If both points are on the same circle and exit comes
// before the shell tangent leaving it, the walk is one arc; otherwise it goes once around.
func (o *Obstacle) circumvent(dir spatialmath.Direction, from, to int, entry, exit r2.Point) []trajectory.Trajectory {
	n := len(o.circles)
	if n == 1 {
		return []trajectory.Trajectory{trajectory.NewArcOnCircle(o.circles[0], entry, exit, dir)}
	}

	steps := (to - from + n) % n
	if !o.forward(dir) {
		steps = (from - to + n) % n
	}
	if steps == 0 {
		direct := trajectory.NewArcOnCircle(o.circles[from], entry, exit, dir)
		toShell := trajectory.NewArcOnCircle(o.circles[from], entry, o.outgoing(dir, from).Begin, dir)
		if direct.Length() <= toShell.Length()+shellSlack {
			return []trajectory.Trajectory{direct}
		}
		steps = n
	}

	segments := make([]trajectory.Trajectory, 0, 2*steps+1)
	current, at := from, entry
	for i := 0; i < steps; i++ {
		edge := o.outgoing(dir, current)
		segments = append(segments,
			trajectory.NewArcOnCircle(o.circles[current], at, edge.Begin, dir),
			trajectory.NewStraightFromSegment(edge),
		)
		current, at = o.next(dir, current), edge.End
	}
	return append(segments, trajectory.NewArcOnCircle(o.circles[current], at, exit, dir))
}

// shellSlack absorbs rounding when comparing arc lengths on the same circle.
const shellSlack = 1e-9

// buildShell computes the right and left wrap of circles and keeps the one whose tangent end points
// lie farther, in total, from the centroid. Ties keep the right wrap.
func buildShell(circles []spatialmath.Circle, centroid r2.Point) (spatialmath.Direction, []spatialmath.LineSegment, error) {
	n := len(circles)
	if n == 1 {
		return spatialmath.Right, nil, nil
	}
	bestDir := spatialmath.Right
	var bestShell []spatialmath.LineSegment
	bestScore := math.Inf(-1)
	for _, dir := range spatialmath.Directions {
		shell := make([]spatialmath.LineSegment, 0, n)
		score := 0.
		for i := range circles {
			j := (i + 1) % n
			seg, ok := spatialmath.TangentBetweenCircles(circles[i], dir, circles[j], dir)
			if !ok {
				return spatialmath.Right, nil, NewNestedCirclesError(i, j, circles[i], circles[j])
			}
			shell = append(shell, seg)
			score += seg.Begin.Sub(centroid).Norm() + seg.End.Sub(centroid).Norm()
		}
		if score > bestScore {
			bestDir, bestShell, bestScore = dir, shell, score
		}
	}
	return bestDir, bestShell, nil
}
