package obstacles

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/dubins/logging"
	"go.viam.com/dubins/motionplan/dubins"
	"go.viam.com/dubins/spatialmath"
	"go.viam.com/dubins/trajectory"
)

func poseFacing(t *testing.T, x, y, dx, dy float64) spatialmath.Pose {
	t.Helper()
	p, err := spatialmath.NewPoseFromDirection(r2.Point{X: x, Y: y}, r2.Point{X: dx, Y: dy})
	test.That(t, err, test.ShouldBeNil)
	return p
}

// checkCandidates verifies that every candidate drives from start to end without gaps and without
// entering any obstacle circle.
func checkCandidates(t *testing.T, candidates []Candidate, start, end spatialmath.Pose, obstacles []*Obstacle) {
	t.Helper()
	for _, c := range candidates {
		test.That(t, spatialmath.PoseAlmostEqual(c.Trajectory.BeginPose(), start, 1e-6), test.ShouldBeTrue)
		test.That(t, spatialmath.PoseAlmostEqual(c.Trajectory.EndPose(), end, 1e-6), test.ShouldBeTrue)
		checkContinuous(t, c.Trajectory)

		poses, err := trajectory.Sample(c.Trajectory, 0.05)
		test.That(t, err, test.ShouldBeNil)
		for _, p := range poses {
			for _, o := range obstacles {
				for _, circ := range o.Circles() {
					test.That(t, p.Point().Sub(circ.Center).Norm(), test.ShouldBeGreaterThanOrEqualTo, circ.Radius-1e-6)
				}
			}
		}
	}
}

func TestAvoidObstaclesSingleCircle(t *testing.T) {
	start := poseFacing(t, -5, -1, 1, 1)
	end := poseFacing(t, 20, 4, 1, -1)
	o, err := NewObstacle(circle(7, 1, 5))
	test.That(t, err, test.ShouldBeNil)
	obstacles := []*Obstacle{o}

	candidates, err := AvoidObstacles(start, end, 0.5, obstacles)
	test.That(t, err, test.ShouldBeNil)
	// each direction pair passes the circle on either side
	test.That(t, len(candidates), test.ShouldEqual, 8)
	checkCandidates(t, candidates, start, end, obstacles)
	for _, c := range candidates {
		test.That(t, c.Direct, test.ShouldBeFalse)
	}

	shortest, ok := Shortest(candidates)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, shortest.Length(), test.ShouldAlmostEqual, 27.2113183, 1e-6)
	test.That(t, shortest.StartDirection, test.ShouldEqual, spatialmath.Right)
	test.That(t, shortest.EndDirection, test.ShouldEqual, spatialmath.Right)
}

func TestAvoidObstaclesNoObstacles(t *testing.T) {
	start := poseFacing(t, 0, 0, 1, 0)
	end := poseFacing(t, 20, 0, 1, 0)

	far, err := NewObstacle(circle(0, 50, 1))
	test.That(t, err, test.ShouldBeNil)

	for _, obstacles := range [][]*Obstacle{nil, {far}} {
		candidates, err := AvoidObstacles(start, end, 0.5, obstacles)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(candidates), test.ShouldEqual, 4)
		checkCandidates(t, candidates, start, end, obstacles)

		paths, err := dubins.AllPaths(start, end, 0.5)
		test.That(t, err, test.ShouldBeNil)
		csc := map[[2]spatialmath.Direction]float64{}
		for _, p := range paths {
			if !p.Word.IsCSC() {
				continue
			}
			segments := trajectory.Flatten(p.Trajectory)
			first := segments[0].(trajectory.Arc).Direction()
			last := segments[len(segments)-1].(trajectory.Arc).Direction()
			csc[[2]spatialmath.Direction{first, last}] = p.Length()
		}
		for _, c := range candidates {
			test.That(t, c.Direct, test.ShouldBeTrue)
			test.That(t, c.Length(), test.ShouldAlmostEqual, 20, 1e-9)
			test.That(t, c.Length(), test.ShouldAlmostEqual, csc[[2]spatialmath.Direction{c.StartDirection, c.EndDirection}], 1e-9)
		}
	}
}

func TestAvoidObstaclesBox(t *testing.T) {
	start := poseFacing(t, 0, 0, 1, 0)
	end := poseFacing(t, 15, 0, 1, 0)

	clockwise := box(t)
	counterClockwise, err := NewObstacle(circle(9, -3, 1.5), circle(9, 3, 1.5), circle(5, 3, 1.5), circle(5, -3, 1.5))
	test.That(t, err, test.ShouldBeNil)

	for _, o := range []*Obstacle{clockwise, counterClockwise} {
		obstacles := []*Obstacle{o}
		candidates, err := AvoidObstacles(start, end, 0.5, obstacles)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(candidates), test.ShouldEqual, 8)
		checkCandidates(t, candidates, start, end, obstacles)

		shortest, ok := Shortest(candidates)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, shortest.Length(), test.ShouldAlmostEqual, 18.478982, 1e-5)
	}
}

func TestAvoidObstaclesOverlappingShell(t *testing.T) {
	start := poseFacing(t, 0, 0, 1, 0)
	end := poseFacing(t, 15, 0, 1, 0)
	// sits on the top edge of the box's shell without touching its corner circles
	onShell, err := NewObstacle(circle(7, 4.5, 0.5))
	test.That(t, err, test.ShouldBeNil)
	obstacles := []*Obstacle{box(t), onShell}

	candidates, err := AvoidObstacles(start, end, 0.5, obstacles)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(candidates), test.ShouldBeGreaterThan, 0)
	test.That(t, len(candidates), test.ShouldBeLessThan, 8)
	checkCandidates(t, candidates, start, end, obstacles)

	// the way below the box mirrors the blocked way over it
	shortest, ok := Shortest(candidates)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, shortest.Length(), test.ShouldAlmostEqual, 18.478982, 1e-5)
}

func TestWalkClear(t *testing.T) {
	o := box(t)
	onShell, err := NewObstacle(circle(7, 4.5, 0.5))
	test.That(t, err, test.ShouldBeNil)
	s := &search{obstacles: []*Obstacle{o, onShell}}

	// 0 to 3 in shell order passes the top edge
	over, err := o.Circumvention(o.Direction(), 0, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.walkClear(0, over.Segments()), test.ShouldBeFalse)

	// 2 to 0 in shell order takes the right and bottom edges
	under, err := o.Circumvention(o.Direction(), 2, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.walkClear(0, under.Segments()), test.ShouldBeTrue)

	// the small circle overlaps the box shell, so walking around it is never clear
	around, err := onShell.Circumvention(spatialmath.Right, 0, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.walkClear(1, around.Segments()), test.ShouldBeFalse)

	// the obstacle being walked is exempt
	test.That(t, (&search{obstacles: []*Obstacle{o}}).walkClear(0, over.Segments()), test.ShouldBeTrue)
}

func TestAvoidObstaclesChain(t *testing.T) {
	start := poseFacing(t, 0, 0, 1, 0)
	end := poseFacing(t, 20, 0, 1, 0)
	first, err := NewObstacle(circle(5, 0, 2))
	test.That(t, err, test.ShouldBeNil)
	second, err := NewObstacle(circle(12, 1, 2), circle(12, 4, 2))
	test.That(t, err, test.ShouldBeNil)
	obstacles := []*Obstacle{first, second}

	candidates, err := AvoidObstacles(start, end, 0.5, obstacles)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(candidates), test.ShouldEqual, 12)
	checkCandidates(t, candidates, start, end, obstacles)

	shortest, ok := Shortest(candidates)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, shortest.Length(), test.ShouldAlmostEqual, 20.545299, 1e-5)
}

func TestAvoidObstaclesInvalidInput(t *testing.T) {
	start := poseFacing(t, 0, 0, 1, 0)
	end := poseFacing(t, 20, 0, 1, 0)

	for _, radius := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err := AvoidObstacles(start, end, radius, nil)
		test.That(t, err, test.ShouldNotBeNil)
	}

	_, err := AvoidObstacles(start, start, 1, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "coincide")

	o, err := NewObstacle(circle(10, 0, 1))
	test.That(t, err, test.ShouldBeNil)
	_, err = AvoidObstacles(start, end, 1, []*Obstacle{o, nil})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "obstacle 1 is nil")
}

func TestShortest(t *testing.T) {
	_, ok := Shortest(nil)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, ShortestIndex(nil), test.ShouldEqual, -1)

	straight := func(length float64, dir spatialmath.Direction) Candidate {
		c, err := trajectory.NewComposite(trajectory.NewStraight(r2.Point{}, r2.Point{X: length}))
		test.That(t, err, test.ShouldBeNil)
		return Candidate{StartDirection: dir, EndDirection: dir, Trajectory: c}
	}
	candidates := []Candidate{
		straight(3, spatialmath.Right),
		straight(1, spatialmath.Left),
		straight(1, spatialmath.Right),
	}
	// ties keep the first
	test.That(t, ShortestIndex(candidates), test.ShouldEqual, 1)
	shortest, ok := Shortest(candidates)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, shortest.StartDirection, test.ShouldEqual, spatialmath.Left)
	test.That(t, shortest.Length(), test.ShouldEqual, 1.)
}

func TestPlannerLogs(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	planner := NewPlanner(logger)
	start := poseFacing(t, 0, 0, 1, 0)
	end := poseFacing(t, 20, 0, 1, 0)

	_, err := planner.AvoidObstacles(start, end, 0.5, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("direct tangent is clear").Len(), test.ShouldEqual, 4)
	test.That(t, logs.FilterMessage("expanding frontier").Len(), test.ShouldEqual, 0)
	finished := logs.FilterMessage("planning finished").All()
	test.That(t, len(finished), test.ShouldEqual, 1)
	test.That(t, finished[0].ContextMap()["candidates"], test.ShouldEqual, int64(4))

	o, err := NewObstacle(circle(10, 0, 3))
	test.That(t, err, test.ShouldBeNil)
	_, err = planner.AvoidObstacles(start, end, 0.5, []*Obstacle{o})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("expanding frontier").Len(), test.ShouldBeGreaterThan, 0)
}

func TestPlanWithContext(t *testing.T) {
	planner := NewPlanner(logging.NewTestLogger(t))
	start := poseFacing(t, -5, -1, 1, 1)
	end := poseFacing(t, 20, 4, 1, -1)
	o, err := NewObstacle(circle(7, 1, 5))
	test.That(t, err, test.ShouldBeNil)

	candidates, err := planner.PlanWithContext(context.Background(), start, end, 0.5, []*Obstacle{o})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(candidates), test.ShouldEqual, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = planner.PlanWithContext(ctx, start, end, 0.5, []*Obstacle{o})
	test.That(t, err, test.ShouldEqual, context.Canceled)

	_, err = planner.PlanWithContext(context.Background(), start, start, 0.5, nil)
	test.That(t, err, test.ShouldNotBeNil)
}
