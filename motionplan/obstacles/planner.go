package obstacles

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"

	"go.viam.com/dubins/logging"
	"go.viam.com/dubins/spatialmath"
	"go.viam.com/dubins/trajectory"
)

// coincidentEpsilon is how close start and end may be before no path is defined between them.
const coincidentEpsilon = 1e-9

// Candidate is one planned trajectory together with the turn directions it starts and ends with.
// Direct candidates are plain arc, tangent, arc paths that no obstacle obstructs.
type Candidate struct {
	StartDirection spatialmath.Direction
	EndDirection   spatialmath.Direction
	Direct         bool
	Trajectory     trajectory.Composite
}

// Length of the candidate trajectory.
func (c Candidate) Length() float64 {
	return c.Trajectory.Length()
}

// Shortest returns the candidate with the smallest length. ok is false for an empty list.
func Shortest(candidates []Candidate) (Candidate, bool) {
	i := ShortestIndex(candidates)
	if i < 0 {
		return Candidate{}, false
	}
	return candidates[i], true
}

// ShortestIndex returns the index of the first candidate with the smallest length, or -1 for an
// empty list.
func ShortestIndex(candidates []Candidate) int {
	_, i := lo.MinIndexBy(candidates, func(a, b Candidate) bool {
		return a.Length() < b.Length()
	})
	return i
}

// Planner finds trajectories that avoid obstacles. A Planner holds no state between calls and may
// be used concurrently.
type Planner struct {
	logger logging.Logger
}

// NewPlanner returns a planner that logs its search at debug level to logger.
func NewPlanner(logger logging.Logger) *Planner {
	return &Planner{logger: logger}
}

// AvoidObstacles plans with a planner that does not log.
func AvoidObstacles(start, end spatialmath.Pose, radius float64, obstacles []*Obstacle) ([]Candidate, error) {
	return NewPlanner(logging.NewBlankLogger("obstacles")).AvoidObstacles(start, end, radius, obstacles)
}

// AvoidObstacles returns candidate trajectories from start to end for each of the four pairs of
// start and end turn directions. A pair whose direct path is clear contributes that path; otherwise
// a greedy search hops across obstacle shells towards the goal, and every route it completes
// becomes a candidate. Pairs the search cannot complete contribute nothing, so an empty result
// means no path was found. Errors are only returned for invalid input.
//
// The search always expands towards the nearest promising obstacle and is not guaranteed to find
// the shortest route around several obstacles.
func (p *Planner) AvoidObstacles(
	start, end spatialmath.Pose,
	radius float64,
	obstacles []*Obstacle,
) ([]Candidate, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, spatialmath.NewInvalidRadiusError(radius)
	}
	if spatialmath.PoseAlmostEqual(start, end, coincidentEpsilon) {
		return nil, NewCoincidentPosesError(start, end)
	}
	for i, o := range obstacles {
		if o == nil {
			return nil, NewNilObstacleError(i)
		}
	}

	cache := newTangentCache()
	var candidates []Candidate
	for _, startDir := range spatialmath.Directions {
		for _, endDir := range spatialmath.Directions {
			s := &search{
				obstacles: obstacles,
				start:     spatialmath.TangentCircle(start, radius, startDir),
				goal:      spatialmath.TangentCircle(end, radius, endDir),
				startDir:  startDir,
				goalDir:   endDir,
				cache:     cache,
				logger:    p.logger,
			}
			found, err := p.planPair(s, start, end)
			if err != nil {
				return nil, errors.Wrapf(err, "planning %s to %s", startDir, endDir)
			}
			candidates = append(candidates, found...)
		}
	}
	p.logger.Debugw("planning finished", "candidates", len(candidates), "obstacles", len(obstacles))
	return candidates, nil
}

func (p *Planner) planPair(s *search, start, end spatialmath.Pose) ([]Candidate, error) {
	var blocking []spatialmath.LineSegment
	direct, ok := spatialmath.TangentBetweenCircles(s.start, s.startDir, s.goal, s.goalDir)
	if ok {
		if !s.blockedBy(direct) {
			p.logger.Debugw("direct tangent is clear", "start", s.startDir.String(), "end", s.goalDir.String())
			composite, err := trajectory.Join(
				trajectory.NewArcOnCircle(s.start, start.Point(), direct.Begin, s.startDir),
				trajectory.NewStraightFromSegment(direct),
				trajectory.NewArcOnCircle(s.goal, direct.End, end.Point(), s.goalDir),
			)
			if err != nil {
				return nil, err
			}
			return []Candidate{{StartDirection: s.startDir, EndDirection: s.goalDir, Direct: true, Trajectory: composite}}, nil
		}
		blocking = append(blocking, direct)
	}

	paths := s.run(blocking)
	if len(paths) == 0 {
		p.logger.Debugw("no path around obstacles", "start", s.startDir.String(), "end", s.goalDir.String())
		return nil, nil
	}
	candidates := make([]Candidate, 0, len(paths))
	for _, path := range paths {
		composite, ok, err := s.assemble(path, start, end)
		if err != nil {
			return nil, err
		}
		if !ok {
			p.logger.Debugw("dropping path whose walk crosses another obstacle",
				"start", s.startDir.String(), "end", s.goalDir.String())
			continue
		}
		candidates = append(candidates, Candidate{StartDirection: s.startDir, EndDirection: s.goalDir, Trajectory: composite})
	}
	return candidates, nil
}

// PlanWithContext runs AvoidObstacles on its own goroutine and gives up when ctx is done. Planning
// itself cannot be interrupted; an abandoned call runs to completion in the background.
func (p *Planner) PlanWithContext(
	ctx context.Context,
	start, end spatialmath.Pose,
	radius float64,
	obstacles []*Obstacle,
) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type result struct {
		candidates []Candidate
		err        error
	}
	done := make(chan result, 1)
	utils.PanicCapturingGoWithCallback(func() {
		candidates, err := p.AvoidObstacles(start, end, radius, obstacles)
		done <- result{candidates, err}
	}, func(err interface{}) {
		done <- result{err: errors.Errorf("planner panicked: %v", err)}
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.candidates, res.err
	}
}
