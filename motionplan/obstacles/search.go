package obstacles

import (
	"sort"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/dubins/logging"
	"go.viam.com/dubins/spatialmath"
	"go.viam.com/dubins/trajectory"
)

// Obstacle indices of the two turning circles that belong to no obstacle.
const (
	startIndex = -1
	goalIndex  = -2
)

// node is a circle the search can stand on together with the direction driven around it.
type node struct {
	obstacle int
	circle   int
	dir      spatialmath.Direction
}

// tangent is a segment leaving one node and joining another.
type tangent struct {
	segment  spatialmath.LineSegment
	from, to node
}

// tangentPath is a partial route, tangents in driving order. It is finished once its last tangent
// joins the goal circle. Paths are extended by copying and never modified.
type tangentPath []tangent

func (p tangentPath) last() tangent {
	return p[len(p)-1]
}

func (p tangentPath) finished() bool {
	return p.last().to.obstacle == goalIndex
}

func (p tangentPath) extend(t tangent) tangentPath {
	extended := make(tangentPath, len(p), len(p)+1)
	copy(extended, p)
	return append(extended, t)
}

// visited returns the obstacles the path already stands on or passed.
func (p tangentPath) visited() map[int]bool {
	visited := make(map[int]bool, len(p))
	for _, t := range p {
		if t.to.obstacle >= 0 {
			visited[t.to.obstacle] = true
		}
	}
	return visited
}

type cachedTangent struct {
	tangent tangent
	exists  bool
	clear   bool
}

// tangentCache memoizes tangents between nodes, and whether they are clear of obstacles, for the
// duration of one planning call.
type tangentCache struct {
	entries map[[2]node]cachedTangent
}

func newTangentCache() *tangentCache {
	return &tangentCache{entries: map[[2]node]cachedTangent{}}
}

// search finds tangent paths from the start circle to the goal circle for one direction pair.
type search struct {
	obstacles []*Obstacle
	start     spatialmath.Circle
	goal      spatialmath.Circle
	startDir  spatialmath.Direction
	goalDir   spatialmath.Direction
	cache     *tangentCache
	logger    logging.Logger
}

func (s *search) startNode() node {
	return node{obstacle: startIndex, dir: s.startDir}
}

func (s *search) goalNode() node {
	return node{obstacle: goalIndex, dir: s.goalDir}
}

func (s *search) circle(n node) spatialmath.Circle {
	switch n.obstacle {
	case startIndex:
		return s.start
	case goalIndex:
		return s.goal
	default:
		return s.obstacles[n.obstacle].circles[n.circle]
	}
}

// connect returns the tangent between two nodes, whether it exists and whether no obstacle blocks it.
func (s *search) connect(from, to node) (tangent, bool, bool) {
	key := [2]node{from, to}
	if cached, ok := s.cache.entries[key]; ok {
		return cached.tangent, cached.exists, cached.clear
	}
	seg, exists := spatialmath.TangentBetweenCircles(s.circle(from), from.dir, s.circle(to), to.dir)
	t := tangent{segment: seg, from: from, to: to}
	isClear := exists && s.clear(t)
	s.cache.entries[key] = cachedTangent{tangent: t, exists: exists, clear: isClear}
	return t, exists, isClear
}

// clear reports whether t stays out of every obstacle. The circles t touches at either end are
// exempt, but the rest of their obstacles still count, so a tangent can only reach an obstacle on
// its outer boundary.
func (s *search) clear(t tangent) bool {
	for i, o := range s.obstacles {
		skip := -1
		switch i {
		case t.from.obstacle:
			skip = t.from.circle
		case t.to.obstacle:
			skip = t.to.circle
		}
		if o.intersectsExcept(t.segment, skip) {
			return false
		}
	}
	return true
}

// blockedBy reports whether any obstacle intersects seg.
func (s *search) blockedBy(seg spatialmath.LineSegment) bool {
	return lo.SomeBy(s.obstacles, func(o *Obstacle) bool {
		return o.Intersects(seg)
	})
}

// rank orders the unvisited obstacles: those crossing one of the blocking segments first, then by
// distance of their centroid from the given point.
func (s *search) rank(from r2.Point, blocking []spatialmath.LineSegment, visited map[int]bool) []int {
	candidates := lo.Filter(lo.Range(len(s.obstacles)), func(i, _ int) bool {
		return !visited[i]
	})
	blocks := lo.SliceToMap(candidates, func(i int) (int, bool) {
		return i, lo.SomeBy(blocking, s.obstacles[i].Intersects)
	})
	sort.SliceStable(candidates, func(a, b int) bool {
		ia, ib := candidates[a], candidates[b]
		if blocks[ia] != blocks[ib] {
			return blocks[ia]
		}
		return s.obstacles[ia].centroid.Sub(from).Norm() < s.obstacles[ib].centroid.Sub(from).Norm()
	})
	return candidates
}

// seed returns one path per clear tangent from the start circle to the best ranked obstacle that
// has any.
func (s *search) seed(blocking []spatialmath.LineSegment) []tangentPath {
	for _, i := range s.rank(s.start.Center, blocking, nil) {
		var paths []tangentPath
		for ci := range s.obstacles[i].circles {
			for _, dir := range spatialmath.Directions {
				if t, _, ok := s.connect(s.startNode(), node{obstacle: i, circle: ci, dir: dir}); ok {
					paths = append(paths, tangentPath{t})
				}
			}
		}
		if len(paths) > 0 {
			return paths
		}
	}
	return nil
}

// expand tries to finish path by joining the goal from the obstacle it stands on. If that fails it
// branches to the best ranked unvisited obstacle reachable without changing turn direction. The
// returned paths are either all finished or all unfinished.
func (s *search) expand(path tangentPath) []tangentPath {
	at := path.last().to
	o := s.obstacles[at.obstacle]

	var (
		extended []tangentPath
		blocked  []spatialmath.LineSegment
	)
	for k := range o.circles {
		t, exists, ok := s.connect(node{obstacle: at.obstacle, circle: k, dir: at.dir}, s.goalNode())
		switch {
		case ok:
			extended = append(extended, path.extend(t))
		case exists:
			blocked = append(blocked, t.segment)
		}
	}
	if len(extended) > 0 {
		return extended
	}

	for _, j := range s.rank(o.centroid, blocked, path.visited()) {
		for k := range o.circles {
			from := node{obstacle: at.obstacle, circle: k, dir: at.dir}
			for m := range s.obstacles[j].circles {
				for _, dir := range spatialmath.Directions {
					if t, _, ok := s.connect(from, node{obstacle: j, circle: m, dir: dir}); ok {
						extended = append(extended, path.extend(t))
					}
				}
			}
		}
		if len(extended) > 0 {
			return extended
		}
	}
	return nil
}

// run expands the frontier until every path has finished or died out. Each expansion visits a new
// obstacle, so the search is at most as deep as there are obstacles.
func (s *search) run(blocking []spatialmath.LineSegment) []tangentPath {
	frontier := s.seed(blocking)
	var finished []tangentPath
	for depth := 0; len(frontier) > 0; depth++ {
		s.logger.Debugw("expanding frontier",
			"start", s.startDir.String(), "end", s.goalDir.String(), "depth", depth, "paths", len(frontier))
		var next []tangentPath
		for _, path := range frontier {
			for _, extended := range s.expand(path) {
				if extended.finished() {
					finished = append(finished, extended)
				} else {
					next = append(next, extended)
				}
			}
		}
		frontier = next
	}
	return finished
}

// walkClear reports whether the walk around obstacle i stays out of every other obstacle. Arcs are
// judged by their whole circle.
func (s *search) walkClear(i int, walk []trajectory.Trajectory) bool {
	for j, o := range s.obstacles {
		if j == i {
			continue
		}
		for _, seg := range walk {
			switch seg := seg.(type) {
			case trajectory.Straight:
				if o.Intersects(seg.Segment()) {
					return false
				}
			case trajectory.Arc:
				if o.IntersectsCircle(seg.Circle()) {
					return false
				}
			}
		}
	}
	return true
}

// assemble turns a finished path into a trajectory from start to end: an arc on the start circle,
// the tangents with the walk around each obstacle in between, and an arc on the goal circle. It
// returns false when a walk runs into another obstacle.
func (s *search) assemble(path tangentPath, start, end spatialmath.Pose) (trajectory.Composite, bool, error) {
	first := path[0]
	segments := []trajectory.Trajectory{
		trajectory.NewArcOnCircle(s.start, start.Point(), first.segment.Begin, s.startDir),
		trajectory.NewStraightFromSegment(first.segment),
	}
	for i := 1; i < len(path); i++ {
		arrived, leaving := path[i-1], path[i]
		o := s.obstacles[arrived.to.obstacle]
		walk := o.circumvent(arrived.to.dir, arrived.to.circle, leaving.from.circle, arrived.segment.End, leaving.segment.Begin)
		if !s.walkClear(arrived.to.obstacle, walk) {
			return trajectory.Composite{}, false, nil
		}
		segments = append(segments, walk...)
		segments = append(segments, trajectory.NewStraightFromSegment(leaving.segment))
	}
	segments = append(segments, trajectory.NewArcOnCircle(s.goal, path.last().segment.End, end.Point(), s.goalDir))
	composite, err := trajectory.Join(segments...)
	return composite, err == nil, err
}
