// Package dubins computes Dubins paths: the curve-straight-curve and curve-curve-curve trajectories
// joining two poses for a vehicle that cannot turn tighter than a fixed radius.
package dubins

import (
	"math"
	"sort"

	"github.com/golang/geo/s1"

	"go.viam.com/dubins/spatialmath"
	"go.viam.com/dubins/trajectory"
)

// coincidentEpsilon is how close two poses may be before no path is defined between them.
const coincidentEpsilon = 1e-9

// Word names one of the six Dubins path families by its turn and straight sequence.
type Word int

// The six Dubins words, in the order AllPaths reports them.
const (
	RSR Word = iota
	LSL
	RSL
	LSR
	RLR
	LRL
)

// Words lists every Dubins word.
var Words = []Word{RSR, LSL, RSL, LSR, RLR, LRL}

var wordNames = map[Word]string{RSR: "RSR", LSL: "LSL", RSL: "RSL", LSR: "LSR", RLR: "RLR", LRL: "LRL"}

func (w Word) String() string {
	if name, ok := wordNames[w]; ok {
		return name
	}
	return "unknown"
}

// IsCSC is true for the words with a straight middle segment.
func (w Word) IsCSC() bool {
	return w == RSR || w == LSL || w == RSL || w == LSR
}

// ParseWord converts a name such as "RSL" into a Word.
func ParseWord(s string) (Word, error) {
	for w, name := range wordNames {
		if name == s {
			return w, nil
		}
	}
	return 0, NewUnknownWordError(s)
}

// turns returns the turn direction of the first and last curve of w.
func (w Word) turns() (spatialmath.Direction, spatialmath.Direction) {
	switch w {
	case RSR, RLR:
		return spatialmath.Right, spatialmath.Right
	case LSL, LRL:
		return spatialmath.Left, spatialmath.Left
	case RSL:
		return spatialmath.Right, spatialmath.Left
	default:
		return spatialmath.Left, spatialmath.Right
	}
}

// Path is a feasible Dubins trajectory together with the word it realizes.
type Path struct {
	Word       Word
	Trajectory trajectory.Composite
}

// Length of the path.
func (p Path) Length() float64 {
	return p.Trajectory.Length()
}

// Dubins holds the turning radius paths are computed for.
type Dubins struct {
	Radius float64
}

// AllPaths returns one path per feasible word, in the order of Words. Infeasible words are left out;
// an error is only returned for invalid input.
func (d *Dubins) AllPaths(start, end spatialmath.Pose) ([]Path, error) {
	if !(d.Radius > 0) || math.IsInf(d.Radius, 0) {
		return nil, spatialmath.NewInvalidRadiusError(d.Radius)
	}
	if spatialmath.PoseAlmostEqual(start, end, coincidentEpsilon) {
		return nil, NewCoincidentPosesError(start, end)
	}

	paths := make([]Path, 0, len(Words))
	for _, w := range Words {
		var (
			composite trajectory.Composite
			ok        bool
			err       error
		)
		if w.IsCSC() {
			composite, ok, err = d.csc(w, start, end)
		} else {
			composite, ok, err = d.ccc(w, start, end)
		}
		if err != nil {
			return nil, err
		}
		if ok {
			paths = append(paths, Path{Word: w, Trajectory: composite})
		}
	}
	return paths, nil
}

// ShortestPath returns the feasible path of minimum length, or ErrNoPath.
func (d *Dubins) ShortestPath(start, end spatialmath.Pose) (Path, error) {
	paths, err := d.AllPaths(start, end)
	if err != nil {
		return Path{}, err
	}
	if len(paths) == 0 {
		return Path{}, ErrNoPath
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Length() < paths[j].Length()
	})
	return paths[0], nil
}

// AllPaths is shorthand for (&Dubins{Radius: radius}).AllPaths(start, end).
func AllPaths(start, end spatialmath.Pose, radius float64) ([]Path, error) {
	d := &Dubins{Radius: radius}
	return d.AllPaths(start, end)
}

// csc builds arc, tangent, arc between the tangent circles at start and end.
func (d *Dubins) csc(w Word, start, end spatialmath.Pose) (trajectory.Composite, bool, error) {
	first, last := w.turns()
	c1 := spatialmath.TangentCircle(start, d.Radius, first)
	c2 := spatialmath.TangentCircle(end, d.Radius, last)
	tangent, ok := spatialmath.TangentBetweenCircles(c1, first, c2, last)
	if !ok {
		return trajectory.Composite{}, false, nil
	}
	composite, err := trajectory.Join(
		trajectory.NewArcOnCircle(c1, start.Point(), tangent.Begin, first),
		trajectory.NewStraightFromSegment(tangent),
		trajectory.NewArcOnCircle(c2, tangent.End, end.Point(), last),
	)
	if err != nil {
		return trajectory.Composite{}, false, err
	}
	return composite, true, nil
}

// ccc builds three arcs: around the start circle, around a middle circle touching both end circles,
// then around the end circle. The middle circle sits on the outside of the turn.
func (d *Dubins) ccc(w Word, start, end spatialmath.Pose) (trajectory.Composite, bool, error) {
	dir, _ := w.turns()
	c1 := spatialmath.TangentCircle(start, d.Radius, dir)
	c2 := spatialmath.TangentCircle(end, d.Radius, dir)
	between := c2.Center.Sub(c1.Center)
	dist := between.Norm()
	if dist > 4*d.Radius || dist < coincidentEpsilon {
		return trajectory.Composite{}, false, nil
	}

	offset := s1.Angle(math.Acos(dist / (4 * d.Radius)))
	bearing := spatialmath.BearingOf(between) - s1.Angle(dir.Sign())*offset
	middle := spatialmath.Circle{
		Center: c1.Center.Add(spatialmath.BearingVector(bearing).Mul(2 * d.Radius)),
		Radius: d.Radius,
	}
	in := c1.Center.Add(middle.Center).Mul(0.5)
	out := c2.Center.Add(middle.Center).Mul(0.5)

	composite, err := trajectory.NewComposite(
		trajectory.NewArcOnCircle(c1, start.Point(), in, dir),
		trajectory.NewArcOnCircle(middle, in, out, dir.Opposite()),
		trajectory.NewArcOnCircle(c2, out, end.Point(), dir),
	)
	if err != nil {
		return trajectory.Composite{}, false, err
	}
	return composite, true, nil
}
