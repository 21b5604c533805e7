package trajectory

import (
	"encoding/json"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/pkg/errors"

	"go.viam.com/dubins/spatialmath"
)

// Envelope types used in the JSON form of a trajectory.
const (
	StraightType  = "straight"
	ArcType       = "arc"
	CompositeType = "composite"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type angleJSON struct {
	Radians float64 `json:"radians"`
}

type straightJSON struct {
	Begin pointJSON `json:"begin"`
	End   pointJSON `json:"end"`
}

type arcJSON struct {
	Center    pointJSON `json:"center"`
	Radius    float64   `json:"radius"`
	Start     angleJSON `json:"start"`
	Sweep     angleJSON `json:"sweep"`
	Direction string    `json:"direction"`
}

type compositeJSON struct {
	Segments []json.RawMessage `json:"segments"`
}

func toPointJSON(p r2.Point) pointJSON {
	return pointJSON{X: p.X, Y: p.Y}
}

func (p pointJSON) point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Marshal encodes t as {"type": ..., "payload": ...}.
func Marshal(t Trajectory) ([]byte, error) {
	var (
		kind    string
		payload interface{}
	)
	switch v := t.(type) {
	case Straight:
		kind = StraightType
		payload = straightJSON{Begin: toPointJSON(v.segment.Begin), End: toPointJSON(v.segment.End)}
	case Arc:
		kind = ArcType
		payload = arcJSON{
			Center:    toPointJSON(v.circle.Center),
			Radius:    v.circle.Radius,
			Start:     angleJSON{Radians: v.start.Radians()},
			Sweep:     angleJSON{Radians: v.sweep.Radians()},
			Direction: v.dir.String(),
		}
	case Composite:
		kind = CompositeType
		segments := make([]json.RawMessage, 0, len(v.segments))
		for _, seg := range v.segments {
			data, err := Marshal(seg)
			if err != nil {
				return nil, err
			}
			segments = append(segments, data)
		}
		payload = compositeJSON{Segments: segments}
	default:
		return nil, NewUnknownTrajectoryTypeError(t)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s payload", kind)
	}
	return json.Marshal(envelope{Type: kind, Payload: data})
}

// Unmarshal decodes a trajectory written by Marshal. Composites are validated for continuity again.
func Unmarshal(data []byte) (Trajectory, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "failed to decode trajectory envelope")
	}
	switch env.Type {
	case StraightType:
		var s straightJSON
		if err := json.Unmarshal(env.Payload, &s); err != nil {
			return nil, errors.Wrap(err, "failed to decode straight payload")
		}
		return NewStraight(s.Begin.point(), s.End.point()), nil
	case ArcType:
		var a arcJSON
		if err := json.Unmarshal(env.Payload, &a); err != nil {
			return nil, errors.Wrap(err, "failed to decode arc payload")
		}
		circle, err := spatialmath.NewCircle(a.Center.point(), a.Radius)
		if err != nil {
			return nil, err
		}
		dir, err := spatialmath.ParseDirection(a.Direction)
		if err != nil {
			return nil, err
		}
		if a.Sweep.Radians*dir.Sign() < 0 {
			return nil, NewArcDirectionMismatchError(s1.Angle(a.Sweep.Radians), dir)
		}
		return Arc{circle: circle, start: s1.Angle(a.Start.Radians), sweep: s1.Angle(a.Sweep.Radians), dir: dir}, nil
	case CompositeType:
		var c compositeJSON
		if err := json.Unmarshal(env.Payload, &c); err != nil {
			return nil, errors.Wrap(err, "failed to decode composite payload")
		}
		segments := make([]Trajectory, 0, len(c.Segments))
		for i, raw := range c.Segments {
			seg, err := Unmarshal(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "segment %d", i)
			}
			segments = append(segments, seg)
		}
		return NewComposite(segments...)
	default:
		return nil, errors.Errorf("unknown trajectory type %q", env.Type)
	}
}

// MarshalJSON implements json.Marshaler.
func (s Straight) MarshalJSON() ([]byte, error) {
	return Marshal(s)
}

// MarshalJSON implements json.Marshaler.
func (a Arc) MarshalJSON() ([]byte, error) {
	return Marshal(a)
}

// MarshalJSON implements json.Marshaler.
func (c Composite) MarshalJSON() ([]byte, error) {
	return Marshal(c)
}
