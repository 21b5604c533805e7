// Package config reads planning scenes: a turning radius, start and end poses and the obstacles in
// between, described in JSON files.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/a8m/envsubst"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/jedib0t/go-pretty/v6/table"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/dubins/motionplan/obstacles"
	"go.viam.com/dubins/spatialmath"
)

// Scene describes one planning problem.
type Scene struct {
	Radius    float64          `json:"radius"`
	Start     *PoseConfig      `json:"start"`
	End       *PoseConfig      `json:"end"`
	GeoOrigin *GeoPointConfig  `json:"geo_origin,omitempty"`
	Obstacles []ObstacleConfig `json:"obstacles,omitempty"`

	ConfigFilePath string `json:"-"`
}

// PointConfig is a planar point.
type PointConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p PointConfig) point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// PoseConfig is a position with either a compass bearing in degrees or a direction vector.
type PoseConfig struct {
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	BearingDeg *float64     `json:"bearing_deg,omitempty"`
	Direction  *PointConfig `json:"direction,omitempty"`
}

// GeoPointConfig is a latitude and longitude in degrees.
type GeoPointConfig struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (g GeoPointConfig) point() *geo.Point {
	return geo.NewPoint(g.Lat, g.Lng)
}

// CircleConfig is a circle of an obstacle.
type CircleConfig struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// ObstacleConfig describes an obstacle by exactly one of its circles, a planar polygon or a
// geographic polygon. Polygon vertices become circles of radius Inflate.
type ObstacleConfig struct {
	Circles    []CircleConfig   `json:"circles,omitempty"`
	Polygon    []PointConfig    `json:"polygon,omitempty"`
	GeoPolygon []GeoPointConfig `json:"geo_polygon,omitempty"`
	Inflate    float64          `json:"inflate,omitempty"`
}

// Read reads a scene from the given file, substituting ${VAR} placeholders from the environment.
func Read(filePath string) (*Scene, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a scene from r and validates it. originalPath names the file r came from, if any.
func FromReader(originalPath string, r io.Reader) (*Scene, error) {
	var scene Scene
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&scene); err != nil {
		return nil, errors.Wrapf(err, "cannot parse scene %q", originalPath)
	}
	scene.ConfigFilePath = originalPath
	if err := scene.Validate(""); err != nil {
		return nil, err
	}
	return &scene, nil
}

// Validate ensures all parts of the scene are valid. Every invalid obstacle is reported.
func (s *Scene) Validate(path string) error {
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return utils.NewConfigValidationError(path, errors.Errorf("radius must be positive and finite, got %v", s.Radius))
	}
	if s.Start == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "start")
	}
	if err := s.Start.Validate(joinPath(path, "start")); err != nil {
		return err
	}
	if s.End == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "end")
	}
	if err := s.End.Validate(joinPath(path, "end")); err != nil {
		return err
	}
	var errs error
	for idx := range s.Obstacles {
		errs = multierr.Append(errs,
			s.Obstacles[idx].Validate(joinPath(path, fmt.Sprintf("obstacles.%d", idx)), s.GeoOrigin != nil))
	}
	return errs
}

// Validate ensures the pose has exactly one way of giving its heading.
func (p *PoseConfig) Validate(path string) error {
	switch {
	case p.BearingDeg == nil && p.Direction == nil:
		return utils.NewConfigValidationFieldRequiredError(path, "bearing_deg")
	case p.BearingDeg != nil && p.Direction != nil:
		return utils.NewConfigValidationError(path, errors.New("only one of bearing_deg and direction may be set"))
	case p.Direction != nil && p.Direction.X == 0 && p.Direction.Y == 0:
		return utils.NewConfigValidationError(path, errors.New("direction must not be the zero vector"))
	}
	return nil
}

// Pose converts the config into a pose.
func (p *PoseConfig) Pose() (spatialmath.Pose, error) {
	point := r2.Point{X: p.X, Y: p.Y}
	if p.Direction != nil {
		return spatialmath.NewPoseFromDirection(point, p.Direction.point())
	}
	if p.BearingDeg == nil {
		return spatialmath.Pose{}, utils.NewConfigValidationFieldRequiredError("", "bearing_deg")
	}
	return spatialmath.NewPose(point, s1.Angle(*p.BearingDeg)*s1.Degree), nil
}

// Validate ensures exactly one obstacle description is given and that polygons are inflated.
func (o *ObstacleConfig) Validate(path string, hasGeoOrigin bool) error {
	kinds := 0
	for _, n := range []int{len(o.Circles), len(o.Polygon), len(o.GeoPolygon)} {
		if n > 0 {
			kinds++
		}
	}
	switch {
	case kinds == 0:
		return utils.NewConfigValidationFieldRequiredError(path, "circles")
	case kinds > 1:
		return utils.NewConfigValidationError(path, errors.New("only one of circles, polygon and geo_polygon may be set"))
	}
	for idx, c := range o.Circles {
		if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
			return utils.NewConfigValidationError(joinPath(path, fmt.Sprintf("circles.%d", idx)),
				errors.Errorf("radius must be positive and finite, got %v", c.Radius))
		}
	}
	if len(o.Circles) == 0 && !(o.Inflate > 0) {
		return utils.NewConfigValidationError(path, errors.New("polygons need a positive inflate radius"))
	}
	if len(o.GeoPolygon) > 0 && !hasGeoOrigin {
		return utils.NewConfigValidationFieldRequiredError("", "geo_origin")
	}
	return nil
}

// StartPose returns the start of the scene.
func (s *Scene) StartPose() (spatialmath.Pose, error) {
	return s.Start.Pose()
}

// EndPose returns the end of the scene.
func (s *Scene) EndPose() (spatialmath.Pose, error) {
	return s.End.Pose()
}

// BuildObstacles builds every obstacle of the scene. Geographic polygons are placed in meters
// relative to the scene's geo origin.
func (s *Scene) BuildObstacles() ([]*obstacles.Obstacle, error) {
	built := make([]*obstacles.Obstacle, 0, len(s.Obstacles))
	var errs error
	for idx, cfg := range s.Obstacles {
		o, err := cfg.obstacle(s.GeoOrigin)
		if err != nil {
			errs = multierr.Append(errs, utils.NewConfigValidationError(fmt.Sprintf("obstacles.%d", idx), err))
			continue
		}
		built = append(built, o)
	}
	if errs != nil {
		return nil, errs
	}
	return built, nil
}

func (o *ObstacleConfig) obstacle(origin *GeoPointConfig) (*obstacles.Obstacle, error) {
	switch {
	case len(o.Circles) > 0:
		circles := make([]spatialmath.Circle, 0, len(o.Circles))
		for _, c := range o.Circles {
			circle, err := spatialmath.NewCircle(r2.Point{X: c.X, Y: c.Y}, c.Radius)
			if err != nil {
				return nil, err
			}
			circles = append(circles, circle)
		}
		return obstacles.NewObstacle(circles...)
	case len(o.Polygon) > 0:
		vertices := make([]r2.Point, 0, len(o.Polygon))
		for _, p := range o.Polygon {
			vertices = append(vertices, p.point())
		}
		return obstacles.NewObstacleFromPolygon(vertices, o.Inflate)
	case len(o.GeoPolygon) > 0:
		if origin == nil {
			return nil, utils.NewConfigValidationFieldRequiredError("", "geo_origin")
		}
		vertices := make([]r2.Point, 0, len(o.GeoPolygon))
		for _, g := range o.GeoPolygon {
			vertices = append(vertices, spatialmath.GeoPointToPoint(g.point(), origin.point()))
		}
		return obstacles.NewObstacleFromPolygon(vertices, o.Inflate)
	default:
		return nil, obstacles.NewEmptyObstacleError()
	}
}

func (o *ObstacleConfig) kind() string {
	switch {
	case len(o.Circles) > 0:
		return "circles"
	case len(o.Polygon) > 0:
		return "polygon"
	case len(o.GeoPolygon) > 0:
		return "geo_polygon"
	default:
		return "empty"
	}
}

// String prints a table of the scene: the poses, then one row per obstacle.
func (s *Scene) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Kind", "Position", "Heading", "Radius"})
	for _, named := range []struct {
		name string
		pose *PoseConfig
	}{{"start", s.Start}, {"end", s.End}} {
		if named.pose == nil {
			continue
		}
		heading := ""
		if pose, err := named.pose.Pose(); err == nil {
			heading = fmt.Sprintf("%.2f°", pose.Bearing().Degrees())
		}
		t.AppendRow(table.Row{"", named.name, fmt.Sprintf("X:%.2f, Y:%.2f", named.pose.X, named.pose.Y), heading, s.Radius})
	}
	for i, o := range s.Obstacles {
		radius := o.Inflate
		if len(o.Circles) > 0 {
			radius = o.Circles[0].Radius
		}
		circles := len(o.Circles) + len(o.Polygon) + len(o.GeoPolygon)
		t.AppendRow(table.Row{i, o.kind(), fmt.Sprintf("%d circles", circles), "", radius})
	}
	return t.Render()
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
