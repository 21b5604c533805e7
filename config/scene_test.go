package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"
)

const sceneJSON = `{
	"radius": ${RADIUS},
	"start": {"x": -5, "y": -1, "direction": {"x": 1, "y": 1}},
	"end": {"x": 20, "y": 4, "bearing_deg": 135},
	"geo_origin": {"lat": 40, "lng": -75},
	"obstacles": [
		{"circles": [{"x": 7, "y": 1, "radius": 5}]},
		{"polygon": [{"x": 30, "y": 0}, {"x": 30, "y": 6}, {"x": 34, "y": 6}], "inflate": 1},
		{"geo_polygon": [{"lat": 40.001, "lng": -75}], "inflate": 2}
	]
}`

func writeScene(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestRead(t *testing.T) {
	t.Setenv("RADIUS", "0.5")
	path := writeScene(t, sceneJSON)

	scene, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scene.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, scene.Radius, test.ShouldEqual, 0.5)
	test.That(t, len(scene.Obstacles), test.ShouldEqual, 3)

	start, err := scene.StartPose()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, start.Bearing().Degrees(), test.ShouldAlmostEqual, 45, 1e-9)
	end, err := scene.EndPose()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, end.Point().X, test.ShouldEqual, 20.)
	test.That(t, end.Bearing().Degrees(), test.ShouldAlmostEqual, 135, 1e-9)

	built, err := scene.BuildObstacles()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(built), test.ShouldEqual, 3)
	test.That(t, len(built[0].Circles()), test.ShouldEqual, 1)
	test.That(t, len(built[1].Shell()), test.ShouldEqual, 3)
	test.That(t, built[1].Circles()[2].Radius, test.ShouldEqual, 1.)

	geoCircle := built[2].Circles()[0]
	test.That(t, geoCircle.Center.X, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, geoCircle.Center.Y, test.ShouldAlmostEqual, 111.19, 0.1)
	test.That(t, geoCircle.Radius, test.ShouldEqual, 2.)

	table := scene.String()
	test.That(t, table, test.ShouldContainSubstring, "geo_polygon")
	test.That(t, table, test.ShouldContainSubstring, "start")
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("bad", strings.NewReader(`{"radius": 1, "turning": 2}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad")
}

func TestValidate(t *testing.T) {
	bearing := 90.
	pose := func() *PoseConfig { return &PoseConfig{BearingDeg: &bearing} }

	for _, tc := range []struct {
		name     string
		scene    Scene
		contains string
	}{
		{"zero radius", Scene{Start: pose(), End: pose()}, "radius"},
		{"missing start", Scene{Radius: 1, End: pose()}, "start"},
		{"missing end", Scene{Radius: 1, Start: pose()}, "end"},
		{"missing heading", Scene{Radius: 1, Start: &PoseConfig{}, End: pose()}, "bearing_deg"},
		{
			"two headings",
			Scene{Radius: 1, Start: &PoseConfig{BearingDeg: &bearing, Direction: &PointConfig{X: 1}}, End: pose()},
			"only one of",
		},
		{"zero direction", Scene{Radius: 1, Start: &PoseConfig{Direction: &PointConfig{}}, End: pose()}, "zero vector"},
		{"empty obstacle", Scene{Radius: 1, Start: pose(), End: pose(), Obstacles: []ObstacleConfig{{}}}, "circles"},
		{
			"mixed obstacle",
			Scene{Radius: 1, Start: pose(), End: pose(), Obstacles: []ObstacleConfig{{
				Circles: []CircleConfig{{Radius: 1}},
				Polygon: []PointConfig{{}},
				Inflate: 1,
			}}},
			"only one of",
		},
		{
			"bad circle",
			Scene{Radius: 1, Start: pose(), End: pose(), Obstacles: []ObstacleConfig{{Circles: []CircleConfig{{Radius: -1}}}}},
			"circles.0",
		},
		{
			"uninflated polygon",
			Scene{Radius: 1, Start: pose(), End: pose(), Obstacles: []ObstacleConfig{{Polygon: []PointConfig{{}}}}},
			"inflate",
		},
		{
			"geo without origin",
			Scene{Radius: 1, Start: pose(), End: pose(), Obstacles: []ObstacleConfig{{
				GeoPolygon: []GeoPointConfig{{Lat: 40, Lng: -75}},
				Inflate:    1,
			}}},
			"geo_origin",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scene.Validate("")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.contains)
		})
	}

	valid := Scene{Radius: 1, Start: pose(), End: pose()}
	test.That(t, valid.Validate(""), test.ShouldBeNil)
}

func TestValidateReportsEveryObstacle(t *testing.T) {
	bearing := 0.
	scene := Scene{
		Radius: 1,
		Start:  &PoseConfig{BearingDeg: &bearing},
		End:    &PoseConfig{Y: 10, BearingDeg: &bearing},
		Obstacles: []ObstacleConfig{
			{},
			{Circles: []CircleConfig{{X: 5, Radius: 1}}},
			{Polygon: []PointConfig{{X: 1}}},
		},
	}
	err := scene.Validate("")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 2)
}

func TestBuildObstaclesNested(t *testing.T) {
	bearing := 0.
	scene := Scene{
		Radius: 1,
		Start:  &PoseConfig{BearingDeg: &bearing},
		End:    &PoseConfig{Y: 10, BearingDeg: &bearing},
		Obstacles: []ObstacleConfig{
			{Circles: []CircleConfig{{X: 5, Radius: 1}}},
			{Circles: []CircleConfig{{X: 0, Radius: 5}, {X: 1, Radius: 1}}},
		},
	}
	test.That(t, scene.Validate(""), test.ShouldBeNil)
	_, err := scene.BuildObstacles()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "nested")
	test.That(t, err.Error(), test.ShouldContainSubstring, "obstacles.1")
}
