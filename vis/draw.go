// Package vis draws obstacles and trajectories into images.
package vis

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/dubins/motionplan/obstacles"
	"go.viam.com/dubins/spatialmath"
	"go.viam.com/dubins/trajectory"
)

// Colors used for the parts of a drawing.
var (
	Background    = color.RGBA{255, 255, 255, 255}
	ObstacleFill  = color.RGBA{200, 200, 200, 255}
	ShellStroke   = color.RGBA{90, 90, 90, 255}
	Highlight     = color.RGBA{220, 30, 30, 255}
	Alternative   = color.RGBA{70, 110, 220, 255}
	PoseIndicator = color.RGBA{0, 150, 0, 255}
)

// margin is the border in pixels left around the drawn scene.
const margin = 20.

// sampleStep is the spacing, in world units, of the polyline drawn for a trajectory, relative to
// the size of the scene.
const sampleStep = 1. / 500

// minExtent keeps degenerate scenes, such as a single straight line, drawable.
const minExtent = 1e-6

type drawnTrajectory struct {
	trajectory trajectory.Trajectory
	color      color.Color
	width      float64
}

// Drawing collects obstacles and trajectories and renders them with north up.
type Drawing struct {
	obstacles    []*obstacles.Obstacle
	trajectories []drawnTrajectory
}

// NewDrawing returns an empty drawing.
func NewDrawing() *Drawing {
	return &Drawing{}
}

// AddObstacles adds obstacles, drawn as filled circles with their shells.
func (d *Drawing) AddObstacles(obs ...*obstacles.Obstacle) {
	d.obstacles = append(d.obstacles, obs...)
}

// AddTrajectory adds a trajectory drawn as a line of the given color and width in pixels. Its begin
// and end poses are marked.
func (d *Drawing) AddTrajectory(t trajectory.Trajectory, c color.Color, width float64) {
	d.trajectories = append(d.trajectories, drawnTrajectory{trajectory: t, color: c, width: width})
}

// frame maps world coordinates into pixels.
type frame struct {
	min    r2.Point
	scale  float64
	height float64
}

func (f frame) toPixel(p r2.Point) (float64, float64) {
	x := margin + (p.X-f.min.X)*f.scale
	y := f.height - margin - (p.Y-f.min.Y)*f.scale
	return x, y
}

func (d *Drawing) bounds() (r2.Rect, error) {
	rect := r2.EmptyRect()
	for _, o := range d.obstacles {
		for _, c := range o.Circles() {
			rect = rect.AddPoint(c.Center.Sub(r2.Point{X: c.Radius, Y: c.Radius}))
			rect = rect.AddPoint(c.Center.Add(r2.Point{X: c.Radius, Y: c.Radius}))
		}
	}
	for _, t := range d.trajectories {
		for _, leaf := range trajectory.Flatten(t.trajectory) {
			rect = rect.AddPoint(leaf.BeginPose().Point())
			rect = rect.AddPoint(leaf.EndPose().Point())
			if arc, ok := leaf.(trajectory.Arc); ok {
				c := arc.Circle()
				rect = rect.AddPoint(c.Center.Sub(r2.Point{X: c.Radius, Y: c.Radius}))
				rect = rect.AddPoint(c.Center.Add(r2.Point{X: c.Radius, Y: c.Radius}))
			}
		}
	}
	if rect.IsEmpty() {
		return rect, errors.New("nothing to draw")
	}
	return rect, nil
}

func (d *Drawing) frame(width, height int) (frame, r2.Rect, error) {
	if float64(width) <= 2*margin || float64(height) <= 2*margin {
		return frame{}, r2.Rect{}, errors.Errorf("image of %dx%d pixels leaves no room to draw", width, height)
	}
	rect, err := d.bounds()
	if err != nil {
		return frame{}, rect, err
	}
	size := rect.Size()
	scale := math.Min(
		(float64(width)-2*margin)/math.Max(size.X, minExtent),
		(float64(height)-2*margin)/math.Max(size.Y, minExtent),
	)
	return frame{min: rect.Lo(), scale: scale, height: float64(height)}, rect, nil
}

// Render draws the scene scaled to fit an image of the given size.
func (d *Drawing) Render(width, height int) (image.Image, error) {
	dc, err := d.draw(width, height)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG renders the scene and writes it to w as a PNG.
func (d *Drawing) EncodePNG(w io.Writer, width, height int) error {
	dc, err := d.draw(width, height)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG renders the scene into a PNG file.
func (d *Drawing) SavePNG(path string, width, height int) error {
	dc, err := d.draw(width, height)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func (d *Drawing) draw(width, height int) (*gg.Context, error) {
	f, rect, err := d.frame(width, height)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(Background)
	dc.Clear()

	for _, o := range d.obstacles {
		dc.SetColor(ObstacleFill)
		for _, c := range o.Circles() {
			x, y := f.toPixel(c.Center)
			dc.DrawCircle(x, y, c.Radius*f.scale)
			dc.Fill()
		}
		dc.SetColor(ShellStroke)
		dc.SetLineWidth(1)
		for _, edge := range o.Shell() {
			x1, y1 := f.toPixel(edge.Begin)
			x2, y2 := f.toPixel(edge.End)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}

	step := math.Max(math.Max(rect.Size().X, rect.Size().Y)*sampleStep, minExtent)
	for _, t := range d.trajectories {
		poses, err := trajectory.Sample(t.trajectory, step)
		if err != nil {
			return nil, err
		}
		dc.SetColor(t.color)
		dc.SetLineWidth(t.width)
		for i, p := range poses {
			x, y := f.toPixel(p.Point())
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
		drawPose(dc, f, t.trajectory.BeginPose())
		drawPose(dc, f, t.trajectory.EndPose())
	}
	return dc, nil
}

// drawPose marks a pose with a dot and a short line along its heading.
func drawPose(dc *gg.Context, f frame, pose spatialmath.Pose) {
	x, y := f.toPixel(pose.Point())
	dc.SetColor(PoseIndicator)
	dc.DrawPoint(x, y, 3)
	dc.Fill()
	heading := pose.Direction()
	dc.SetLineWidth(2)
	dc.DrawLine(x, y, x+12*heading.X, y-12*heading.Y)
	dc.Stroke()
}
