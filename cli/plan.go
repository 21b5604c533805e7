package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.viam.com/dubins/config"
	"go.viam.com/dubins/motionplan/obstacles"
	"go.viam.com/dubins/vis"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultParallel = 4
)

// scenePlan is a scene together with the candidates planned for it.
type scenePlan struct {
	path       string
	scene      *config.Scene
	obstacles  []*obstacles.Obstacle
	candidates []obstacles.Candidate
}

type candidateJSON struct {
	StartDirection string          `json:"start_direction"`
	EndDirection   string          `json:"end_direction"`
	Direct         bool            `json:"direct"`
	Shortest       bool            `json:"shortest"`
	Length         float64         `json:"length"`
	Trajectory     json.RawMessage `json:"trajectory"`
}

type planJSON struct {
	Scene      string          `json:"scene"`
	Candidates []candidateJSON `json:"candidates"`
}

func (r *runner) planScene(ctx context.Context, path string, timeout time.Duration) (*scenePlan, error) {
	scene, err := config.Read(path)
	if err != nil {
		return nil, err
	}
	start, err := scene.StartPose()
	if err != nil {
		return nil, err
	}
	end, err := scene.EndPose()
	if err != nil {
		return nil, err
	}
	built, err := scene.BuildObstacles()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	planner := obstacles.NewPlanner(r.logger.Sublogger("planner"))
	candidates, err := planner.PlanWithContext(ctx, start, end, scene.Radius, built)
	if err != nil {
		return nil, err
	}
	r.logger.Debugw("planned scene", "scene", path, "candidates", len(candidates))
	return &scenePlan{path: path, scene: scene, obstacles: built, candidates: candidates}, nil
}

// planAction is the corresponding Action for 'plan'. Scenes are planned concurrently; every scene
// that fails is reported and the others are still printed.
func (r *runner) planAction(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("at least one scene file is required")
	}

	plans := make([]*scenePlan, len(paths))
	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(max(1, c.Int(limitFlag)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			plan, err := r.planScene(c.Context, path, c.Duration(timeoutFlag))
			plans[i], errs[i] = plan, errors.Wrapf(err, "scene %s", path)
			return nil
		})
	}
	//nolint:errcheck
	g.Wait()

	if c.Bool(jsonFlag) {
		out := make([]planJSON, 0, len(plans))
		for _, plan := range plans {
			if plan == nil {
				continue
			}
			entry, err := plan.toJSON()
			if err != nil {
				return err
			}
			out = append(out, entry)
		}
		if err := writeJSON(c, out); err != nil {
			return err
		}
	} else {
		for _, plan := range plans {
			if plan != nil {
				printPlan(c, plan)
			}
		}
	}
	return multierr.Combine(errs...)
}

func (p *scenePlan) toJSON() (planJSON, error) {
	shortest := obstacles.ShortestIndex(p.candidates)
	out := planJSON{Scene: p.path, Candidates: make([]candidateJSON, 0, len(p.candidates))}
	for i, c := range p.candidates {
		data, err := json.Marshal(c.Trajectory)
		if err != nil {
			return planJSON{}, err
		}
		out.Candidates = append(out.Candidates, candidateJSON{
			StartDirection: c.StartDirection.String(),
			EndDirection:   c.EndDirection.String(),
			Direct:         c.Direct,
			Shortest:       i == shortest,
			Length:         c.Length(),
			Trajectory:     data,
		})
	}
	return out, nil
}

func printPlan(c *cli.Context, plan *scenePlan) {
	printf(c.App.Writer, "%s", plan.path)
	if len(plan.candidates) == 0 {
		warningf(c.App.ErrWriter, "no path found for %s", plan.path)
		return
	}
	shortest := obstacles.ShortestIndex(plan.candidates)
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Start", "End", "Direct", "Length", "Segments", ""})
	for i, cand := range plan.candidates {
		marker := ""
		if i == shortest {
			marker = "shortest"
		}
		t.AppendRow(table.Row{
			i,
			cand.StartDirection.String(),
			cand.EndDirection.String(),
			cand.Direct,
			fmt.Sprintf("%.4f", cand.Length()),
			len(cand.Trajectory.Segments()),
			marker,
		})
	}
	printf(c.App.Writer, "%s", t.Render())
}

// renderAction is the corresponding Action for 'render'.
func (r *runner) renderAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("exactly one scene file is required")
	}
	plan, err := r.planScene(c.Context, c.Args().First(), c.Duration(timeoutFlag))
	if err != nil {
		return err
	}

	drawing := vis.NewDrawing()
	drawing.AddObstacles(plan.obstacles...)
	shortest := obstacles.ShortestIndex(plan.candidates)
	for i, cand := range plan.candidates {
		if i != shortest {
			drawing.AddTrajectory(cand.Trajectory, vis.Alternative, 1)
		}
	}
	if shortest < 0 {
		warningf(c.App.ErrWriter, "no path found for %s", plan.path)
	} else {
		drawing.AddTrajectory(plan.candidates[shortest].Trajectory, vis.Highlight, 3)
	}

	out := c.String(outFlag)
	if err := drawing.SavePNG(out, c.Int(widthFlag), c.Int(heightFlag)); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %s", out)
	return nil
}
