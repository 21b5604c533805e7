package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"go.viam.com/dubins/motionplan/dubins"
)

type pathJSON struct {
	Word       string          `json:"word"`
	Length     float64         `json:"length"`
	Trajectory json.RawMessage `json:"trajectory"`
}

// shortestAction is the corresponding Action for 'shortest'.
func (r *runner) shortestAction(c *cli.Context) error {
	start, err := parsePose(c.String(startFlag))
	if err != nil {
		return err
	}
	end, err := parsePose(c.String(endFlag))
	if err != nil {
		return err
	}
	solver := &dubins.Dubins{Radius: c.Float64(radiusFlag)}

	var paths []dubins.Path
	if c.Bool(allFlag) {
		if paths, err = solver.AllPaths(start, end); err != nil {
			return err
		}
	} else {
		shortest, err := solver.ShortestPath(start, end)
		if err != nil {
			return err
		}
		paths = []dubins.Path{shortest}
	}
	r.logger.Debugw("computed dubins paths", "start", start.String(), "end", end.String(), "paths", len(paths))

	if c.Bool(jsonFlag) {
		out := make([]pathJSON, 0, len(paths))
		for _, p := range paths {
			data, err := json.Marshal(p.Trajectory)
			if err != nil {
				return err
			}
			out = append(out, pathJSON{Word: p.Word.String(), Length: p.Length(), Trajectory: data})
		}
		return writeJSON(c, out)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Word", "Length", "Segments"})
	for _, p := range paths {
		t.AppendRow(table.Row{p.Word.String(), fmt.Sprintf("%.4f", p.Length()), len(p.Trajectory.Segments())})
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

func writeJSON(c *cli.Context, v interface{}) error {
	encoder := json.NewEncoder(c.App.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
