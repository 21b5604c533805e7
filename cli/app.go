// Package cli contains the dubins command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/dubins/logging"
)

const (
	debugFlag   = "debug"
	jsonFlag    = "json"
	startFlag   = "start"
	endFlag     = "end"
	radiusFlag  = "radius"
	allFlag     = "all"
	timeoutFlag = "timeout"
	outFlag     = "out"
	widthFlag   = "width"
	heightFlag  = "height"
	limitFlag   = "parallel"
	logFileFlag = "log-file"

	logFileMaxSizeMB = 64
)

// runner carries state shared by the commands of one app.
type runner struct {
	logger  logging.Logger
	logFile *logging.FileAppender
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	r := &runner{logger: logging.NewBlankLogger("dubins")}
	return &cli.App{
		Name:            "dubins",
		Usage:           "plan shortest paths for vehicles with a minimum turning radius",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  logFileFlag,
				Usage: "also write logs to `FILE`, rotating it as it grows",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.Bool(debugFlag) {
				r.logger.SetLevel(logging.WARN)
			}
			r.logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
			if path := c.String(logFileFlag); path != "" {
				r.logFile = logging.NewFileAppender(path, logFileMaxSizeMB)
				r.logger.AddAppender(r.logFile)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if r.logFile == nil {
				return nil
			}
			return r.logFile.Close()
		},
		Commands: []*cli.Command{
			{
				Name:      "shortest",
				Usage:     "compute Dubins paths between two poses without obstacles",
				UsageText: "dubins shortest --start x,y,bearing --end x,y,bearing --radius r",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     startFlag,
						Usage:    "start pose as `x,y,bearing` with the bearing in degrees clockwise from north",
						Required: true,
					},
					&cli.StringFlag{
						Name:     endFlag,
						Usage:    "end pose as `x,y,bearing`",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     radiusFlag,
						Usage:    "minimum turning radius",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  allFlag,
						Usage: "list every feasible path instead of only the shortest",
					},
					&cli.BoolFlag{
						Name:  jsonFlag,
						Usage: "print trajectories as JSON",
					},
				},
				Action: r.shortestAction,
			},
			{
				Name:      "plan",
				Usage:     "plan around the obstacles of one or more scene files",
				ArgsUsage: "<scene.json> [scene.json...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  jsonFlag,
						Usage: "print candidates as JSON",
					},
					&cli.DurationFlag{
						Name:  timeoutFlag,
						Usage: "give up on a scene after this long",
						Value: defaultTimeout,
					},
					&cli.IntFlag{
						Name:  limitFlag,
						Usage: "number of scenes planned at once",
						Value: defaultParallel,
					},
				},
				Action: r.planAction,
			},
			{
				Name:      "render",
				Usage:     "draw a scene, its candidates and the shortest one into a PNG",
				ArgsUsage: "<scene.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     outFlag,
						Usage:    "PNG `FILE` to write",
						Required: true,
					},
					&cli.IntFlag{
						Name:  widthFlag,
						Usage: "image width in pixels",
						Value: 800,
					},
					&cli.IntFlag{
						Name:  heightFlag,
						Usage: "image height in pixels",
						Value: 600,
					},
					&cli.DurationFlag{
						Name:  timeoutFlag,
						Usage: "give up after this long",
						Value: defaultTimeout,
					},
				},
				Action: r.renderAction,
			},
		},
	}
}
