package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/pkg/errors"

	"go.viam.com/dubins/spatialmath"
)

// printf prints a message with a newline to w.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a warning to w, in yellow when w is a terminal.
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// parsePose parses "x,y,bearing" with the bearing in degrees.
func parsePose(raw string) (spatialmath.Pose, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return spatialmath.Pose{}, errors.Errorf("pose %q must be x,y,bearing", raw)
	}
	values := make([]float64, 0, 3)
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return spatialmath.Pose{}, errors.Wrapf(err, "pose %q", raw)
		}
		values = append(values, v)
	}
	return spatialmath.NewPose(r2.Point{X: values[0], Y: values[1]}, s1.Angle(values[2])*s1.Degree), nil
}
