package trajectory

import (
	"math"

	"go.viam.com/dubins/spatialmath"
)

// Sample returns poses along t no farther than step apart, measured along the path. The first pose is
// the begin pose of t and the last is exactly its end pose.
func Sample(t Trajectory, step float64) ([]spatialmath.Pose, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, NewInvalidStepError(step)
	}
	poses := []spatialmath.Pose{t.BeginPose()}
	for _, leaf := range Flatten(t) {
		poses = append(poses, sampleLeaf(leaf, step)...)
	}
	return poses, nil
}

// sampleLeaf returns the poses after the begin pose of a straight or arc, ending at its end pose.
func sampleLeaf(t Trajectory, step float64) []spatialmath.Pose {
	length := t.Length()
	n := int(math.Ceil(length / step))
	if n < 1 {
		n = 1
	}
	poses := make([]spatialmath.Pose, 0, n)
	for i := 1; i < n; i++ {
		d := length * float64(i) / float64(n)
		switch v := t.(type) {
		case Straight:
			poses = append(poses, spatialmath.NewPose(v.segment.PointAt(d/length), v.Bearing()))
		case Arc:
			poses = append(poses, v.poseAt(d))
		default:
			panic(NewUnknownTrajectoryTypeError(t))
		}
	}
	return append(poses, t.EndPose())
}
