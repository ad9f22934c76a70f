package ik

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
)

// Pose is a planar position with a unit heading.
type Pose struct {
	Position r2.Vec
	Forward  r2.Vec
}

// ForwardKinematics rebuilds the chain of poses from origin: each link moves
// along the current heading by its length, then the heading turns by the joint
// angle. The result holds len(lengths)+1 poses, origin first.
func ForwardKinematics(origin Pose, lengths, angles []float64) ([]Pose, error) {
	if len(lengths) != len(angles) {
		return nil, fmt.Errorf("%w: %d lengths for %d angles", ErrInvalidChain, len(lengths), len(angles))
	}
	heading := geometry.Normalize2(origin.Forward)
	if heading == (r2.Vec{}) {
		return nil, fmt.Errorf("%w: origin has no heading", ErrInvalidChain)
	}

	poses := make([]Pose, 0, len(lengths)+1)
	poses = append(poses, Pose{Position: origin.Position, Forward: heading})
	position := origin.Position
	for i, length := range lengths {
		if !(length > 0) {
			return nil, fmt.Errorf("%w: link %d has length %v", ErrInvalidChain, i, length)
		}
		if math.Abs(angles[i]) > 180 {
			return nil, fmt.Errorf("%w: joint %d angle %v out of [-180, 180]", ErrInvalidChain, i, angles[i])
		}
		position = r2.Add(position, r2.Scale(length, heading))
		heading = r2.Rotate(heading, geometry.Radians(angles[i]), r2.Vec{})
		poses = append(poses, Pose{Position: position, Forward: heading})
	}
	return poses, nil
}

// Positions extracts the joint positions of a pose chain.
func Positions(poses []Pose) []r2.Vec {
	out := make([]r2.Vec, len(poses))
	for i, p := range poses {
		out[i] = p.Position
	}
	return out
}
