// Package ik solves planar link chains: cyclic coordinate descent, FABRIK, and
// forward kinematics from link lengths and joint angles. Angles are degrees,
// counter-clockwise positive.
package ik

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
)

// SolveCCD moves positions in place so that the last joint reaches target. Each
// sweep walks from the joint nearest the end back to the base and rotates the
// sub-chain beyond that joint by velocity times the angle between the end and
// the target as seen from the joint. It reports whether the end is within
// tolerance once it stops, which happens at convergence or after maxSteps sweeps.
func SolveCCD(target r2.Vec, positions []r2.Vec, tolerance float64, maxSteps int, velocity float64) (bool, error) {
	if len(positions) < 2 {
		return false, fmt.Errorf("%w: %d joints", ErrInvalidChain, len(positions))
	}
	if velocity <= 0 || velocity > 1 {
		return false, fmt.Errorf("%w: velocity %v not in (0, 1]", ErrInvalidOptions, velocity)
	}
	tol2 := tolerance * tolerance
	end := len(positions) - 1

	for step := 0; step < maxSteps && r2.Norm2(r2.Sub(target, positions[end])) > tol2; step++ {
		for i := end - 1; i >= 0; i-- {
			pivot := positions[i]
			angle := velocity * geometry.SignedAngle2(r2.Sub(positions[end], pivot), r2.Sub(target, pivot))
			if angle == 0 {
				continue
			}
			rot := r2.NewRotation(geometry.Radians(angle), pivot)
			for j := i + 1; j <= end; j++ {
				positions[j] = rot.Rotate(positions[j])
			}
		}
	}
	return r2.Norm2(r2.Sub(target, positions[end])) <= tol2, nil
}
