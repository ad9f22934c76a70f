package scene

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
)

// Transform is a tracked or rendered pose. The host owns transforms and the
// scene only writes into them.
type Transform struct {
	Position r3.Vec
	Rotation quat.Number
}

func NewTransform(position r3.Vec, rotation quat.Number) *Transform {
	return &Transform{Position: position, Rotation: rotation}
}

// At is a translated transform with no rotation.
func At(position r3.Vec) *Transform {
	return &Transform{Position: position, Rotation: geometry.Identity}
}

func (t *Transform) Forward() r3.Vec {
	return geometry.Rotate(t.Rotation, geometry.Forward)
}

func (t *Transform) Right() r3.Vec {
	return geometry.Rotate(t.Rotation, geometry.Right)
}

func (t *Transform) Up() r3.Vec {
	return geometry.Rotate(t.Rotation, geometry.Up)
}

func (t *Transform) Translate(d r3.Vec) {
	t.Position = r3.Add(t.Position, d)
}

// RotateY turns the transform in place around the world vertical axis.
func (t *Transform) RotateY(degrees float64) {
	t.Rotation = geometry.Compose(geometry.YawRotation(degrees), t.Rotation)
}

// RotateAround orbits the transform around the axis through pivot, turning its
// orientation by the same amount.
func (t *Transform) RotateAround(pivot, axis r3.Vec, degrees float64) {
	t.Position = geometry.RotateAround(t.Position, pivot, axis, degrees)
	t.Rotation = geometry.Compose(geometry.AxisAngle(degrees, axis), t.Rotation)
}

func (t *Transform) snapshot() Transform {
	return Transform{Position: t.Position, Rotation: geometry.NormalizeQuat(t.Rotation)}
}
