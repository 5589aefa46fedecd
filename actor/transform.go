package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position, orientation and scale in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// RotationMatrix returns the orientation as a 3x3 matrix whose columns are the local axes
func (t Transform) RotationMatrix() mgl64.Mat3 {
	return t.Rotation.Normalize().Mat4().Mat3()
}

// scale returns the transform scale, treating an unset scale as unit scale
func (t Transform) scale() mgl64.Vec3 {
	if t.Scale == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return t.Scale
}
