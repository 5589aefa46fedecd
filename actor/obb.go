package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OBB is an oriented bounding box in world space.
// The columns of Rotation are the box local axes.
type OBB struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Rotation    mgl64.Mat3
}

// NewOBB builds the world space box of the given local half extents under transform
func NewOBB(transform Transform, halfExtents mgl64.Vec3) OBB {
	scale := transform.scale()

	return OBB{
		Center: transform.Position,
		HalfExtents: mgl64.Vec3{
			halfExtents.X() * math.Abs(scale.X()),
			halfExtents.Y() * math.Abs(scale.Y()),
			halfExtents.Z() * math.Abs(scale.Z()),
		},
		Rotation: transform.RotationMatrix(),
	}
}

// Axis returns the i-th local axis in world space
func (o OBB) Axis(i int) mgl64.Vec3 {
	return o.Rotation.Col(i)
}

// ProjectRadius returns the half length of the projection of the box on axis
func (o OBB) ProjectRadius(axis mgl64.Vec3) float64 {
	return o.HalfExtents.X()*math.Abs(axis.Dot(o.Axis(0))) +
		o.HalfExtents.Y()*math.Abs(axis.Dot(o.Axis(1))) +
		o.HalfExtents.Z()*math.Abs(axis.Dot(o.Axis(2)))
}

// ToWorld transforms a point from box local space into world space
func (o OBB) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return o.Rotation.Mul3x1(local).Add(o.Center)
}

// AABB returns the tightest axis-aligned box enclosing the OBB
func (o OBB) AABB() AABB {
	var extent mgl64.Vec3
	for i := 0; i < 3; i++ {
		// Each world axis extent is the absolute row of the rotation dotted with the half extents
		extent[i] = math.Abs(o.Rotation.At(i, 0))*o.HalfExtents.X() +
			math.Abs(o.Rotation.At(i, 1))*o.HalfExtents.Y() +
			math.Abs(o.Rotation.At(i, 2))*o.HalfExtents.Z()
	}

	return AABB{Min: o.Center.Sub(extent), Max: o.Center.Add(extent)}
}

// FaceVertices returns the four world space corners of the face whose
// outward normal is sign * Axis(axis).
func (o OBB) FaceVertices(axis int, sign float64) [4]mgl64.Vec3 {
	u, v := (axis+1)%3, (axis+2)%3
	if u > v {
		u, v = v, u
	}

	center := o.Center.Add(o.Axis(axis).Mul(sign * o.HalfExtents[axis]))
	du := o.Axis(u).Mul(o.HalfExtents[u])
	dv := o.Axis(v).Mul(o.HalfExtents[v])

	return [4]mgl64.Vec3{
		center.Add(du).Add(dv),
		center.Add(du).Sub(dv),
		center.Sub(du).Sub(dv),
		center.Sub(du).Add(dv),
	}
}
