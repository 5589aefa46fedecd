package actor

import "github.com/go-gl/mathgl/mgl64"

// Box is the collision shape of every body: a cuboid described by its half extents in local space
type Box struct {
	HalfExtents mgl64.Vec3
}

// ComputeOBB returns the world space bounding volume of the box under transform
func (b *Box) ComputeOBB(transform Transform) OBB {
	return NewOBB(transform, b.HalfExtents)
}

func (b *Box) ComputeMass(density float64) float64 {
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²) on each principal axis
	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}
