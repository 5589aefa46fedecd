package actor

import "github.com/go-gl/mathgl/mgl64"

// MinMax is a closed interval on a single axis
type MinMax struct {
	Min float64
	Max float64
}

// Overlaps checks if two intervals share at least one point
func (m MinMax) Overlaps(other MinMax) bool {
	return m.Max >= other.Min && m.Min <= other.Max
}

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Interval returns the projection of the box on the given world axis (0, 1 or 2)
func (a AABB) Interval(axis int) MinMax {
	return MinMax{Min: a.Min[axis], Max: a.Max[axis]}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}
