package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestNewOBB_Identity(t *testing.T) {
	transform := NewTransform()
	transform.Position = mgl64.Vec3{1, 2, 3}

	obb := NewOBB(transform, mgl64.Vec3{0.5, 1, 1.5})

	assert.Equal(t, mgl64.Vec3{1, 2, 3}, obb.Center)
	assert.Equal(t, mgl64.Vec3{0.5, 1, 1.5}, obb.HalfExtents)
	assert.True(t, vec3AlmostEqual(obb.Axis(0), mgl64.Vec3{1, 0, 0}, 1e-12))
	assert.True(t, vec3AlmostEqual(obb.Axis(1), mgl64.Vec3{0, 1, 0}, 1e-12))
	assert.True(t, vec3AlmostEqual(obb.Axis(2), mgl64.Vec3{0, 0, 1}, 1e-12))
}

func TestNewOBB_Scale(t *testing.T) {
	transform := NewTransform()
	transform.Scale = mgl64.Vec3{2, -3, 1}

	obb := NewOBB(transform, mgl64.Vec3{1, 1, 1})

	assert.Equal(t, mgl64.Vec3{2, 3, 1}, obb.HalfExtents)
}

func TestNewOBB_ZeroScaleMeansUnit(t *testing.T) {
	transform := Transform{Rotation: mgl64.QuatIdent()}

	obb := NewOBB(transform, mgl64.Vec3{1, 2, 3})

	assert.Equal(t, mgl64.Vec3{1, 2, 3}, obb.HalfExtents)
}

func TestOBB_AABB(t *testing.T) {
	tests := []struct {
		name     string
		rotation mgl64.Quat
		half     mgl64.Vec3
		wantMax  mgl64.Vec3
	}{
		{"identity", mgl64.QuatIdent(), mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}},
		{"90 degrees around Z swaps X and Y", mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}), mgl64.Vec3{1, 2, 3}, mgl64.Vec3{2, 1, 3}},
		{"45 degrees around Z", mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}), mgl64.Vec3{1, 1, 1}, mgl64.Vec3{math.Sqrt2, math.Sqrt2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transform := NewTransform()
			transform.Rotation = tt.rotation

			aabb := NewOBB(transform, tt.half).AABB()

			assert.True(t, vec3AlmostEqual(aabb.Max, tt.wantMax, 1e-9), "max = %v, want %v", aabb.Max, tt.wantMax)
			assert.True(t, vec3AlmostEqual(aabb.Min, tt.wantMax.Mul(-1), 1e-9), "min = %v, want %v", aabb.Min, tt.wantMax.Mul(-1))
		})
	}
}

func TestOBB_ProjectRadius(t *testing.T) {
	obb := NewOBB(NewTransform(), mgl64.Vec3{1, 2, 3})

	assert.InDelta(t, 1.0, obb.ProjectRadius(mgl64.Vec3{1, 0, 0}), 1e-12)
	assert.InDelta(t, 2.0, obb.ProjectRadius(mgl64.Vec3{0, -1, 0}), 1e-12)

	diagonal := mgl64.Vec3{1, 1, 0}.Normalize()
	assert.InDelta(t, 3.0/math.Sqrt2, obb.ProjectRadius(diagonal), 1e-12)
}

func TestOBB_FaceVertices(t *testing.T) {
	transform := NewTransform()
	transform.Position = mgl64.Vec3{0, 1, 0}
	obb := NewOBB(transform, mgl64.Vec3{0.5, 0.5, 0.5})

	face := obb.FaceVertices(1, -1)

	for _, v := range face {
		assert.InDelta(t, 0.5, v.Y(), 1e-12)
		assert.InDelta(t, 0.5, math.Abs(v.X()), 1e-12)
		assert.InDelta(t, 0.5, math.Abs(v.Z()), 1e-12)
	}
	// Consecutive vertices share one edge of the face
	for i := range face {
		edge := face[(i+1)%4].Sub(face[i])
		assert.InDelta(t, 1.0, edge.Len(), 1e-12)
	}
}

func TestOBB_ToWorld(t *testing.T) {
	transform := NewTransform()
	transform.Position = mgl64.Vec3{1, 0, 0}
	transform.Rotation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	obb := NewOBB(transform, mgl64.Vec3{1, 1, 1})

	assert.True(t, vec3AlmostEqual(obb.ToWorld(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{1, 1, 0}, 1e-12))
}

// Helper function to compare floats with epsilon tolerance
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// Helper function to compare Vec3 with epsilon tolerance
func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return almostEqual(a.X(), b.X(), epsilon) &&
		almostEqual(a.Y(), b.Y(), epsilon) &&
		almostEqual(a.Z(), b.Z(), epsilon)
}
