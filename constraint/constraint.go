package constraint

import (
	"math"

	"github.com/akmonengine/ballast/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type Constraint interface {
	SolveVelocity(dt float64)
	SolvePosition(dt float64)
}

// ComputeRestitution combines the restitution of both materials.
// The least bouncy material wins: a ball hitting a pillow does not bounce.
func ComputeRestitution(matA, matB actor.Material) float64 {
	return math.Min(matA.Restitution, matB.Restitution)
}

// responsive reports whether a collision can change the body velocity this step
func responsive(rb *actor.RigidBody) bool {
	return !rb.IsKinematic() && rb.IsAwake()
}

func isFinite(v mgl64.Vec3) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
