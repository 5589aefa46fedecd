package constraint

import (
	"math"

	"github.com/akmonengine/ballast/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultBaumgarte is the fraction of the penetration beyond the allowed depth turned into separating velocity each step
	DefaultBaumgarte = 0.2
	// DefaultAllowedPenetration is the depth the velocity bias tolerates
	DefaultAllowedPenetration = 0.01
	// DefaultCorrectionPercent is the share of the penetration removed by the positional pass (usually 20% to 80%)
	DefaultCorrectionPercent = 0.2
	// DefaultCorrectionSlop is the depth the positional pass tolerates (usually 0.01 to 0.1)
	DefaultCorrectionSlop = 0.01

	// minNormalMass guards the impulse division for pairs that can not respond along the normal
	minNormalMass = 1e-10
)

// Params tunes contact resolution.
type Params struct {
	Baumgarte          float64
	AllowedPenetration float64
	CorrectionPercent  float64
	CorrectionSlop     float64
}

func DefaultParams() Params {
	return Params{
		Baumgarte:          DefaultBaumgarte,
		AllowedPenetration: DefaultAllowedPenetration,
		CorrectionPercent:  DefaultCorrectionPercent,
		CorrectionSlop:     DefaultCorrectionSlop,
	}
}

type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// ContactConstraint holds the contacts generated for one colliding pair during one step.
// Normal points from BodyA toward BodyB and is shared by every point.
type ContactConstraint struct {
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody
	Points []ContactPoint
	Normal mgl64.Vec3
	// Penetration is the depth found by the narrow phase for the whole pair
	Penetration float64

	Params Params
}

// VelocityDelta accumulates the velocity changes of a pair over all of its contact points
type VelocityDelta struct {
	LinearA  mgl64.Vec3
	AngularA mgl64.Vec3
	LinearB  mgl64.Vec3
	AngularB mgl64.Vec3
}

// ProcessContact computes the normal impulse of one contact point and adds its effect to delta.
// Velocities are read from the bodies, never written, so every point of the manifold sees the same state.
// It returns the impulse magnitude, which is never negative.
func (c *ContactConstraint) ProcessContact(point ContactPoint, dtInv float64, delta *VelocityDelta) float64 {
	bodyA := c.BodyA
	bodyB := c.BodyB

	// Baumgarte: push out the part of the penetration that is deeper than allowed
	bias := c.Params.Baumgarte * dtInv * math.Max(0, point.Penetration-c.Params.AllowedPenetration)

	restitution := ComputeRestitution(bodyA.Material, bodyB.Material)

	rA := point.Position.Sub(bodyA.OBB.Center)
	rB := point.Position.Sub(bodyB.OBB.Center)
	kA := rA.Cross(c.Normal)
	kB := rB.Cross(c.Normal)

	uA := bodyA.GetInverseInertiaWorld().Mul3x1(kA)
	uB := bodyB.GetInverseInertiaWorld().Mul3x1(kB)

	normalMass := bodyA.GetInverseMass() + bodyB.GetInverseMass() + kA.Dot(uA) + kB.Dot(uB)
	if normalMass < minNormalMass {
		return 0
	}

	// Relative velocity at contact
	vA := bodyA.Velocity.Add(bodyA.AngularVelocity.Cross(rA))
	vB := bodyB.Velocity.Add(bodyB.AngularVelocity.Cross(rB))
	relativeVel := vB.Sub(vA)

	numerator := -(1.0+restitution)*relativeVel.Dot(c.Normal) + bias
	lambda := numerator / normalMass

	// No attractive impulses
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return 0
	}

	impulse := c.Normal.Mul(lambda)
	delta.LinearA = delta.LinearA.Sub(impulse.Mul(bodyA.GetInverseMass()))
	delta.AngularA = delta.AngularA.Sub(uA.Mul(lambda))
	delta.LinearB = delta.LinearB.Add(impulse.Mul(bodyB.GetInverseMass()))
	delta.AngularB = delta.AngularB.Add(uB.Mul(lambda))

	return lambda
}

// SolveVelocity runs one sequential impulse pass over the manifold.
// All impulses are accumulated first and applied once, so the result does not depend on the point order.
func (c *ContactConstraint) SolveVelocity(dt float64) {
	if len(c.Points) == 0 || dt <= 0 {
		return
	}
	if !responsive(c.BodyA) && !responsive(c.BodyB) {
		return
	}

	dtInv := 1.0 / dt
	var delta VelocityDelta
	for _, point := range c.Points {
		c.ProcessContact(point, dtInv, &delta)
	}

	if !isFinite(delta.LinearA) || !isFinite(delta.AngularA) || !isFinite(delta.LinearB) || !isFinite(delta.AngularB) {
		return
	}

	c.BodyA.AddVelocity(delta.LinearA, delta.AngularA)
	c.BodyB.AddVelocity(delta.LinearB, delta.AngularB)
}

// SolvePosition moves the bodies apart along the normal, once per pair
func (c *ContactConstraint) SolvePosition(dt float64) {
	if len(c.Points) == 0 {
		return
	}
	if !responsive(c.BodyA) && !responsive(c.BodyB) {
		return
	}

	PositionalCorrection(c.BodyA, c.BodyB, c.Penetration, c.Normal, c.Params)
}

// PositionalCorrection displaces both bodies along normal in proportion to their inverse mass,
// removing a share of the penetration deeper than the slop.
func PositionalCorrection(bodyA, bodyB *actor.RigidBody, penetration float64, normal mgl64.Vec3, params Params) {
	inverseMassSum := bodyA.GetInverseMass() + bodyB.GetInverseMass()
	if inverseMassSum <= 0 {
		return
	}

	magnitude := math.Max(penetration-params.CorrectionSlop, 0) / inverseMassSum * params.CorrectionPercent
	if magnitude == 0 || math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return
	}

	correction := normal.Mul(magnitude)
	bodyA.Translate(correction.Mul(-bodyA.GetInverseMass()))
	bodyB.Translate(correction.Mul(bodyB.GetInverseMass()))
}

// Resolve applies the velocity pass then the positional pass
func (c *ContactConstraint) Resolve(dt float64) {
	c.SolveVelocity(dt)
	c.SolvePosition(dt)
}
