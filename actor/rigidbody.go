package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeKinematic bodies are immovable and have infinite mass
	// Collisions never change their velocity (e.g., ground, walls)
	BodyTypeKinematic
)

const (
	// DefaultSleepEpsilon is the motion metric (squared m/s plus squared rad/s) under which a body falls asleep
	DefaultSleepEpsilon = 0.3

	// motionCapFactor bounds the motion metric so a fast body can still fall asleep soon after it stops
	motionCapFactor = 10.0
	// wakeMotionFactor is the motion metric given to a body that wakes up, in units of the sleep epsilon
	wakeMotionFactor = 2.0
)

// Material holds the surface and damping properties of a body
type Material struct {
	// Density gives the mass of dynamic bodies from the box volume (kg/m³)
	Density     float64
	Restitution float64 // 0 = no rebound, 1 = perfect restitution

	// Exponential damping rates (1/s), typically 0.01 linear and 0.05 angular
	LinearDamping  float64
	AngularDamping float64
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	// Spatial properties
	Transform Transform
	Shape     *Box

	// Bounding volumes recomputed by RefreshBounds
	OBB  OBB
	AABB AABB

	// Linear motion
	Velocity mgl64.Vec3 // Linear velocity (m/s)
	// Angular motion
	AngularVelocity mgl64.Vec3 // rad/s

	InverseInertiaLocal mgl64.Mat3
	inverseInertiaWorld mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	mass        float64
	inverseMass float64

	Material Material

	BodyType BodyType
	// IsTrigger bodies report collisions but are never resolved
	IsTrigger bool
	// CanSleep allows the body to be put to sleep when its motion settles
	CanSleep     bool
	SleepEpsilon float64

	isAwake bool
	motion  float64

	// Id is free for the caller, it is never read by the physics
	Id any
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored for kinematic)
func NewRigidBody(transform Transform, shape *Box, bodyType BodyType, density float64) *RigidBody {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}

	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
		Material:  Material{Density: density},
		CanSleep:  true,

		SleepEpsilon: DefaultSleepEpsilon,
	}

	if bodyType == BodyTypeKinematic {
		rb.SetMass(math.Inf(1))
	} else {
		// Mass and inertia follow the scaled extents of the box
		scaled := &Box{HalfExtents: shape.ComputeOBB(transform).HalfExtents}
		rb.SetMass(scaled.ComputeMass(density))
	}
	rb.RefreshBounds()
	rb.SetAwake(true)

	return rb
}

// SetMass sets the mass and inverse mass together.
// An infinite or non-positive mass makes the body kinematic, with an inverse mass of exactly zero.
func (rb *RigidBody) SetMass(mass float64) {
	if math.IsInf(mass, 1) || mass <= 0 || math.IsNaN(mass) {
		rb.mass = math.Inf(1)
		rb.inverseMass = 0
		rb.BodyType = BodyTypeKinematic
		rb.InverseInertiaLocal = mgl64.Mat3{}
		rb.Velocity = mgl64.Vec3{}
		rb.AngularVelocity = mgl64.Vec3{}
		return
	}

	rb.mass = mass
	rb.inverseMass = 1.0 / mass
	rb.BodyType = BodyTypeDynamic

	scaled := &Box{HalfExtents: rb.Shape.ComputeOBB(rb.Transform).HalfExtents}
	rb.InverseInertiaLocal = scaled.ComputeInertia(mass).Inv()
}

func (rb *RigidBody) GetMass() float64 {
	return rb.mass
}

func (rb *RigidBody) GetInverseMass() float64 {
	return rb.inverseMass
}

func (rb *RigidBody) IsKinematic() bool {
	return rb.BodyType == BodyTypeKinematic
}

func (rb *RigidBody) IsAwake() bool {
	return rb.isAwake
}

// Motion returns the smoothed motion metric used to decide when the body sleeps
func (rb *RigidBody) Motion() float64 {
	return rb.motion
}

// RefreshBounds recomputes the world space OBB, its AABB and the world inverse inertia
// from the current transform. It must run once per step before the broad phase.
func (rb *RigidBody) RefreshBounds() {
	rb.OBB = rb.Shape.ComputeOBB(rb.Transform)
	rb.AABB = rb.OBB.AABB()

	if rb.IsKinematic() {
		rb.inverseInertiaWorld = mgl64.Mat3{}
		return
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.OBB.Rotation
	rb.inverseInertiaWorld = R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

// GetInverseInertiaWorld returns the inverse inertia tensor computed by the last RefreshBounds
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	return rb.inverseInertiaWorld
}

// SetAwake moves the body between the awake and asleep states.
// Waking resets the motion metric to twice SleepEpsilon so the body does not fall asleep again at once;
// sleeping clears velocities and accumulated forces.
func (rb *RigidBody) SetAwake(awake bool) {
	if awake {
		rb.isAwake = true
		rb.motion = rb.SleepEpsilon * wakeMotionFactor
		return
	}
	if rb.IsKinematic() || !rb.CanSleep {
		return
	}

	rb.isAwake = false
	rb.motion = 0
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
	rb.ClearForces()
}

// Integrate advances a dynamic, awake body by dt using semi-implicit Euler,
// then updates its motion metric and puts it to sleep if it settled.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.IsKinematic() || !rb.isAwake || dt <= 0 {
		return
	}

	// Linear
	accel := gravity.Add(rb.accumulatedForce.Mul(rb.inverseMass))
	rb.Velocity = rb.Velocity.Add(accel.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// Angular
	angularAccel := rb.inverseInertiaWorld.Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()

	rb.ClearForces()

	if rb.CanSleep {
		rb.updateMotion(dt)
	}
}

func (rb *RigidBody) updateMotion(dt float64) {
	current := rb.Velocity.Dot(rb.Velocity) + rb.AngularVelocity.Dot(rb.AngularVelocity)
	bias := math.Pow(0.5, dt)
	rb.motion = bias*rb.motion + (1-bias)*current

	if rb.motion < rb.SleepEpsilon {
		rb.SetAwake(false)
	} else if rb.motion > motionCapFactor*rb.SleepEpsilon {
		rb.motion = motionCapFactor * rb.SleepEpsilon
	}
}

// ApplyImpulse applies an impulse at a world space point and wakes the body
func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec3, point mgl64.Vec3) {
	if rb.IsKinematic() {
		return
	}
	rb.SetAwake(true)

	r := point.Sub(rb.OBB.Center)
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.inverseMass))
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.inverseInertiaWorld.Mul3x1(r.Cross(impulse)))
}

// AddVelocity changes linear and angular velocity without touching the sleep state.
// It is used by contact resolution, which must not keep resting bodies awake.
func (rb *RigidBody) AddVelocity(linear, angular mgl64.Vec3) {
	if rb.IsKinematic() {
		return
	}
	rb.Velocity = rb.Velocity.Add(linear)
	rb.AngularVelocity = rb.AngularVelocity.Add(angular)
}

// Translate moves a non-kinematic body by delta
func (rb *RigidBody) Translate(delta mgl64.Vec3) {
	if rb.IsKinematic() {
		return
	}
	rb.Transform.Position = rb.Transform.Position.Add(delta)
}

// AddForce accumulates a force applied at the centre of mass until the next Integrate
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.IsKinematic() {
		return
	}
	rb.SetAwake(true)
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

// AddTorque accumulates a torque until the next Integrate
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.IsKinematic() {
		return
	}
	rb.SetAwake(true)
	rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}
