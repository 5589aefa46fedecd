package ballast

import (
	"log/slog"
	"time"

	"github.com/akmonengine/ballast/actor"
	"github.com/akmonengine/ballast/constraint"
	"github.com/akmonengine/ballast/sat"
)

// phaseTimes accumulates the per pair phases of one step
type phaseTimes struct {
	narrowPhase time.Duration
	contacts    time.Duration
	resolution  time.Duration
}

// isResponsive reports whether a collision can change the body this step
func isResponsive(body *actor.RigidBody) bool {
	return !body.IsKinematic() && body.IsAwake()
}

// matchAwakeState wakes the sleeping body of a colliding pair of dynamic bodies,
// so that a moving body hitting a resting one sets it in motion.
// A pair where both bodies sleep stays asleep.
func matchAwakeState(bodyA, bodyB *actor.RigidBody) {
	if bodyA.IsKinematic() || bodyB.IsKinematic() {
		return
	}

	if bodyA.IsAwake() != bodyB.IsAwake() {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}
}

// collidePairs runs the narrow phase, contact generation and resolution of every
// broad phase pair, one pair after the other in handle order.
func (w *World) collidePairs(dt float64, pairs []Pair, times *phaseTimes) {
	params := w.settings.Params()

	for _, pair := range pairs {
		bodyA := w.broadPhase.Body(pair.A)
		bodyB := w.broadPhase.Body(pair.B)

		start := w.Hooks.now()
		result, hit := sat.IntersectionTest(bodyA.OBB, bodyB.OBB)
		times.narrowPhase += w.Hooks.since(start)
		if !hit {
			continue
		}

		matchAwakeState(bodyA, bodyB)

		w.collidingPairs = append(w.collidingPairs, pair)
		w.Events.recordCollision(pair, bodyA, bodyB)

		if bodyA.IsTrigger || bodyB.IsTrigger {
			continue
		}
		if !isResponsive(bodyA) && !isResponsive(bodyB) {
			continue
		}

		start = w.Hooks.now()
		contact := w.generator.Generate(bodyA, bodyB, result)
		times.contacts += w.Hooks.since(start)

		if len(contact.Points) == 0 {
			w.Logger.Debug("contact generation produced no points",
				slog.Int("body_a", int(pair.A)),
				slog.Int("body_b", int(pair.B)),
				slog.Int("axis", result.AxisIndex),
				slog.Float64("penetration", result.Penetration),
			)
			continue
		}

		contact.Params = params
		w.contacts = append(w.contacts, contact)

		start = w.Hooks.now()
		resolve(&contact, dt)
		times.resolution += w.Hooks.since(start)
	}
}

func resolve(c constraint.Constraint, dt float64) {
	c.SolveVelocity(dt)
	c.SolvePosition(dt)
}
