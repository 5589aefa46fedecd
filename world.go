package ballast

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/akmonengine/ballast/actor"
	"github.com/akmonengine/ballast/constraint"
	"github.com/akmonengine/ballast/manifold"
	"github.com/go-gl/mathgl/mgl64"
)

type World struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec3
	Workers int

	Events Events
	Hooks  Hooks
	// Logger receives debug information about each step. It discards everything by default.
	Logger *slog.Logger

	settings   Settings
	broadPhase *SweepAndPrune
	generator  *manifold.Generator

	bodies  []*actor.RigidBody
	handles map[*actor.RigidBody]BodyHandle

	collidingPairs []Pair
	contacts       []constraint.ContactConstraint
}

// NewWorld creates an empty world. The settings are used as given: validate them first
// if they come from outside (LoadSettings does).
func NewWorld(settings Settings) *World {
	return &World{
		Gravity: settings.Gravity,
		Workers: settings.Workers,
		Events:  NewEvents(),
		Logger:  slog.New(slog.DiscardHandler),

		settings:   settings,
		broadPhase: NewSweepAndPrune(),
		generator:  manifold.NewGenerator(),
		handles:    make(map[*actor.RigidBody]BodyHandle),
	}
}

// Settings returns the settings the world was created with
func (w *World) Settings() Settings {
	return w.settings
}

// RegisterRigidBody adds a body to the world and its broad phase
func (w *World) RegisterRigidBody(body *actor.RigidBody) (BodyHandle, error) {
	if body == nil {
		return 0, ErrNilBody
	}
	if handle, ok := w.handles[body]; ok {
		return handle, fmt.Errorf("%w: handle %d", ErrBodyRegistered, handle)
	}

	body.SleepEpsilon = w.settings.SleepEpsilon
	if body.IsAwake() {
		// Restart the motion metric against the world epsilon
		body.SetAwake(true)
	}
	body.RefreshBounds()

	handle := w.broadPhase.Register(body)
	w.handles[body] = handle
	w.bodies = append(w.bodies, body)
	w.Events.track(body)

	return handle, nil
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) error {
	handle, ok := w.handles[body]
	if !ok {
		return ErrUnknownBody
	}

	w.broadPhase.Unregister(handle)
	delete(w.handles, body)
	w.bodies = slices.DeleteFunc(w.bodies, func(b *actor.RigidBody) bool {
		return b == body
	})
	w.collidingPairs = slices.DeleteFunc(w.collidingPairs, func(p Pair) bool {
		return p.A == handle || p.B == handle
	})
	w.Events.forget(body, handle)

	return nil
}

// Bodies returns the registered bodies in registration order.
// The slice is owned by the world.
func (w *World) Bodies() []*actor.RigidBody {
	return w.bodies
}

// Body returns the body of a handle, or nil
func (w *World) Body(handle BodyHandle) *actor.RigidBody {
	return w.broadPhase.Body(handle)
}

// Handle returns the handle of a registered body
func (w *World) Handle(body *actor.RigidBody) (BodyHandle, bool) {
	handle, ok := w.handles[body]
	return handle, ok
}

// BroadPhase exposes the sweep and prune of the world, for queries
func (w *World) BroadPhase() *SweepAndPrune {
	return w.broadPhase
}

// CollidingPairs returns the pairs whose boxes intersected during the last Update
func (w *World) CollidingPairs() []Pair {
	return w.collidingPairs
}

// Contacts returns the contact constraints resolved during the last Update
func (w *World) Contacts() []constraint.ContactConstraint {
	return w.contacts
}

// Update advances the simulation by dt seconds.
// A non-positive or non-finite dt leaves the world untouched.
func (w *World) Update(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.collidingPairs = w.collidingPairs[:0]
	w.contacts = w.contacts[:0]

	// Phase 1: integrate forces, velocities and orientations
	start := w.Hooks.now()
	w.integrate(dt)
	w.Hooks.report(PhaseIntegrate, w.Hooks.since(start))

	// Phase 2: world space boxes and inertia
	start = w.Hooks.now()
	w.refreshBounds()
	w.Hooks.report(PhaseBounds, w.Hooks.since(start))

	// Phase 3: broad phase
	start = w.Hooks.now()
	w.broadPhase.SortAndSweep()
	pairs := w.broadPhase.Pairs()
	w.Hooks.report(PhaseBroadPhase, w.Hooks.since(start))

	// Phase 4: narrow phase, contacts and resolution, pair by pair
	var times phaseTimes
	w.collidePairs(dt, pairs, &times)
	w.Hooks.report(PhaseNarrowPhase, times.narrowPhase)
	w.Hooks.report(PhaseContacts, times.contacts)
	w.Hooks.report(PhaseResolution, times.resolution)

	w.Logger.Debug("step",
		slog.Float64("dt", dt),
		slog.Int("bodies", len(w.bodies)),
		slog.Int("pairs", len(pairs)),
		slog.Int("colliding", len(w.collidingPairs)),
		slog.Int("contacts", len(w.contacts)),
	)

	w.Events.processSleepEvents(w.bodies)
	w.Events.flush()
}

func (w *World) integrate(dt float64) {
	task(w.Workers, w.bodies, func(body *actor.RigidBody) {
		body.Integrate(dt, w.Gravity)
	})
}

func (w *World) refreshBounds() {
	task(w.Workers, w.bodies, func(body *actor.RigidBody) {
		body.RefreshBounds()
	})
}

// Clear removes every body and resets the broad phase, the contacts and the event history.
// Listeners and hooks are kept.
func (w *World) Clear() {
	w.broadPhase.Clear()
	clear(w.bodies)
	w.bodies = w.bodies[:0]
	clear(w.handles)
	w.collidingPairs = w.collidingPairs[:0]
	w.contacts = w.contacts[:0]
	w.Events.reset()
}
