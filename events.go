package ballast

import (
	"github.com/akmonengine/ballast/actor"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	ON_SLEEP
	ON_WAKE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events
type CollisionEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// activePair keeps the bodies of a pair, the handles alone can be reused after a removal
type activePair struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

func (p activePair) isTrigger() bool {
	return p.bodyA.IsTrigger || p.bodyB.IsTrigger
}

// quiet pairs can not move this step: both bodies are asleep or kinematic
func (p activePair) quiet() bool {
	return !isResponsive(p.bodyA) && !isResponsive(p.bodyB)
}

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[Pair]activePair
	currentActivePairs  map[Pair]activePair

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[Pair]activePair),
		currentActivePairs:  make(map[Pair]activePair),
		sleepStates:         make(map[*actor.RigidBody]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordCollision marks a pair as colliding during the current step
func (e *Events) recordCollision(pair Pair, bodyA, bodyB *actor.RigidBody) {
	e.currentActivePairs[pair] = activePair{bodyA: bodyA, bodyB: bodyB}
}

// track starts following the sleep state of a body
func (e *Events) track(body *actor.RigidBody) {
	e.sleepStates[body] = !body.IsAwake()
}

// forget drops every reference to a removed body, without emitting exit events
func (e *Events) forget(body *actor.RigidBody, handle BodyHandle) {
	delete(e.sleepStates, body)
	for pair := range e.previousActivePairs {
		if pair.A == handle || pair.B == handle {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.A == handle || pair.B == handle {
			delete(e.currentActivePairs, pair)
		}
	}
}

// reset clears the collision and sleep history, listeners are kept
func (e *Events) reset() {
	clear(e.previousActivePairs)
	clear(e.currentActivePairs)
	clear(e.sleepStates)
	e.buffer = e.buffer[:0]
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	// Detect Enter and Stay events
	for pair, bodies := range e.currentActivePairs {
		// Skip pairs resting in their sleep, to avoid spamming events
		if bodies.quiet() {
			continue
		}

		if _, ok := e.previousActivePairs[pair]; ok {
			// Pair was active before and still is, Stay
			if bodies.isTrigger() {
				e.buffer = append(e.buffer, TriggerStayEvent{BodyA: bodies.bodyA, BodyB: bodies.bodyB})
			} else {
				e.buffer = append(e.buffer, CollisionStayEvent{BodyA: bodies.bodyA, BodyB: bodies.bodyB})
			}
		} else {
			// New pair, Enter
			if bodies.isTrigger() {
				e.buffer = append(e.buffer, TriggerEnterEvent{BodyA: bodies.bodyA, BodyB: bodies.bodyB})
			} else {
				e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: bodies.bodyA, BodyB: bodies.bodyB})
			}
		}
	}

	// Detect Exit events
	for pair, bodies := range e.previousActivePairs {
		if _, ok := e.currentActivePairs[pair]; ok {
			continue
		}

		// Pair was active but is no longer, Exit
		if bodies.isTrigger() {
			e.buffer = append(e.buffer, TriggerExitEvent{BodyA: bodies.bodyA, BodyB: bodies.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: bodies.bodyA, BodyB: bodies.bodyB})
		}
	}

	// Swap for next step and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		sleeping := !body.IsAwake()

		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = sleeping
			continue
		}

		if !trackedState && sleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !sleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
