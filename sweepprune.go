package ballast

import (
	"cmp"
	"slices"

	"github.com/akmonengine/ballast/actor"
)

// BodyHandle identifies a body registered in a SweepAndPrune.
// Handles of unregistered bodies are reused by later registrations.
type BodyHandle uint32

// ObjectPoint is one end of a body interval on an axis
type ObjectPoint struct {
	Body  BodyHandle
	IsMin bool
}

// Pair is an unordered pair of bodies, A <= B.
type Pair struct {
	A, B BodyHandle
}

// MakePair builds the pair key of two handles, independent of their order
func MakePair(a, b BodyHandle) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// SweepAndPrune is an incremental sort and sweep broad phase over the three world axes.
//
// Each axis keeps the min and max markers of every registered body. The markers are
// insertion sorted every step: with temporal coherence the sequences are almost sorted
// and each swap is a change in the interval overlap of two bodies. A min marker moving
// to the left of a max marker may start an overlap, a max marker moving to the left of
// a min marker ends one. The set of overlapping pairs is therefore maintained without
// ever testing all the pairs.
type SweepAndPrune struct {
	axes [3][]ObjectPoint

	bodies []*actor.RigidBody
	free   []BodyHandle

	pairs map[Pair]struct{}
}

func NewSweepAndPrune() *SweepAndPrune {
	return &SweepAndPrune{
		pairs: make(map[Pair]struct{}),
	}
}

// Register adds a body to the broad phase. Its markers are appended to each axis
// and sorted into place by the next SortAndSweep.
func (s *SweepAndPrune) Register(body *actor.RigidBody) BodyHandle {
	var handle BodyHandle
	if n := len(s.free); n > 0 {
		handle = s.free[n-1]
		s.free = s.free[:n-1]
		s.bodies[handle] = body
	} else {
		handle = BodyHandle(len(s.bodies))
		s.bodies = append(s.bodies, body)
	}

	for axis := range s.axes {
		s.axes[axis] = append(s.axes[axis],
			ObjectPoint{Body: handle, IsMin: true},
			ObjectPoint{Body: handle, IsMin: false},
		)
	}

	return handle
}

// Unregister drops the markers of a body and every pair referencing it.
// It reports false if the handle is not registered.
func (s *SweepAndPrune) Unregister(handle BodyHandle) bool {
	if s.Body(handle) == nil {
		return false
	}

	for axis := range s.axes {
		s.axes[axis] = slices.DeleteFunc(s.axes[axis], func(p ObjectPoint) bool {
			return p.Body == handle
		})
	}
	for pair := range s.pairs {
		if pair.A == handle || pair.B == handle {
			delete(s.pairs, pair)
		}
	}

	s.bodies[handle] = nil
	s.free = append(s.free, handle)

	return true
}

// Body returns the body of a handle, or nil if the handle is not registered
func (s *SweepAndPrune) Body(handle BodyHandle) *actor.RigidBody {
	if int(handle) >= len(s.bodies) {
		return nil
	}
	return s.bodies[handle]
}

// Len returns the number of registered bodies
func (s *SweepAndPrune) Len() int {
	return len(s.bodies) - len(s.free)
}

// Axis returns the marker sequence of an axis (0: x, 1: y, 2: z).
// The slice is owned by the broad phase.
func (s *SweepAndPrune) Axis(axis int) []ObjectPoint {
	return s.axes[axis]
}

// SortAndSweep sorts the three axes against the current AABBs of the bodies and updates the pairs.
// Bodies must have refreshed their bounds before.
func (s *SweepAndPrune) SortAndSweep() {
	for axis := range s.axes {
		s.sortAxis(axis)
	}
}

func (s *SweepAndPrune) sortAxis(axis int) {
	sequence := s.axes[axis]

	for j := 1; j < len(sequence); j++ {
		current := sequence[j]

		i := j - 1
		for i >= 0 && s.outOfOrder(sequence[i], current, axis) {
			swapped := sequence[i]

			if current.IsMin && !swapped.IsMin {
				// Intervals start overlapping on this axis
				if s.canCollide(current.Body, swapped.Body) && s.overlaps(current.Body, swapped.Body) {
					s.pairs[MakePair(current.Body, swapped.Body)] = struct{}{}
				}
			} else if !current.IsMin && swapped.IsMin {
				// Intervals stop overlapping on this axis
				delete(s.pairs, MakePair(current.Body, swapped.Body))
			}

			sequence[i+1] = swapped
			i--
		}
		sequence[i+1] = current
	}
}

// outOfOrder reports whether current must move left past previous.
// On equal values min markers go first, so touching intervals overlap as they do in AABB.Overlaps.
func (s *SweepAndPrune) outOfOrder(previous, current ObjectPoint, axis int) bool {
	previousValue := s.value(previous, axis)
	currentValue := s.value(current, axis)

	return previousValue > currentValue || (previousValue == currentValue && !previous.IsMin && current.IsMin)
}

func (s *SweepAndPrune) value(point ObjectPoint, axis int) float64 {
	aabb := s.bodies[point.Body].AABB
	if point.IsMin {
		return aabb.Min[axis]
	}
	return aabb.Max[axis]
}

// canCollide reports whether at least one of the bodies is not kinematic
func (s *SweepAndPrune) canCollide(a, b BodyHandle) bool {
	return !s.bodies[a].IsKinematic() || !s.bodies[b].IsKinematic()
}

func (s *SweepAndPrune) overlaps(a, b BodyHandle) bool {
	return s.bodies[a].AABB.Overlaps(s.bodies[b].AABB)
}

// Pairs returns the overlapping pairs sorted by handles
func (s *SweepAndPrune) Pairs() []Pair {
	pairs := make([]Pair, 0, len(s.pairs))
	for pair := range s.pairs {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(p, q Pair) int {
		if c := cmp.Compare(p.A, q.A); c != 0 {
			return c
		}
		return cmp.Compare(p.B, q.B)
	})

	return pairs
}

// HasPair reports whether the two bodies are in the overlap set
func (s *SweepAndPrune) HasPair(a, b BodyHandle) bool {
	_, ok := s.pairs[MakePair(a, b)]
	return ok
}

// Clear removes every body, marker and pair
func (s *SweepAndPrune) Clear() {
	for axis := range s.axes {
		s.axes[axis] = s.axes[axis][:0]
	}
	clear(s.bodies)
	s.bodies = s.bodies[:0]
	s.free = s.free[:0]
	clear(s.pairs)
}
