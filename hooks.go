package ballast

import "time"

// Phase is a stage of World.Update
type Phase uint8

const (
	PhaseIntegrate Phase = iota
	PhaseBounds
	PhaseBroadPhase
	PhaseNarrowPhase
	PhaseContacts
	PhaseResolution
)

func (p Phase) String() string {
	switch p {
	case PhaseIntegrate:
		return "integrate"
	case PhaseBounds:
		return "bounds"
	case PhaseBroadPhase:
		return "broad_phase"
	case PhaseNarrowPhase:
		return "narrow_phase"
	case PhaseContacts:
		return "contacts"
	case PhaseResolution:
		return "resolution"
	default:
		return "unknown"
	}
}

// Hooks instruments World.Update. A nil OnPhase costs nothing.
// The narrow phase, contact and resolution phases run pair by pair: OnPhase
// receives their total duration over the step.
type Hooks struct {
	OnPhase func(phase Phase, elapsed time.Duration)
}

func (h Hooks) enabled() bool {
	return h.OnPhase != nil
}

func (h Hooks) now() time.Time {
	if !h.enabled() {
		return time.Time{}
	}
	return time.Now()
}

func (h Hooks) report(phase Phase, elapsed time.Duration) {
	if h.enabled() {
		h.OnPhase(phase, elapsed)
	}
}

// since returns the time elapsed from start; zero when the hooks are disabled
func (h Hooks) since(start time.Time) time.Duration {
	if !h.enabled() {
		return 0
	}
	return time.Since(start)
}
