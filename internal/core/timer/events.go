package timer

import "time"

// Phase represents the current session timer mode.
type Phase string

const (
	PhaseRunning   Phase = "running"
	PhasePaused    Phase = "paused"
	PhaseCompleted Phase = "completed"
	PhaseStopped   Phase = "stopped"
)

// Terminal reports whether the phase ends the session.
func (phase Phase) Terminal() bool {
	return phase == PhaseCompleted || phase == PhaseStopped
}

// EventType defines the type of session timer event.
type EventType string

const (
	EventPhaseChange EventType = "phase_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
	EventStopped     EventType = "stopped"
)

// Event represents a session timer update for observers. Minutes is only
// meaningful on EventCompleted and EventStopped and carries the committed
// session length.
type Event struct {
	Type      EventType
	Phase     Phase
	Remaining int
	Minutes   int
	At        time.Time
}
