package bridge

import (
	"time"

	"pomobar/internal/core/timer"
)

// EventType defines the kind of engine event forwarded to channel subscribers.
type EventType string

const (
	EventTick        EventType = "tick"
	EventStateChange EventType = "state_change"
	EventComplete    EventType = "complete"
)

// Event represents an engine update for channel observers. Only the field
// matching Type is meaningful, except Snapshot which is always set.
type Event struct {
	Type       EventType
	Snapshot   timer.Snapshot
	Change     timer.StateChange
	Completion timer.Completion
	At         time.Time
}

// StopResult carries what the save-session flow needs after a stop.
type StopResult struct {
	Duration time.Duration
	Elapsed  time.Duration
	Mode     timer.Mode
	Stopped  bool
}

// Surface is a presentation target that mirrors engine state.
type Surface interface {
	HandleTick(snapshot timer.Snapshot)
	HandleStateChange(change timer.StateChange, snapshot timer.Snapshot)
	HandleComplete(completion timer.Completion)
}

// Liveness is optionally implemented by surfaces that can be torn down
// while still registered.
type Liveness interface {
	Alive() bool
}
