package timer

import "time"

// State represents the current position of the timer state machine.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateOvertime State = "overtime"
)

// Active reports whether a session exists in this state.
func (state State) Active() bool {
	return state == StateRunning || state == StatePaused || state == StateOvertime
}

// Mode selects how a session is displayed. It is fixed when a session starts.
type Mode string

const (
	ModeCountdown Mode = "countdown"
	ModeCountUp   Mode = "countup"
)

// Valid reports whether mode is a known display mode.
func (mode Mode) Valid() bool {
	return mode == ModeCountdown || mode == ModeCountUp
}

// ParseMode converts a stored mode name, defaulting to countdown.
func ParseMode(value string) Mode {
	mode := Mode(value)
	if !mode.Valid() {
		return ModeCountdown
	}
	return mode
}

// Snapshot is the engine state exposed after every state-affecting operation.
// Remaining may be negative once the session runs past its duration.
type Snapshot struct {
	State       State
	Mode        Mode
	Duration    time.Duration
	Elapsed     time.Duration
	Remaining   time.Duration
	IsOvertime  bool
	DisplayTime time.Duration
}

func newSnapshot(state State, mode Mode, duration, elapsed time.Duration) Snapshot {
	remaining := duration - elapsed
	display := remaining
	if mode == ModeCountUp {
		display = elapsed
	}
	return Snapshot{
		State:       state,
		Mode:        mode,
		Duration:    duration,
		Elapsed:     elapsed,
		Remaining:   remaining,
		IsOvertime:  remaining < 0,
		DisplayTime: display,
	}
}

// StateChange describes a transition between two different states.
type StateChange struct {
	Previous State
	Current  State
	// Snapshot is the state committed with the transition.
	Snapshot Snapshot
}

// Completion is emitted once per session when elapsed time first reaches the duration.
type Completion struct {
	Duration time.Duration
	Elapsed  time.Duration
	Mode     Mode
}
