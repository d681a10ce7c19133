package tray

import (
	"pomobar/internal/core/timer"
	"pomobar/resources"
)

// MenuState is which tray commands are available in a timer state.
type MenuState struct {
	StartLabel string
	Start      bool
	Pause      bool
	Stop       bool
	Reset      bool
}

// MenuFor returns the menu state for state. Start doubles as Resume while
// paused.
func MenuFor(state timer.State) MenuState {
	switch state {
	case timer.StateRunning, timer.StateOvertime:
		return MenuState{StartLabel: "Start", Pause: true, Stop: true, Reset: true}
	case timer.StatePaused:
		return MenuState{StartLabel: "Resume", Start: true, Stop: true, Reset: true}
	default:
		return MenuState{StartLabel: "Start", Start: true}
	}
}

func iconFor(state timer.State) string {
	switch state {
	case timer.StateRunning:
		return resources.RunningIcon
	case timer.StatePaused:
		return resources.PausedIcon
	case timer.StateOvertime:
		return resources.OvertimeIcon
	default:
		return resources.IdleIcon
	}
}

func statusText(badge string) string {
	if badge == "" {
		return "Status: idle"
	}
	if badge[0] == '+' {
		return "Status: " + badge[1:] + " min over"
	}
	return "Status: " + badge + " min left"
}

func tooltipText(state timer.State, badge string) string {
	switch state {
	case timer.StatePaused:
		return "Timer (paused, " + badge + ")"
	case timer.StateRunning, timer.StateOvertime:
		return "Timer (" + badge + ")"
	default:
		return tooltipIdle
	}
}
