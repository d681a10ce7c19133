package popover

import (
	"context"
	"fmt"
	"time"

	"pomobar/internal/bridge"
	"pomobar/internal/core/timefmt"
	"pomobar/internal/core/timer"
	"pomobar/internal/storage"
)

// Commands is the timer surface the popover drives. *bridge.Bridge
// satisfies it.
type Commands interface {
	Snapshot() timer.Snapshot
	Start(duration time.Duration, mode timer.Mode) (timer.Snapshot, error)
	Pause() timer.Snapshot
	Resume() timer.Snapshot
	Reset() timer.Snapshot
	StopForSave() bridge.StopResult
}

// Records stores finished sessions. *storage.RecordStore satisfies it.
type Records interface {
	Save(ctx context.Context, name string, duration, actualTime time.Duration) (storage.Record, error)
	Today(ctx context.Context, now time.Time) (storage.DaySummary, error)
}

// Controls lists which controls are usable in a timer state.
type Controls struct {
	Inputs bool
	Pause  bool
	Resume bool
	Stop   bool
	Reset  bool
}

// ControlsFor returns the controls shown for state. Duration inputs and
// presets are only usable while idle.
func ControlsFor(state timer.State) Controls {
	switch state {
	case timer.StateRunning, timer.StateOvertime:
		return Controls{Pause: true, Stop: true, Reset: true}
	case timer.StatePaused:
		return Controls{Resume: true, Stop: true, Reset: true}
	default:
		return Controls{Inputs: true}
	}
}

// StateLabel is the short text shown under the time display.
func StateLabel(snapshot timer.Snapshot) string {
	switch snapshot.State {
	case timer.StateRunning:
		return "Running"
	case timer.StatePaused:
		if snapshot.IsOvertime {
			return "Paused (over time)"
		}
		return "Paused"
	case timer.StateOvertime:
		return "Time is up"
	default:
		return "Ready"
	}
}

// DisplayText is the large time shown in the popover. Idle shows the
// duration that the next start would use.
func DisplayText(snapshot timer.Snapshot, next time.Duration) string {
	if snapshot.State == timer.StateIdle {
		return timefmt.Format(next, timefmt.Floor)
	}
	return timefmt.FormatSnapshot(snapshot)
}

// ParseEntry converts the time entry text to a session duration.
func ParseEntry(text string) (time.Duration, error) {
	duration, err := timefmt.Parse(text)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("entry %q: %w", text, timer.ErrInvalidDuration)
	}
	return duration, nil
}

// RecordLine renders one record for the today list.
func RecordLine(record storage.Record) string {
	return fmt.Sprintf("%s  %s / %s  %s",
		record.CreatedAt.Format("15:04"),
		timefmt.Format(record.ActualTime, timefmt.Floor),
		timefmt.Format(record.Duration, timefmt.Floor),
		record.Name,
	)
}

// TotalLine renders the today total.
func TotalLine(summary storage.DaySummary) string {
	if len(summary.Records) == 0 {
		return "No sessions today"
	}
	noun := "sessions"
	if len(summary.Records) == 1 {
		noun = "session"
	}
	return fmt.Sprintf("Today: %d %s, %s", len(summary.Records), noun, timefmt.Format(summary.Total, timefmt.Floor))
}
