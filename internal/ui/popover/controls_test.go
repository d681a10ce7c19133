package popover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobar/internal/core/timefmt"
	"pomobar/internal/core/timer"
	"pomobar/internal/storage"
)

func TestControlsFor(t *testing.T) {
	tests := []struct {
		state    timer.State
		expected Controls
	}{
		{state: timer.StateIdle, expected: Controls{Inputs: true}},
		{state: timer.StateRunning, expected: Controls{Pause: true, Stop: true, Reset: true}},
		{state: timer.StateOvertime, expected: Controls{Pause: true, Stop: true, Reset: true}},
		{state: timer.StatePaused, expected: Controls{Resume: true, Stop: true, Reset: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.expected, ControlsFor(tt.state))
		})
	}
}

func TestStateLabel(t *testing.T) {
	assert.Equal(t, "Ready", StateLabel(timer.Snapshot{State: timer.StateIdle}))
	assert.Equal(t, "Running", StateLabel(timer.Snapshot{State: timer.StateRunning}))
	assert.Equal(t, "Paused", StateLabel(timer.Snapshot{State: timer.StatePaused}))
	assert.Equal(t, "Paused (over time)", StateLabel(timer.Snapshot{State: timer.StatePaused, IsOvertime: true}))
	assert.Equal(t, "Time is up", StateLabel(timer.Snapshot{State: timer.StateOvertime}))
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "25:00", DisplayText(timer.Snapshot{State: timer.StateIdle}, 25*time.Minute))
	assert.Equal(t, "-00:05", DisplayText(timer.Snapshot{
		State:       timer.StateOvertime,
		Mode:        timer.ModeCountdown,
		DisplayTime: -5 * time.Second,
		IsOvertime:  true,
	}, 25*time.Minute))
	assert.Equal(t, "00:42", DisplayText(timer.Snapshot{
		State:       timer.StateRunning,
		Mode:        timer.ModeCountUp,
		DisplayTime: 42*time.Second + 700*time.Millisecond,
	}, 25*time.Minute))
}

func TestParseEntry(t *testing.T) {
	duration, err := ParseEntry("12:30")
	require.NoError(t, err)
	assert.Equal(t, 12*time.Minute+30*time.Second, duration)

	_, err = ParseEntry("0:00")
	assert.ErrorIs(t, err, timer.ErrInvalidDuration)

	_, err = ParseEntry("soon")
	assert.ErrorIs(t, err, timefmt.ErrInvalidFormat)
}

func TestRecordLines(t *testing.T) {
	record := storage.Record{
		Name:       "Write report",
		Duration:   25 * time.Minute,
		ActualTime: 26*time.Minute + 10*time.Second,
		CreatedAt:  time.Date(2024, 5, 6, 14, 5, 0, 0, time.UTC),
	}
	assert.Equal(t, "14:05  26:10 / 25:00  Write report", RecordLine(record))

	assert.Equal(t, "No sessions today", TotalLine(storage.DaySummary{}))
	assert.Equal(t, "Today: 2 sessions, 50:00", TotalLine(storage.DaySummary{
		Records: []storage.Record{record, record},
		Total:   50 * time.Minute,
	}))
}
