package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobar/internal/core/timer"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    time.Duration
		rounding Rounding
		expected string
	}{
		{name: "ceil keeps partial second", value: 298993 * time.Millisecond, rounding: Ceil, expected: "04:59"},
		{name: "ceil rolls to next minute", value: 299001 * time.Millisecond, rounding: Ceil, expected: "05:00"},
		{name: "floor drops partial second", value: 1001 * time.Millisecond, rounding: Floor, expected: "00:01"},
		{name: "floor under one second", value: 999 * time.Millisecond, rounding: Floor, expected: "00:00"},
		{name: "negative", value: -5 * time.Second, rounding: Ceil, expected: "-00:05"},
		{name: "zero", value: 0, rounding: Ceil, expected: "00:00"},
		{name: "an hour", value: time.Hour, rounding: Floor, expected: "60:00"},
		{name: "long session", value: 125 * time.Minute, rounding: Ceil, expected: "125:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.value, tt.rounding))
		})
	}
}

func TestFormatSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot timer.Snapshot
		expected string
	}{
		{
			name:     "countdown rounds up",
			snapshot: timer.Snapshot{Mode: timer.ModeCountdown, DisplayTime: 298993 * time.Millisecond},
			expected: "04:59",
		},
		{
			name:     "countdown overtime is negative",
			snapshot: timer.Snapshot{Mode: timer.ModeCountdown, DisplayTime: -5 * time.Second, IsOvertime: true},
			expected: "-00:05",
		},
		{
			name:     "count-up rounds down",
			snapshot: timer.Snapshot{Mode: timer.ModeCountUp, DisplayTime: 1001 * time.Millisecond},
			expected: "00:01",
		},
		{
			name:     "count-up overtime gets plus",
			snapshot: timer.Snapshot{Mode: timer.ModeCountUp, DisplayTime: 65 * time.Second, IsOvertime: true},
			expected: "+01:05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSnapshot(tt.snapshot))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{input: "90", expected: 90 * time.Second},
		{input: "0", expected: 0},
		{input: "5:00", expected: 5 * time.Minute},
		{input: "05:30", expected: 5*time.Minute + 30*time.Second},
		{input: " 25:00 ", expected: 25 * time.Minute},
		{input: "120:00", expected: 2 * time.Hour},
		{input: "1:75", expected: 135 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed)
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"", "   ", "abc", "5:0", "5:000", ":30", "1:2:3", "-5", "5m", "1.5", "5:3a",
		"9223372037", "9300000000", "9223372036854775807", "99999999999999999999",
		"153722867:17", "153722867292:00",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestParseLargestDuration(t *testing.T) {
	for _, input := range []string{"9223372036", "153722867:16"} {
		parsed, err := Parse(input)
		require.NoError(t, err)
		assert.Equal(t, 9223372036*time.Second, parsed)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for seconds := int64(0); seconds <= 2*3600; seconds += 37 {
		value := time.Duration(seconds) * time.Second
		for _, rounding := range []Rounding{Ceil, Floor} {
			parsed, err := Parse(Format(value, rounding))
			require.NoError(t, err)
			assert.Equal(t, value, parsed)
		}
	}
}

func TestBadge(t *testing.T) {
	tests := []struct {
		name     string
		snapshot timer.Snapshot
		expected string
	}{
		{name: "idle", snapshot: timer.Snapshot{State: timer.StateIdle, Remaining: time.Minute}, expected: ""},
		{name: "running rounds up", snapshot: timer.Snapshot{State: timer.StateRunning, Remaining: 4*time.Minute + time.Second}, expected: "5"},
		{name: "running exact", snapshot: timer.Snapshot{State: timer.StateRunning, Remaining: 25 * time.Minute}, expected: "25"},
		{name: "paused", snapshot: timer.Snapshot{State: timer.StatePaused, Remaining: 30 * time.Second}, expected: "1"},
		{name: "overtime", snapshot: timer.Snapshot{State: timer.StateOvertime, Remaining: -61 * time.Second}, expected: "+2"},
		{name: "paused in overtime", snapshot: timer.Snapshot{State: timer.StatePaused, Remaining: -30 * time.Second}, expected: "+1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Badge(tt.snapshot))
		})
	}
}
