package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobar/internal/core/model"
	"pomobar/internal/core/timefmt"
	"pomobar/internal/core/timer"
)

func TestDefaultSettingsConversions(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, model.TimerConfig{TickInterval: time.Second}, settings.TimerConfig())
	assert.Equal(t, model.SessionDefaults{Duration: 25 * time.Minute, Mode: "countdown"}, settings.SessionDefaults())
	assert.Equal(t, WindowPopover, settings.WindowMode)
	assert.True(t, settings.NotificationsEnabled)
}

func TestFormRoundTrip(t *testing.T) {
	settings := DefaultSettings()
	settings.DefaultDuration = 45*time.Minute + 30*time.Second
	settings.DefaultMode = timer.ModeCountUp
	settings.TickInterval = 5 * time.Second
	settings.WindowMode = WindowFloating
	settings.LaunchAtLogin = true

	applied, err := applyForm(DefaultSettings(), formFromSettings(settings))
	require.NoError(t, err)
	assert.Equal(t, settings, applied)
}

func TestApplyFormRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		values formValues
		target error
	}{
		{name: "malformed duration", values: formValues{Duration: "abc", TickSeconds: "1"}, target: timefmt.ErrInvalidFormat},
		{name: "zero duration", values: formValues{Duration: "0:00", TickSeconds: "1"}, target: timer.ErrInvalidDuration},
		{name: "zero tick", values: formValues{Duration: "25:00", TickSeconds: "0"}, target: ErrInvalidTickInterval},
		{name: "text tick", values: formValues{Duration: "25:00", TickSeconds: "fast"}, target: ErrInvalidTickInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := DefaultSettings()
			settings, err := applyForm(original, tt.values)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, original, settings)
		})
	}
}

func TestLabelLookups(t *testing.T) {
	assert.Equal(t, timer.ModeCountUp, modeFromLabel("Count up"))
	assert.Equal(t, timer.ModeCountdown, modeFromLabel("unknown"))
	assert.Equal(t, WindowFloating, windowModeFromLabel("Floating window"))
	assert.Equal(t, WindowPopover, windowModeFromLabel(""))
}
