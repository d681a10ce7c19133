package preferences

import (
	"time"

	"pomobar/internal/core/model"
	"pomobar/internal/core/timer"
)

// WindowMode selects how the timer window is shown.
type WindowMode string

const (
	WindowPopover  WindowMode = "popover"
	WindowFloating WindowMode = "floating"
)

// Settings defines editable user preferences.
type Settings struct {
	DefaultDuration      time.Duration
	DefaultMode          timer.Mode
	TickInterval         time.Duration
	NotificationsEnabled bool
	LaunchAtLogin        bool
	WindowMode           WindowMode
}

// DefaultSettings returns default settings for pomobar.
func DefaultSettings() Settings {
	return Settings{
		DefaultDuration:      25 * time.Minute,
		DefaultMode:          timer.ModeCountdown,
		TickInterval:         time.Second,
		NotificationsEnabled: true,
		LaunchAtLogin:        false,
		WindowMode:           WindowPopover,
	}
}

// TimerConfig converts settings to the engine configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{TickInterval: settings.TickInterval}
}

// SessionDefaults converts settings to the session started from the tray.
func (settings Settings) SessionDefaults() model.SessionDefaults {
	return model.SessionDefaults{
		Duration: settings.DefaultDuration,
		Mode:     string(settings.DefaultMode),
	}
}
