package model

import "time"

// TimerConfig contains runtime settings for the timer engine.
type TimerConfig struct {
	TickInterval time.Duration
}

// SessionDefaults describes the session started when no duration is chosen,
// for example from the tray menu.
type SessionDefaults struct {
	Duration time.Duration
	Mode     string
}

// Preset is a named quick-start duration.
type Preset struct {
	Label    string
	Duration time.Duration
}

// DefaultPresets returns the quick-start durations offered by the popover.
func DefaultPresets() []Preset {
	return []Preset{
		{Label: "5 min", Duration: 5 * time.Minute},
		{Label: "10 min", Duration: 10 * time.Minute},
		{Label: "25 min", Duration: 25 * time.Minute},
		{Label: "45 min", Duration: 45 * time.Minute},
	}
}
