// Package timefmt converts durations to and from the MM:SS text shown in the
// tray title and popover.
package timefmt

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pomobar/internal/core/timer"
)

// ErrInvalidFormat indicates text that is neither whole seconds nor M:SS.
var ErrInvalidFormat = errors.New("invalid time format")

// Rounding selects how a partial second is shown.
type Rounding int

const (
	// Ceil never understates time left; used for countdowns.
	Ceil Rounding = iota
	// Floor never overstates time spent; used for count-up.
	Floor
)

var clockPattern = regexp.MustCompile(`^(\d+):(\d{2})$`)

// maxSeconds is the largest whole-second count a time.Duration can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Format renders value as MM:SS, prefixed with "-" when negative. Minutes are
// not capped at two digits.
func Format(value time.Duration, rounding Rounding) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	return sign + clockText(wholeSeconds(value, rounding))
}

// FormatSnapshot renders the display time of snapshot using the rounding for
// its mode. Count-up overtime is prefixed with "+".
func FormatSnapshot(snapshot timer.Snapshot) string {
	if snapshot.Mode == timer.ModeCountUp {
		text := Format(snapshot.DisplayTime, Floor)
		if snapshot.IsOvertime {
			return "+" + text
		}
		return text
	}
	return Format(snapshot.DisplayTime, Ceil)
}

// Parse accepts a bare number of seconds or M:SS / MM:SS with a two digit
// seconds field.
func Parse(text string) (time.Duration, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && isDigits(trimmed) {
		seconds, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil || seconds > maxSeconds {
			return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidFormat)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	match := clockPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidFormat)
	}
	minutes, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidFormat)
	}
	seconds, _ := strconv.ParseInt(match[2], 10, 64)
	if minutes > (maxSeconds-seconds)/60 {
		return 0, fmt.Errorf("parse %q: %w", text, ErrInvalidFormat)
	}
	return time.Duration(minutes*60+seconds) * time.Second, nil
}

// Badge returns the short status text for the tray: whole minutes left
// (rounded up) while running or paused, "+N" overtime minutes, and nothing
// when idle.
func Badge(snapshot timer.Snapshot) string {
	switch snapshot.State {
	case timer.StateRunning, timer.StatePaused:
		if snapshot.Remaining < 0 {
			return "+" + strconv.FormatInt(ceilMinutes(-snapshot.Remaining), 10)
		}
		return strconv.FormatInt(ceilMinutes(snapshot.Remaining), 10)
	case timer.StateOvertime:
		return "+" + strconv.FormatInt(ceilMinutes(-snapshot.Remaining), 10)
	default:
		return ""
	}
}

func wholeSeconds(value time.Duration, rounding Rounding) int64 {
	seconds := int64(value / time.Second)
	if rounding == Ceil && value%time.Second != 0 {
		seconds++
	}
	return seconds
}

func ceilMinutes(value time.Duration) int64 {
	minutes := int64(value / time.Minute)
	if value%time.Minute != 0 {
		minutes++
	}
	return minutes
}

func clockText(totalSeconds int64) string {
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
