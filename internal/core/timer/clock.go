package timer

import "time"

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// Clock is the time source used by the engine.
type Clock interface {
	Now() time.Time
	AfterFunc(delay time.Duration, f func()) Stopper
}

type systemClock struct{}

// SystemClock is a Clock backed by the time package.
var SystemClock Clock = systemClock{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(delay time.Duration, f func()) Stopper {
	return time.AfterFunc(delay, f)
}
