// Package animation runs short frame sequences, such as the tray icon pulse
// shown when a session reaches its target.
package animation

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

// PulseSpec defines the frames of a pulse. Rest is shown once the pulse ends
// or is stopped; a nil Rest lets the frame callback pick the resting frame.
type PulseSpec struct {
	On   fyne.Resource
	Off  fyne.Resource
	Rest fyne.Resource
}

// Config contains animation timing values.
type Config struct {
	Interval time.Duration
	Cycles   int
}

// DefaultConfig returns a pulse of about six seconds.
func DefaultConfig() Config {
	return Config{
		Interval: 500 * time.Millisecond,
		Cycles:   6,
	}
}

// Engine runs at most one animation at a time.
type Engine struct {
	mu          sync.Mutex
	config      Config
	updateFrame func(fyne.Resource)
	cancel      context.CancelFunc
	done        chan struct{}
}

// New creates a new animation engine.
func New(config Config, updateFrame func(fyne.Resource)) *Engine {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if config.Cycles <= 0 {
		config.Cycles = DefaultConfig().Cycles
	}
	return &Engine{
		config:      config,
		updateFrame: updateFrame,
	}
}

// Pulse alternates between the On and Off frames, replacing any running
// animation.
func (engine *Engine) Pulse(ctx context.Context, spec PulseSpec) {
	engine.start(ctx, func(runCtx context.Context) {
		defer engine.updateFrame(spec.Rest)
		for cycle := 0; cycle < engine.config.Cycles; cycle++ {
			engine.updateFrame(spec.On)
			if !sleepWithContext(runCtx, engine.config.Interval) {
				return
			}
			engine.updateFrame(spec.Off)
			if !sleepWithContext(runCtx, engine.config.Interval) {
				return
			}
		}
	})
}

// Stop cancels the running animation and waits for it to show its rest frame.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel, done := engine.cancel, engine.done
	engine.cancel, engine.done = nil, nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Running reports whether an animation is in progress.
func (engine *Engine) Running() bool {
	engine.mu.Lock()
	done := engine.done
	engine.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.mu.Lock()
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
