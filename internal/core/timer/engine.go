package timer

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pomobar/internal/core/model"
)

var (
	// ErrInvalidDuration indicates a start request with a non-positive duration.
	ErrInvalidDuration = errors.New("duration must be positive")
	// ErrInvalidMode indicates a start request with an unknown display mode.
	ErrInvalidMode = errors.New("unknown timer mode")
)

const defaultTickInterval = time.Second

// Config contains runtime options for Engine.
type Config struct {
	Clock  Clock
	Logger *log.Logger
}

// Engine is the timer state machine. It owns at most one session and at most
// one pending tick at a time.
type Engine struct {
	mu       sync.Mutex
	config   model.TimerConfig
	clock    Clock
	logger   *log.Logger
	dispatch dispatcher

	state         State
	mode          Mode
	duration      time.Duration
	elapsed       time.Duration
	pausedElapsed time.Duration
	resumedAt     time.Time
	completed     bool

	generation uint64
	pending    Stopper
	closed     bool

	ticks       registry[func(Snapshot)]
	changes     registry[func(StateChange)]
	completions registry[func(Completion)]
}

// New creates an idle Engine.
func New(config model.TimerConfig, options Config) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = defaultTickInterval
	}
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	return &Engine{
		config: config,
		clock:  options.Clock,
		logger: options.Logger,
		state:  StateIdle,
		mode:   ModeCountdown,
	}
}

// SetTickInterval changes the cadence used from the next scheduled tick on.
func (engine *Engine) SetTickInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	engine.mu.Lock()
	engine.config.TickInterval = interval
	engine.mu.Unlock()
}

// Snapshot returns the state committed by the last operation or tick.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// Start begins a new session, discarding any session in progress.
func (engine *Engine) Start(duration time.Duration, mode Mode) (Snapshot, error) {
	if duration <= 0 {
		return engine.Snapshot(), fmt.Errorf("start %v: %w", duration, ErrInvalidDuration)
	}
	if !mode.Valid() {
		return engine.Snapshot(), fmt.Errorf("start %q: %w", mode, ErrInvalidMode)
	}

	engine.mu.Lock()
	now := engine.clock.Now()
	previous := engine.state
	engine.cancelTickLocked()
	engine.duration = duration
	engine.mode = mode
	engine.elapsed = 0
	engine.pausedElapsed = 0
	engine.completed = false
	engine.resumedAt = now
	engine.state = StateRunning
	if previous != StateRunning {
		engine.emitStateChangeLocked(previous, StateRunning)
	}
	engine.tickLocked(now)
	engine.scheduleLocked()
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.dispatch.drain()
	return snapshot, nil
}

// Pause freezes elapsed time. It is a no-op unless running or in overtime.
func (engine *Engine) Pause() Snapshot {
	engine.mu.Lock()
	if engine.state != StateRunning && engine.state != StateOvertime {
		snapshot := engine.snapshotLocked()
		engine.mu.Unlock()
		return snapshot
	}
	engine.elapsed = engine.elapsedAtLocked(engine.clock.Now())
	engine.pausedElapsed = engine.elapsed
	engine.cancelTickLocked()
	previous := engine.state
	engine.state = StatePaused
	engine.emitStateChangeLocked(previous, StatePaused)
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.dispatch.drain()
	return snapshot
}

// Resume continues a paused session, returning to overtime when the target
// was already reached before the pause.
func (engine *Engine) Resume() Snapshot {
	engine.mu.Lock()
	if engine.state != StatePaused {
		snapshot := engine.snapshotLocked()
		engine.mu.Unlock()
		return snapshot
	}
	now := engine.clock.Now()
	engine.resumedAt = now
	next := StateRunning
	if engine.duration-engine.pausedElapsed <= 0 {
		next = StateOvertime
	}
	engine.state = next
	engine.emitStateChangeLocked(StatePaused, next)
	if next == StateOvertime {
		engine.completeLocked()
	}
	engine.tickLocked(now)
	engine.scheduleLocked()
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.dispatch.drain()
	return snapshot
}

// Stop ends the session. The returned snapshot is idle but still carries the
// final elapsed time; afterwards the engine reports zero elapsed.
func (engine *Engine) Stop() Snapshot {
	engine.mu.Lock()
	if engine.state == StateIdle {
		snapshot := engine.snapshotLocked()
		engine.mu.Unlock()
		return snapshot
	}
	if engine.state != StatePaused {
		engine.elapsed = engine.elapsedAtLocked(engine.clock.Now())
	}
	engine.cancelTickLocked()
	previous := engine.state
	engine.state = StateIdle
	final := engine.snapshotLocked()
	engine.elapsed = 0
	engine.pausedElapsed = 0
	engine.emitStateChangeLocked(previous, StateIdle)
	engine.mu.Unlock()

	engine.dispatch.drain()
	return final
}

// Reset discards elapsed time and returns to idle, keeping the duration.
func (engine *Engine) Reset() Snapshot {
	engine.mu.Lock()
	if engine.state == StateIdle {
		snapshot := engine.snapshotLocked()
		engine.mu.Unlock()
		return snapshot
	}
	engine.cancelTickLocked()
	previous := engine.state
	engine.state = StateIdle
	engine.elapsed = 0
	engine.pausedElapsed = 0
	engine.completed = false
	engine.emitStateChangeLocked(previous, StateIdle)
	snapshot := engine.snapshotLocked()
	engine.mu.Unlock()

	engine.dispatch.drain()
	return snapshot
}

// Close cancels any pending tick and drops all subscribers. Later commands
// still update state but schedule no ticks and deliver no events.
func (engine *Engine) Close() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	engine.closed = true
	engine.cancelTickLocked()
	engine.ticks.clear()
	engine.changes.clear()
	engine.completions.clear()
}

// OnTick registers a handler called on every tick, including the immediate
// tick after start and resume.
func (engine *Engine) OnTick(handler func(Snapshot)) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return func() {}
	}
	id := engine.ticks.add(handler)
	return func() {
		engine.mu.Lock()
		engine.ticks.remove(id)
		engine.mu.Unlock()
	}
}

// OnStateChange registers a handler called whenever the state changes.
func (engine *Engine) OnStateChange(handler func(StateChange)) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return func() {}
	}
	id := engine.changes.add(handler)
	return func() {
		engine.mu.Lock()
		engine.changes.remove(id)
		engine.mu.Unlock()
	}
}

// OnComplete registers a handler called once per session when the target
// duration is reached.
func (engine *Engine) OnComplete(handler func(Completion)) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return func() {}
	}
	id := engine.completions.add(handler)
	return func() {
		engine.mu.Lock()
		engine.completions.remove(id)
		engine.mu.Unlock()
	}
}

// SubscriberCount returns the number of registered handlers of all kinds.
func (engine *Engine) SubscriberCount() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.ticks.len() + engine.changes.len() + engine.completions.len()
}

func (engine *Engine) onTimer(generation uint64) {
	engine.mu.Lock()
	if engine.closed || generation != engine.generation {
		engine.mu.Unlock()
		return
	}
	if engine.state != StateRunning && engine.state != StateOvertime {
		engine.mu.Unlock()
		return
	}
	engine.tickLocked(engine.clock.Now())
	engine.scheduleLocked()
	engine.mu.Unlock()

	engine.dispatch.drain()
}

func (engine *Engine) tickLocked(now time.Time) {
	engine.elapsed = engine.elapsedAtLocked(now)
	if engine.state == StateRunning && engine.duration-engine.elapsed <= 0 {
		engine.state = StateOvertime
		engine.emitStateChangeLocked(StateRunning, StateOvertime)
		engine.completeLocked()
	}
	engine.emitTickLocked(engine.snapshotLocked())
}

func (engine *Engine) elapsedAtLocked(now time.Time) time.Duration {
	delta := now.Sub(engine.resumedAt)
	if delta < 0 {
		delta = 0
	}
	return engine.pausedElapsed + delta
}

func (engine *Engine) completeLocked() {
	if engine.completed {
		return
	}
	engine.completed = true
	engine.emitCompleteLocked(Completion{
		Duration: engine.duration,
		Elapsed:  engine.elapsed,
		Mode:     engine.mode,
	})
}

// scheduleLocked arms the next tick on the next cadence boundary of elapsed
// time so scheduling delay does not accumulate.
func (engine *Engine) scheduleLocked() {
	if engine.closed {
		return
	}
	interval := engine.config.TickInterval
	delay := interval - engine.elapsed%interval
	generation := engine.generation
	engine.pending = engine.clock.AfterFunc(delay, func() {
		engine.onTimer(generation)
	})
}

func (engine *Engine) cancelTickLocked() {
	engine.generation++
	if engine.pending != nil {
		engine.pending.Stop()
		engine.pending = nil
	}
}

func (engine *Engine) snapshotLocked() Snapshot {
	return newSnapshot(engine.state, engine.mode, engine.duration, engine.elapsed)
}

func (engine *Engine) emitTickLocked(snapshot Snapshot) {
	if engine.closed {
		return
	}
	handlers := engine.ticks.handlers()
	engine.dispatch.enqueue(func() {
		for _, handler := range handlers {
			if engine.isClosed() {
				return
			}
			engine.invoke("tick", func() { handler(snapshot) })
		}
	})
}

func (engine *Engine) emitStateChangeLocked(previous, current State) {
	if engine.closed {
		return
	}
	change := StateChange{Previous: previous, Current: current, Snapshot: engine.snapshotLocked()}
	handlers := engine.changes.handlers()
	engine.dispatch.enqueue(func() {
		for _, handler := range handlers {
			if engine.isClosed() {
				return
			}
			engine.invoke("state change", func() { handler(change) })
		}
	})
}

func (engine *Engine) emitCompleteLocked(completion Completion) {
	if engine.closed {
		return
	}
	handlers := engine.completions.handlers()
	engine.dispatch.enqueue(func() {
		for _, handler := range handlers {
			if engine.isClosed() {
				return
			}
			engine.invoke("complete", func() { handler(completion) })
		}
	})
}

func (engine *Engine) isClosed() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.closed
}

// invoke isolates a subscriber so a panic does not reach the engine or
// suppress delivery to the remaining subscribers.
func (engine *Engine) invoke(kind string, call func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			engine.logger.Printf("timer: %s handler panicked: %v", kind, recovered)
		}
	}()
	call()
}
