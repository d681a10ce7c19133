// Package bridge connects presentation surfaces to the timer engine. Commands
// flow down to the engine and events fan out to every registered surface and
// channel subscriber.
package bridge

import (
	"log"
	"sync"
	"time"

	"pomobar/internal/core/model"
	"pomobar/internal/core/timer"
)

// Engine is the subset of the timer engine the bridge drives.
type Engine interface {
	Start(duration time.Duration, mode timer.Mode) (timer.Snapshot, error)
	Pause() timer.Snapshot
	Resume() timer.Snapshot
	Stop() timer.Snapshot
	Reset() timer.Snapshot
	Snapshot() timer.Snapshot
	OnTick(handler func(timer.Snapshot)) func()
	OnStateChange(handler func(timer.StateChange)) func()
	OnComplete(handler func(timer.Completion)) func()
}

// Options configures a Bridge.
type Options struct {
	Defaults model.SessionDefaults
	Logger   *log.Logger
	Now      func() time.Time
}

type surfaceEntry struct {
	id      uint64
	name    string
	surface Surface
}

// Bridge exposes timer commands to the UI and relays engine events.
type Bridge struct {
	engine Engine
	logger *log.Logger
	now    func() time.Time

	mu          sync.Mutex
	defaults    model.SessionDefaults
	surfaces    []surfaceEntry
	nextID      uint64
	channels    []chan Event
	unsubscribe []func()
	closed      bool
}

// New creates a Bridge subscribed to engine.
func New(engine Engine, options Options) *Bridge {
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	bridge := &Bridge{
		engine:   engine,
		logger:   options.Logger,
		now:      options.Now,
		defaults: options.Defaults,
	}
	bridge.unsubscribe = []func(){
		engine.OnTick(bridge.forwardTick),
		engine.OnStateChange(bridge.forwardStateChange),
		engine.OnComplete(bridge.forwardComplete),
	}
	return bridge
}

// SetDefaults changes the session started by Toggle from idle.
func (bridge *Bridge) SetDefaults(defaults model.SessionDefaults) {
	bridge.mu.Lock()
	bridge.defaults = defaults
	bridge.mu.Unlock()
}

// Defaults returns the session started by Toggle from idle.
func (bridge *Bridge) Defaults() model.SessionDefaults {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	return bridge.defaults
}

// Snapshot returns the engine's current snapshot.
func (bridge *Bridge) Snapshot() timer.Snapshot {
	return bridge.engine.Snapshot()
}

// Start begins a new session.
func (bridge *Bridge) Start(duration time.Duration, mode timer.Mode) (timer.Snapshot, error) {
	return bridge.engine.Start(duration, mode)
}

// Pause freezes the running session.
func (bridge *Bridge) Pause() timer.Snapshot {
	return bridge.engine.Pause()
}

// Resume continues a paused session.
func (bridge *Bridge) Resume() timer.Snapshot {
	return bridge.engine.Resume()
}

// Stop ends the session.
func (bridge *Bridge) Stop() timer.Snapshot {
	return bridge.engine.Stop()
}

// Reset returns to idle keeping the duration.
func (bridge *Bridge) Reset() timer.Snapshot {
	return bridge.engine.Reset()
}

// Toggle resumes a paused session or starts the default session when idle.
// Running and overtime sessions are left alone.
func (bridge *Bridge) Toggle() (timer.Snapshot, error) {
	snapshot := bridge.engine.Snapshot()
	switch snapshot.State {
	case timer.StatePaused:
		return bridge.engine.Resume(), nil
	case timer.StateIdle:
		defaults := bridge.Defaults()
		return bridge.engine.Start(defaults.Duration, timer.ParseMode(defaults.Mode))
	default:
		return snapshot, nil
	}
}

// StopForSave stops an active session and reports what ran. Stopped is false
// when there was nothing to stop.
func (bridge *Bridge) StopForSave() StopResult {
	if !bridge.engine.Snapshot().State.Active() {
		return StopResult{}
	}
	final := bridge.engine.Stop()
	return StopResult{
		Duration: final.Duration,
		Elapsed:  final.Elapsed,
		Mode:     final.Mode,
		Stopped:  true,
	}
}

// Register adds surface under name. Registering a name again replaces only
// that entry. The returned func removes this registration.
func (bridge *Bridge) Register(name string, surface Surface) (unregister func()) {
	if surface == nil {
		return func() {}
	}
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	if bridge.closed {
		return func() {}
	}
	bridge.nextID++
	id := bridge.nextID
	entry := surfaceEntry{id: id, name: name, surface: surface}

	replaced := false
	for i := range bridge.surfaces {
		if bridge.surfaces[i].name == name {
			bridge.surfaces[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		bridge.surfaces = append(bridge.surfaces, entry)
	}

	return func() {
		bridge.mu.Lock()
		defer bridge.mu.Unlock()
		for i := range bridge.surfaces {
			if bridge.surfaces[i].id == id {
				bridge.surfaces = append(bridge.surfaces[:i:i], bridge.surfaces[i+1:]...)
				return
			}
		}
	}
}

// Surfaces returns the registered surface names in registration order.
func (bridge *Bridge) Surfaces() []string {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	names := make([]string, 0, len(bridge.surfaces))
	for _, entry := range bridge.surfaces {
		names = append(names, entry.name)
	}
	return names
}

// Subscribe registers a new observer channel. Events are dropped for a
// subscriber whose buffer is full. Cancel closes the channel.
func (bridge *Bridge) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	bridge.mu.Lock()
	if bridge.closed {
		bridge.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	bridge.channels = append(bridge.channels, ch)
	bridge.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			bridge.mu.Lock()
			defer bridge.mu.Unlock()
			for i, existing := range bridge.channels {
				if existing == ch {
					bridge.channels = append(bridge.channels[:i:i], bridge.channels[i+1:]...)
					close(ch)
					return
				}
			}
		})
	}
	return ch, cancel
}

// Close detaches from the engine, drops all surfaces and closes subscriber
// channels.
func (bridge *Bridge) Close() {
	bridge.mu.Lock()
	if bridge.closed {
		bridge.mu.Unlock()
		return
	}
	bridge.closed = true
	unsubscribe := bridge.unsubscribe
	channels := bridge.channels
	bridge.unsubscribe = nil
	bridge.channels = nil
	bridge.surfaces = nil
	bridge.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
	for _, ch := range channels {
		close(ch)
	}
}

func (bridge *Bridge) forwardTick(snapshot timer.Snapshot) {
	bridge.each("tick", func(surface Surface) { surface.HandleTick(snapshot) })
	bridge.emit(Event{Type: EventTick, Snapshot: snapshot})
}

func (bridge *Bridge) forwardStateChange(change timer.StateChange) {
	bridge.each("state change", func(surface Surface) { surface.HandleStateChange(change, change.Snapshot) })
	bridge.emit(Event{Type: EventStateChange, Snapshot: change.Snapshot, Change: change})
}

func (bridge *Bridge) forwardComplete(completion timer.Completion) {
	bridge.each("completion", func(surface Surface) { surface.HandleComplete(completion) })
	bridge.emit(Event{Type: EventComplete, Snapshot: bridge.engine.Snapshot(), Completion: completion})
}

func (bridge *Bridge) each(kind string, call func(Surface)) {
	bridge.mu.Lock()
	entries := make([]surfaceEntry, len(bridge.surfaces))
	copy(entries, bridge.surfaces)
	bridge.mu.Unlock()

	for _, entry := range entries {
		if liveness, ok := entry.surface.(Liveness); ok && !liveness.Alive() {
			continue
		}
		bridge.deliver(kind, entry.name, func() { call(entry.surface) })
	}
}

func (bridge *Bridge) deliver(kind, name string, call func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			bridge.logger.Printf("bridge: surface %q panicked on %s: %v", name, kind, recovered)
		}
	}()
	call()
}

func (bridge *Bridge) emit(event Event) {
	event.At = bridge.now()
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	for _, ch := range bridge.channels {
		select {
		case ch <- event:
		default:
		}
	}
}
