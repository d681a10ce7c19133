package timer

import "sync"

type registration[T any] struct {
	id      uint64
	handler T
}

// registry is an append-only list of handlers; removal only drops the matching id.
type registry[T any] struct {
	nextID  uint64
	entries []registration[T]
}

func (list *registry[T]) add(handler T) uint64 {
	list.nextID++
	list.entries = append(list.entries, registration[T]{id: list.nextID, handler: handler})
	return list.nextID
}

func (list *registry[T]) remove(id uint64) {
	for i, entry := range list.entries {
		if entry.id == id {
			list.entries = append(list.entries[:i:i], list.entries[i+1:]...)
			return
		}
	}
}

func (list *registry[T]) handlers() []T {
	handlers := make([]T, 0, len(list.entries))
	for _, entry := range list.entries {
		handlers = append(handlers, entry.handler)
	}
	return handlers
}

func (list *registry[T]) len() int {
	return len(list.entries)
}

func (list *registry[T]) clear() {
	list.entries = nil
}

// dispatcher delivers queued events in commit order. Only one goroutine drains
// at a time; events queued while draining are delivered by the active drainer.
type dispatcher struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

func (queue *dispatcher) enqueue(delivery func()) {
	queue.mu.Lock()
	queue.queue = append(queue.queue, delivery)
	queue.mu.Unlock()
}

func (queue *dispatcher) drain() {
	queue.mu.Lock()
	if queue.draining {
		queue.mu.Unlock()
		return
	}
	queue.draining = true
	for len(queue.queue) > 0 {
		next := queue.queue[0]
		queue.queue[0] = nil
		queue.queue = queue.queue[1:]
		queue.mu.Unlock()
		next()
		queue.mu.Lock()
	}
	queue.queue = nil
	queue.draining = false
	queue.mu.Unlock()
}
