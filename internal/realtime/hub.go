package realtime

import "sync"

// Listener receives values broadcast by a Hub. Only the most recent
// undelivered value is kept, so a slow reader skips intermediate values
// instead of blocking the broadcaster.
type Listener[T any] struct {
	ch chan T
}

// C returns the channel values are delivered on. It is closed when the
// listener is unregistered or the hub is closed.
func (l *Listener[T]) C() <-chan T {
	return l.ch
}

// Hub fans values out to every registered listener.
type Hub[T any] struct {
	mu        sync.Mutex
	listeners map[*Listener[T]]struct{}
	closed    bool
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		listeners: make(map[*Listener[T]]struct{}),
	}
}

// Register adds a listener. Registering on a closed hub returns a listener
// whose channel is already closed.
func (h *Hub[T]) Register() *Listener[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	l := &Listener[T]{ch: make(chan T, 1)}
	if h.closed {
		close(l.ch)
		return l
	}
	h.listeners[l] = struct{}{}
	return l
}

// Unregister removes the listener and closes its channel. It is safe to call
// more than once.
func (h *Hub[T]) Unregister(l *Listener[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.listeners[l]; ok {
		delete(h.listeners, l)
		close(l.ch)
	}
}

// Broadcast delivers v to every listener, replacing any value still pending.
func (h *Hub[T]) Broadcast(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for l := range h.listeners {
		select {
		case l.ch <- v:
			continue
		default:
		}
		// drop the stale value; only Broadcast sends, so there is room after
		select {
		case <-l.ch:
		default:
		}
		select {
		case l.ch <- v:
		default:
		}
	}
}

// Len returns the number of registered listeners.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// Close unregisters every listener. Later registrations are closed at once.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for l := range h.listeners {
		delete(h.listeners, l)
		close(l.ch)
	}
	h.closed = true
}
