package session

import "sync"

// ActivityKind is a type of user activity that keeps a session alive.
type ActivityKind string

const (
	PointerDown ActivityKind = "pointerdown"
	KeyDown     ActivityKind = "keydown"
	Scroll      ActivityKind = "scroll"
	TouchStart  ActivityKind = "touchstart"
	Click       ActivityKind = "click"
)

// ActivityKinds lists the kinds a Manager listens to.
var ActivityKinds = []ActivityKind{PointerDown, KeyDown, Scroll, TouchStart, Click}

// ActivitySource delivers user-activity notifications.
type ActivitySource interface {
	// Listen registers fn for kind and returns a function that removes it.
	Listen(kind ActivityKind, fn func()) (remove func())
}

// Hub is an ActivitySource fed by Emit.
type Hub struct {
	mu        sync.Mutex
	next      int
	listeners map[ActivityKind]map[int]func()
}

// NewHub returns a hub without listeners.
func NewHub() *Hub {
	return &Hub{listeners: map[ActivityKind]map[int]func(){}}
}

func (h *Hub) Listen(kind ActivityKind, fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	if h.listeners[kind] == nil {
		h.listeners[kind] = map[int]func(){}
	}
	h.listeners[kind][id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners[kind], id)
	}
}

// Emit notifies every listener of kind. Listeners run outside the hub lock.
func (h *Hub) Emit(kind ActivityKind) {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.listeners[kind]))
	for _, fn := range h.listeners[kind] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Listeners returns the number of registered listeners across all kinds.
func (h *Hub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.listeners {
		n += len(m)
	}
	return n
}
