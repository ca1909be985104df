// Package events is a synchronous in-process notification bus.
package events

import "sync"

// Kind identifies an event type.
type Kind string

const (
	AuthChange     Kind = "auth-change"
	SessionTimeout Kind = "session-timeout"
	SessionWarning Kind = "session-warning"
)

// Event is a notification published on a Bus.
type Event struct {
	Kind Kind
	// RemainingSeconds is set for SessionWarning.
	RemainingSeconds int
}

// Bus dispatches events to subscribers in subscription order.
// A nil *Bus is valid and drops every event.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
	ord  []int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: map[int]func(Event){}}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.ord = append(b.ord, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			for i, v := range b.ord {
				if v == id {
					b.ord = append(b.ord[:i], b.ord[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to every current subscriber. Handlers run outside the bus lock.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.ord))
	for _, id := range b.ord {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
