// Package events is the in-process change notification bus. Handlers run
// synchronously on the publisher's goroutine in subscription order.
package events

import (
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/basket/internal/logger"
)

type Kind string

const (
	SessionStarted Kind = "session.started"
	ItemPicked     Kind = "item.picked"
	SessionEnded   Kind = "session.ended"
	ListCompleted  Kind = "list.completed"
	ListDeleted    Kind = "list.deleted"
	ItemAdded      Kind = "item.added"
	ItemDeleted    Kind = "item.deleted"
)

// Event is a notification that an entity changed.
type Event struct {
	Kind      Kind
	ListID    string
	SessionID string
	ItemID    string
}

// New builds an Event of kind for the given list.
func New(kind Kind, listID string) Event {
	return Event{Kind: kind, ListID: listID}
}

type Handler func(Event) error

type subscription struct {
	id      int
	handler Handler
}

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Kind][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]subscription)}
}

// Subscribe registers h for kind. The returned function removes it and may be
// called more than once.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[kind]
		for i, s := range list {
			if s.id == id {
				b.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every handler subscribed to its kind. All handlers
// run even if some fail; their errors are joined.
func (b *Bus) Publish(ev Event) error {
	b.mu.RLock()
	handlers := make([]subscription, len(b.subs[ev.Kind]))
	copy(handlers, b.subs[ev.Kind])
	b.mu.RUnlock()

	logger.Debug("Publishing event", "kind", ev.Kind, "list", ev.ListID, "session", ev.SessionID, "subscribers", len(handlers))

	var errs []error
	for _, s := range handlers {
		if err := s.handler(ev); err != nil {
			logger.Warn("Event handler failed", "kind", ev.Kind, "error", err)
			errs = append(errs, fmt.Errorf("%s handler: %w", ev.Kind, err))
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of handlers subscribed to kind.
func (b *Bus) Count(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}
