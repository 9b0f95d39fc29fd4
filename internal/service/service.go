// Package service implements the application operations on top of the entity
// store: the household directory, list maintenance, shopping sessions and
// statistics. Every operation takes the caller's Identity explicitly.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/basket/internal/events"
	"github.com/julianstephens/basket/internal/storage"
)

var (
	ErrNoActiveUser      = errors.New("no active user")
	ErrNoHousehold       = errors.New("active user has no household")
	ErrUserExists        = errors.New("a user with that name already exists")
	ErrSessionInProgress = errors.New("a shopping session is already in progress for this list")
	ErrNoActiveSession   = errors.New("no shopping session in progress for this list")
	ErrSessionNotFound   = errors.New("shopping session not found")
	ErrNotMember         = errors.New("list belongs to another household")
	ErrListNotFound      = errors.New("shopping list not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidJoinCode   = errors.New("no household matches that join code")
)

// Service wires the store, the event bus and the time and ID sources.
type Service struct {
	store storage.Provider
	bus   *events.Bus
	now   func() time.Time
	newID func() string

	afterSessionEnd func()
	unsubscribe     []func()
}

type Option func(*Service)

func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithBus shares an existing bus instead of creating a private one.
func WithBus(bus *events.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithAutoBackup runs fn after every ended session when the auto_backup
// setting is on. fn must not fail the session; it reports its own errors.
func WithAutoBackup(fn func()) Option {
	return func(s *Service) { s.afterSessionEnd = fn }
}

// New builds a Service and subscribes the list-completion handler, which
// marks a list completed once one of its sessions ends.
func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}

	s.unsubscribe = append(s.unsubscribe, s.bus.Subscribe(events.SessionEnded, s.completeList))
	if s.afterSessionEnd != nil {
		s.unsubscribe = append(s.unsubscribe, s.bus.Subscribe(events.SessionEnded, s.autoBackup))
	}
	return s
}

// Close removes the Service's subscriptions from the bus.
func (s *Service) Close() {
	for _, fn := range s.unsubscribe {
		fn()
	}
	s.unsubscribe = nil
}

func (s *Service) Bus() *events.Bus {
	return s.bus
}

func (s *Service) Store() storage.Provider {
	return s.store
}

func (s *Service) publish(ev events.Event) error {
	if err := s.bus.Publish(ev); err != nil {
		return fmt.Errorf("notifying %s: %w", ev.Kind, err)
	}
	return nil
}

func (s *Service) autoBackup(events.Event) error {
	settings, err := s.store.GetSettings()
	if err != nil {
		return err
	}
	if settings.AutoBackup {
		s.afterSessionEnd()
	}
	return nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return sentinel
	}
	return err
}
