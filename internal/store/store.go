// Package store owns the in-memory event list. Every mutation replaces the
// list wholesale and publishes a new versioned snapshot to subscribers.
package store

import (
	"errors"
	"sync"

	"github.com/example/calendar-core/internal/calendar"
)

var (
	// ErrNotFound is returned when no event has the requested ID.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when creating an event whose ID is taken.
	ErrDuplicate = errors.New("store: duplicate id")
)

// Snapshot is an immutable view of the event list at a given version.
type Snapshot struct {
	Version uint64
	events  []calendar.Event
}

// Events returns a copy of the events in insertion order.
func (s Snapshot) Events() []calendar.Event {
	return calendar.CloneEvents(s.events)
}

// Len returns the number of events in the snapshot.
func (s Snapshot) Len() int { return len(s.events) }

// Store holds the canonical event list.
type Store struct {
	mu          sync.RWMutex
	current     Snapshot
	subscribers map[uint64]func(Snapshot)
	nextSubID   uint64
}

// New returns a store seeded with events at version 0.
func New(events ...calendar.Event) *Store {
	return &Store{
		current:     Snapshot{events: calendar.CloneEvents(events)},
		subscribers: make(map[uint64]func(Snapshot)),
	}
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version returns the current snapshot version.
func (s *Store) Version() uint64 {
	return s.Snapshot().Version
}

// Get returns the event with the given ID.
func (s *Store) Get(id string) (calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.current.events {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return calendar.Event{}, ErrNotFound
}

// Create appends e to the list.
func (s *Store) Create(e calendar.Event) (Snapshot, error) {
	return s.mutate(func(events []calendar.Event) ([]calendar.Event, error) {
		for _, existing := range events {
			if existing.ID == e.ID {
				return nil, ErrDuplicate
			}
		}
		next := make([]calendar.Event, 0, len(events)+1)
		next = append(next, events...)
		return append(next, e.Clone()), nil
	})
}

// Replace swaps the event sharing e's ID, keeping its position.
func (s *Store) Replace(e calendar.Event) (Snapshot, error) {
	return s.mutate(func(events []calendar.Event) ([]calendar.Event, error) {
		next := make([]calendar.Event, len(events))
		found := false
		for i, existing := range events {
			if existing.ID == e.ID {
				next[i] = e.Clone()
				found = true
				continue
			}
			next[i] = existing
		}
		if !found {
			return nil, ErrNotFound
		}
		return next, nil
	})
}

// Delete removes the event with the given ID.
func (s *Store) Delete(id string) (Snapshot, error) {
	return s.mutate(func(events []calendar.Event) ([]calendar.Event, error) {
		next := make([]calendar.Event, 0, len(events))
		for _, existing := range events {
			if existing.ID != id {
				next = append(next, existing)
			}
		}
		if len(next) == len(events) {
			return nil, ErrNotFound
		}
		return next, nil
	})
}

// Reset replaces the whole list.
func (s *Store) Reset(events []calendar.Event) Snapshot {
	snap, _ := s.mutate(func([]calendar.Event) ([]calendar.Event, error) {
		return calendar.CloneEvents(events), nil
	})
	return snap
}

// Subscribe registers fn to receive every snapshot published after the call.
// Callbacks run synchronously on the mutating goroutine, outside the store lock.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) mutate(apply func([]calendar.Event) ([]calendar.Event, error)) (Snapshot, error) {
	s.mu.Lock()
	next, err := apply(s.current.events)
	if err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.current = Snapshot{Version: s.current.Version + 1, events: next}
	snap := s.current
	subscribers := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(snap)
	}
	return snap, nil
}
