// Package memory provides in-memory store implementations used by
// tests. All methods are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aquaevents/eventcal/internal/domain"
)

// EventStore is an in-memory store.EventStore. Dedup keys are counted,
// not unique: publishing can create an event whose key matches an
// earlier import, and deleting one of the pair must not drop the
// other's dedup marker.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]domain.Event
	byKey  map[string]int // dedup key -> number of events carrying it
}

// NewEventStore returns an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string]domain.Event),
		byKey:  make(map[string]int),
	}
}

func (s *EventStore) Insert(_ context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.events[event.ID]; ok {
		s.dropKey(prev.DedupKey())
	}
	s.events[event.ID] = event
	s.byKey[event.DedupKey()]++
	return nil
}

func (s *EventStore) ExistsByDedupKey(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byKey[key] > 0, nil
}

func (s *EventStore) Get(_ context.Context, id string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (s *EventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	delete(s.events, id)
	s.dropKey(event.DedupKey())
	return nil
}

// dropKey decrements a dedup key's count. Callers must hold the lock.
func (s *EventStore) dropKey(key string) {
	if s.byKey[key] <= 1 {
		delete(s.byKey, key)
		return
	}
	s.byKey[key]--
}

func (s *EventStore) List(_ context.Context, limit int) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// Count returns the number of stored events.
func (s *EventStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// SubmissionStore is an in-memory store.SubmissionStore.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]domain.EventSubmission
}

// NewSubmissionStore returns an empty in-memory submission store.
func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{
		submissions: make(map[string]domain.EventSubmission),
	}
}

func (s *SubmissionStore) Insert(_ context.Context, sub domain.EventSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sub.ID] = sub
	return nil
}

func (s *SubmissionStore) Get(_ context.Context, id string) (domain.EventSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return domain.EventSubmission{}, domain.ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *SubmissionStore) Update(_ context.Context, sub domain.EventSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[sub.ID]; !ok {
		return domain.ErrSubmissionNotFound
	}
	s.submissions[sub.ID] = sub
	return nil
}

func (s *SubmissionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[id]; !ok {
		return domain.ErrSubmissionNotFound
	}
	delete(s.submissions, id)
	return nil
}

func (s *SubmissionStore) ListAll(_ context.Context) ([]domain.EventSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(domain.EventSubmission) bool { return true }), nil
}

func (s *SubmissionStore) ListByStatus(_ context.Context, status domain.SubmissionStatus) ([]domain.EventSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(sub domain.EventSubmission) bool { return sub.Status == status }), nil
}

func (s *SubmissionStore) ListBySubmitter(_ context.Context, organizerID string) ([]domain.EventSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(sub domain.EventSubmission) bool { return sub.SubmittedBy == organizerID }), nil
}

// collect filters submissions and returns them oldest first.
// Callers must hold at least a read lock.
func (s *SubmissionStore) collect(keep func(domain.EventSubmission) bool) []domain.EventSubmission {
	var subs []domain.EventSubmission
	for _, sub := range s.submissions {
		if keep(sub) {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs
}
