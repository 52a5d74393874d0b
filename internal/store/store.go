// Package store defines the persistence contracts for events and
// submissions. Implementations live in store/postgres (production) and
// store/memory (tests).
package store

import (
	"context"

	"github.com/aquaevents/eventcal/internal/domain"
)

// EventStore persists public calendar events. The dedup key namespace
// (name + startDate + city) is the only shared mutable resource in the
// import path; ExistsByDedupKey must observe rows written earlier in
// the same batch.
type EventStore interface {
	Insert(ctx context.Context, event domain.Event) error
	ExistsByDedupKey(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]domain.Event, error)
}

// SubmissionStore persists event submissions through their moderation
// lifecycle. Update replaces the whole record; each write is
// all-or-nothing.
type SubmissionStore interface {
	Insert(ctx context.Context, sub domain.EventSubmission) error
	Get(ctx context.Context, id string) (domain.EventSubmission, error)
	Update(ctx context.Context, sub domain.EventSubmission) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]domain.EventSubmission, error)
	ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.EventSubmission, error)
	ListBySubmitter(ctx context.Context, organizerID string) ([]domain.EventSubmission, error)
}
