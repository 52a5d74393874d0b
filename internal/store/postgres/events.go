// Package postgres implements the store contracts on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaevents/eventcal/internal/domain"
)

// EventStore is a store.EventStore backed by the events table.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates an EventStore on the given pool.
func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

const eventColumns = `
id, name_es, name_en, date, end_date, city, region, venue,
discipline, category, organizer, organizer_type,
contact_email, contact_phone, contact_website,
description_es, description_en, registration_url,
seo_canonical, source, submission_id, created_at, updated_at`

func (s *EventStore) Insert(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (
	id, name_es, name_en, date, end_date, city, region, venue,
	discipline, category, organizer, organizer_type,
	contact_email, contact_phone, contact_website,
	description_es, description_en, registration_url,
	seo_canonical, source, submission_id, dedup_key, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8,
	$9, $10, $11, $12,
	$13, $14, $15,
	$16, $17, $18,
	$19, $20, $21, $22, $23, $24
)`
	_, err := s.pool.Exec(ctx, stmt,
		event.ID, event.Name.ES, event.Name.EN, event.Date, event.EndDate,
		event.Location.City, event.Location.Region, event.Location.Venue,
		event.Discipline, event.Category, event.Organizer, event.OrganizerType,
		event.Contact.Email, event.Contact.Phone, event.Contact.Website,
		event.Description.ES, event.Description.EN, event.RegistrationURL,
		event.SEO.Canonical, event.Source, nullable(event.SubmissionID),
		event.DedupKey(), event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *EventStore) ExistsByDedupKey(ctx context.Context, key string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM events WHERE dedup_key = $1)`
	var exists bool
	if err := s.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("check dedup key: %w", err)
	}
	return exists, nil
}

func (s *EventStore) Get(ctx context.Context, id string) (domain.Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE id = $1`
	row := s.pool.QueryRow(ctx, query, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	const stmt = `DELETE FROM events WHERE id = $1`
	tag, err := s.pool.Exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (s *EventStore) List(ctx context.Context, limit int) ([]domain.Event, error) {
	query := `SELECT` + eventColumns + ` FROM events ORDER BY date ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var event domain.Event
	var submissionID *string
	err := row.Scan(
		&event.ID, &event.Name.ES, &event.Name.EN, &event.Date, &event.EndDate,
		&event.Location.City, &event.Location.Region, &event.Location.Venue,
		&event.Discipline, &event.Category, &event.Organizer, &event.OrganizerType,
		&event.Contact.Email, &event.Contact.Phone, &event.Contact.Website,
		&event.Description.ES, &event.Description.EN, &event.RegistrationURL,
		&event.SEO.Canonical, &event.Source, &submissionID,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	if submissionID != nil {
		event.SubmissionID = *submissionID
	}
	return event, nil
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
