package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaevents/eventcal/internal/domain"
)

// SubmissionStore is a store.SubmissionStore backed by the
// event_submissions table.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

// NewSubmissionStore creates a SubmissionStore on the given pool.
func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

const submissionColumns = `
id, title, discipline, category, region, city, start_date, end_date,
description, contact_name, contact_email, contact_phone, website,
registration_url, max_capacity, submitted_by, status, admin_notes,
reviewed_at, reviewed_by, published_at, created_at, updated_at`

func (s *SubmissionStore) Insert(ctx context.Context, sub domain.EventSubmission) error {
	const stmt = `
INSERT INTO event_submissions (
	id, title, discipline, category, region, city, start_date, end_date,
	description, contact_name, contact_email, contact_phone, website,
	registration_url, max_capacity, submitted_by, status, admin_notes,
	reviewed_at, reviewed_by, published_at, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8,
	$9, $10, $11, $12, $13,
	$14, $15, $16, $17, $18,
	$19, $20, $21, $22, $23
)`
	_, err := s.pool.Exec(ctx, stmt,
		sub.ID, sub.Title, sub.Discipline, sub.Category, sub.Region, sub.City,
		sub.StartDate, sub.EndDate, sub.Description, sub.ContactName,
		sub.ContactEmail, sub.ContactPhone, sub.Website, sub.RegistrationURL,
		sub.MaxCapacity, nullable(sub.SubmittedBy), string(sub.Status), sub.AdminNotes,
		sub.ReviewedAt, nullable(sub.ReviewedBy), sub.PublishedAt,
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Get(ctx context.Context, id string) (domain.EventSubmission, error) {
	query := `SELECT` + submissionColumns + ` FROM event_submissions WHERE id = $1`
	sub, err := scanSubmission(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EventSubmission{}, domain.ErrSubmissionNotFound
		}
		return domain.EventSubmission{}, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

func (s *SubmissionStore) Update(ctx context.Context, sub domain.EventSubmission) error {
	const stmt = `
UPDATE event_submissions SET
	title = $2, discipline = $3, category = $4, region = $5, city = $6,
	start_date = $7, end_date = $8, description = $9, contact_name = $10,
	contact_email = $11, contact_phone = $12, website = $13,
	registration_url = $14, max_capacity = $15, status = $16,
	admin_notes = $17, reviewed_at = $18, reviewed_by = $19,
	published_at = $20, updated_at = $21
WHERE id = $1`
	tag, err := s.pool.Exec(ctx, stmt,
		sub.ID, sub.Title, sub.Discipline, sub.Category, sub.Region, sub.City,
		sub.StartDate, sub.EndDate, sub.Description, sub.ContactName,
		sub.ContactEmail, sub.ContactPhone, sub.Website, sub.RegistrationURL,
		sub.MaxCapacity, string(sub.Status), sub.AdminNotes,
		sub.ReviewedAt, nullable(sub.ReviewedBy), sub.PublishedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (s *SubmissionStore) Delete(ctx context.Context, id string) error {
	const stmt = `DELETE FROM event_submissions WHERE id = $1`
	tag, err := s.pool.Exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (s *SubmissionStore) ListAll(ctx context.Context) ([]domain.EventSubmission, error) {
	query := `SELECT` + submissionColumns + ` FROM event_submissions ORDER BY created_at ASC`
	return s.queryList(ctx, query)
}

func (s *SubmissionStore) ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.EventSubmission, error) {
	query := `SELECT` + submissionColumns + ` FROM event_submissions WHERE status = $1 ORDER BY created_at ASC`
	return s.queryList(ctx, query, string(status))
}

func (s *SubmissionStore) ListBySubmitter(ctx context.Context, organizerID string) ([]domain.EventSubmission, error) {
	query := `SELECT` + submissionColumns + ` FROM event_submissions WHERE submitted_by = $1 ORDER BY created_at ASC`
	return s.queryList(ctx, query, organizerID)
}

func (s *SubmissionStore) queryList(ctx context.Context, query string, args ...any) ([]domain.EventSubmission, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.EventSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate submissions: %w", rows.Err())
	}
	return subs, nil
}

func scanSubmission(row pgx.Row) (domain.EventSubmission, error) {
	var sub domain.EventSubmission
	var status string
	var submittedBy, reviewedBy *string
	err := row.Scan(
		&sub.ID, &sub.Title, &sub.Discipline, &sub.Category, &sub.Region,
		&sub.City, &sub.StartDate, &sub.EndDate, &sub.Description,
		&sub.ContactName, &sub.ContactEmail, &sub.ContactPhone, &sub.Website,
		&sub.RegistrationURL, &sub.MaxCapacity, &submittedBy, &status,
		&sub.AdminNotes, &sub.ReviewedAt, &reviewedBy, &sub.PublishedAt,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return domain.EventSubmission{}, err
	}
	sub.Status = domain.SubmissionStatus(status)
	if submittedBy != nil {
		sub.SubmittedBy = *submittedBy
	}
	if reviewedBy != nil {
		sub.ReviewedBy = *reviewedBy
	}
	return sub, nil
}
