// Package importer implements the bulk CSV import engine: per-row
// validation, duplicate detection against the event collection, and
// isolated persistence with a per-batch result summary.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aquaevents/eventcal/internal/clock"
	"github.com/aquaevents/eventcal/internal/csvtext"
	"github.com/aquaevents/eventcal/internal/domain"
	"github.com/aquaevents/eventcal/internal/logging"
	"github.com/aquaevents/eventcal/internal/metrics"
	"github.com/aquaevents/eventcal/internal/store"
)

// RowError reports a failed row by its 1-indexed position in the batch.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BatchResult summarizes one import invocation. It always satisfies
// Imported + Skipped + len(Errors) == Total.
type BatchResult struct {
	Total    int        `json:"total"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// Service is the bulk import engine.
type Service struct {
	events  store.EventStore
	clock   clock.Clock
	metrics *metrics.Metrics

	// MaxRecords caps the batch size; 0 means unlimited.
	MaxRecords int
}

// NewService creates an import engine over the given event store.
func NewService(events store.EventStore, clk clock.Clock, m *metrics.Metrics) *Service {
	return &Service{events: events, clock: clk, metrics: m}
}

// ImportCSV decodes pasted CSV text and imports the records. Malformed
// input (fewer than two lines) aborts before any record is touched.
func (s *Service) ImportCSV(ctx context.Context, caller domain.Caller, text string) (*BatchResult, error) {
	doc, err := csvtext.Decode(text)
	if err != nil {
		return nil, err
	}
	return s.ImportRecords(ctx, caller, doc.Records)
}

// ImportRecords validates, deduplicates, and persists each record
// independently, in input order. A failure on one row never aborts the
// batch and never rolls back earlier rows.
func (s *Service) ImportRecords(ctx context.Context, caller domain.Caller, records []csvtext.Record) (*BatchResult, error) {
	if !caller.Privileged {
		return nil, domain.ErrUnauthorized
	}
	if s.MaxRecords > 0 && len(records) > s.MaxRecords {
		return nil, fmt.Errorf("batch of %d records exceeds limit of %d", len(records), s.MaxRecords)
	}

	logger := logging.WithFields(ctx, "records", len(records))
	result := &BatchResult{Total: len(records), Errors: []RowError{}}

	// Dedup keys created earlier in this batch, so a batch cannot
	// import duplicates of itself.
	seen := make(map[string]bool)

	for i, rec := range records {
		row := i + 1

		if err := ValidateRecord(rec); err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Error: err.Error()})
			s.metrics.ImportRows.WithLabelValues("error").Inc()
			continue
		}

		event, err := s.buildEvent(rec)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Error: err.Error()})
			s.metrics.ImportRows.WithLabelValues("error").Inc()
			continue
		}

		key := event.DedupKey()
		if seen[key] {
			result.Skipped++
			s.metrics.ImportRows.WithLabelValues("skipped").Inc()
			continue
		}
		exists, err := s.events.ExistsByDedupKey(ctx, key)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Error: fmt.Sprintf("duplicate check: %v", err)})
			s.metrics.ImportRows.WithLabelValues("error").Inc()
			continue
		}
		if exists {
			result.Skipped++
			s.metrics.ImportRows.WithLabelValues("skipped").Inc()
			continue
		}

		if err := s.events.Insert(ctx, event); err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Error: fmt.Sprintf("insert: %v", err)})
			s.metrics.ImportRows.WithLabelValues("error").Inc()
			continue
		}

		seen[key] = true
		result.Imported++
		s.metrics.ImportRows.WithLabelValues("imported").Inc()
	}

	logger.Info("import batch complete",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// buildEvent constructs a public Event from a validated record.
func (s *Service) buildEvent(rec csvtext.Record) (domain.Event, error) {
	get := func(key string) string { return strings.TrimSpace(rec[key]) }

	date, err := time.Parse(DateLayout, get("startDate"))
	if err != nil {
		return domain.Event{}, fmt.Errorf("invalid startDate: %w", err)
	}

	var endDate *time.Time
	if raw := get("endDate"); raw != "" {
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return domain.Event{}, fmt.Errorf("invalid endDate: %w", err)
		}
		endDate = &parsed
	}

	title := get("title")
	now := s.clock.Now()

	return domain.Event{
		ID:      uuid.New().String(),
		Name:    domain.LocalizedText{ES: title, EN: title},
		Date:    date,
		EndDate: endDate,
		Location: domain.Location{
			City:   get("city"),
			Region: get("region"),
			Venue:  get("venue"),
		},
		Discipline:    strings.ToLower(get("discipline")),
		Category:      get("category"),
		Organizer:     get("organizer"),
		OrganizerType: strings.ToLower(get("organizerType")),
		Contact: domain.Contact{
			Website: get("website"),
		},
		Description: domain.LocalizedText{
			ES: get("description"),
			EN: get("description"),
		},
		RegistrationURL: get("registrationUrl"),
		SEO: domain.SEO{
			Canonical: domain.CanonicalSlug(title, get("city"), date),
		},
		Source:    "bulk-import",
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
