// Package submission implements the intake and moderation lifecycle of
// event submissions: public intake, the pending/approved/rejected state
// machine, and publication of approved submissions as calendar events.
package submission

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aquaevents/eventcal/internal/clock"
	"github.com/aquaevents/eventcal/internal/domain"
	"github.com/aquaevents/eventcal/internal/logging"
	"github.com/aquaevents/eventcal/internal/metrics"
	"github.com/aquaevents/eventcal/internal/store"
)

// Intake is the payload of a public submission request.
type Intake struct {
	Title           string     `json:"title"`
	Discipline      string     `json:"discipline"`
	Category        string     `json:"category"`
	Region          string     `json:"region"`
	City            string     `json:"city"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	Description     string     `json:"description"`
	ContactName     string     `json:"contactName"`
	ContactEmail    string     `json:"contactEmail"`
	ContactPhone    string     `json:"contactPhone"`
	Website         string     `json:"website"`
	RegistrationURL string     `json:"registrationUrl"`
	MaxCapacity     string     `json:"maxCapacity"`
}

// Service owns the submission lifecycle. All moderation methods require
// a privileged caller; intake and own-submission methods do not.
type Service struct {
	submissions store.SubmissionStore
	events      store.EventStore
	clock       clock.Clock
	metrics     *metrics.Metrics
}

// NewService wires the submission service over its stores.
func NewService(submissions store.SubmissionStore, events store.EventStore, clk clock.Clock, m *metrics.Metrics) *Service {
	return &Service{submissions: submissions, events: events, clock: clk, metrics: m}
}

// Submit validates an intake payload and stores it as a pending
// submission. Any caller may submit; the caller's organizer ID, if
// present, is recorded for later own-submission queries.
func (s *Service) Submit(ctx context.Context, caller domain.Caller, in Intake) (domain.EventSubmission, error) {
	if err := validateIntake(in); err != nil {
		return domain.EventSubmission{}, err
	}

	now := s.clock.Now()
	sub := domain.EventSubmission{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(in.Title),
		Discipline:      strings.ToLower(strings.TrimSpace(in.Discipline)),
		Category:        strings.TrimSpace(in.Category),
		Region:          strings.TrimSpace(in.Region),
		City:            strings.TrimSpace(in.City),
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Description:     strings.TrimSpace(in.Description),
		ContactName:     strings.TrimSpace(in.ContactName),
		ContactEmail:    strings.TrimSpace(in.ContactEmail),
		ContactPhone:    strings.TrimSpace(in.ContactPhone),
		Website:         strings.TrimSpace(in.Website),
		RegistrationURL: strings.TrimSpace(in.RegistrationURL),
		MaxCapacity:     strings.TrimSpace(in.MaxCapacity),
		SubmittedBy:     caller.OrganizerID,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.submissions.Insert(ctx, sub); err != nil {
		return domain.EventSubmission{}, err
	}

	s.metrics.Submissions.Inc()
	logging.FromContext(ctx).Info("submission received",
		"submission_id", sub.ID,
		"discipline", sub.Discipline,
		"city", sub.City,
	)
	return sub, nil
}

// validateIntake enforces the required submission fields.
func validateIntake(in Intake) error {
	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"discipline", in.Discipline},
		{"region", in.Region},
		{"city", in.City},
		{"contactEmail", in.ContactEmail},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("missing required field %q", f.name)
		}
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("missing required field %q", "startDate")
	}
	if !domain.ValidDiscipline(in.Discipline) {
		return fmt.Errorf("invalid discipline %q: must be one of %s",
			in.Discipline, strings.Join(domain.Disciplines, ", "))
	}
	if _, err := mail.ParseAddress(in.ContactEmail); err != nil {
		return fmt.Errorf("invalid contactEmail %q", in.ContactEmail)
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("endDate is before startDate")
	}
	return nil
}

// MySubmissions lists the caller's own submissions, oldest first.
func (s *Service) MySubmissions(ctx context.Context, caller domain.Caller) ([]domain.EventSubmission, error) {
	if caller.OrganizerID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.submissions.ListBySubmitter(ctx, caller.OrganizerID)
}

// DeleteOwn removes one of the caller's own submissions. The caller
// must be its submitter; moderation state does not matter, and a public
// event already published from it is left in place.
func (s *Service) DeleteOwn(ctx context.Context, caller domain.Caller, id string) error {
	if caller.OrganizerID == "" {
		return domain.ErrUnauthorized
	}
	sub, err := s.submissions.Get(ctx, id)
	if err != nil {
		return err
	}
	if sub.SubmittedBy != caller.OrganizerID {
		return domain.ErrNotOwner
	}
	return s.submissions.Delete(ctx, id)
}

// Get returns one submission. Privileged callers only.
func (s *Service) Get(ctx context.Context, caller domain.Caller, id string) (domain.EventSubmission, error) {
	if !caller.Privileged {
		return domain.EventSubmission{}, domain.ErrUnauthorized
	}
	return s.submissions.Get(ctx, id)
}

// All lists every submission regardless of status. Privileged only.
func (s *Service) All(ctx context.Context, caller domain.Caller) ([]domain.EventSubmission, error) {
	if !caller.Privileged {
		return nil, domain.ErrUnauthorized
	}
	return s.submissions.ListAll(ctx)
}

// Pending lists the moderation queue. Privileged only.
func (s *Service) Pending(ctx context.Context, caller domain.Caller) ([]domain.EventSubmission, error) {
	if !caller.Privileged {
		return nil, domain.ErrUnauthorized
	}
	return s.submissions.ListByStatus(ctx, domain.StatusPending)
}

// ByStatus lists submissions in the given state. Privileged only.
func (s *Service) ByStatus(ctx context.Context, caller domain.Caller, status domain.SubmissionStatus) ([]domain.EventSubmission, error) {
	if !caller.Privileged {
		return nil, domain.ErrUnauthorized
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.submissions.ListByStatus(ctx, status)
}

// Approve moves a submission to approved and records the reviewer.
// Approving an already approved or rejected submission is allowed and
// simply re-records the review.
func (s *Service) Approve(ctx context.Context, caller domain.Caller, id, adminNotes string) (domain.EventSubmission, error) {
	return s.review(ctx, caller, id, domain.StatusApproved, adminNotes, "approve")
}

// Reject moves a submission to rejected and records the reviewer. A
// submission may be rejected from any state; an event already published
// from it is not retracted.
func (s *Service) Reject(ctx context.Context, caller domain.Caller, id, adminNotes string) (domain.EventSubmission, error) {
	return s.review(ctx, caller, id, domain.StatusRejected, adminNotes, "reject")
}

func (s *Service) review(ctx context.Context, caller domain.Caller, id string, status domain.SubmissionStatus, adminNotes, action string) (domain.EventSubmission, error) {
	if !caller.Privileged {
		return domain.EventSubmission{}, domain.ErrUnauthorized
	}
	sub, err := s.submissions.Get(ctx, id)
	if err != nil {
		s.metrics.Moderations.WithLabelValues(action, "error").Inc()
		return domain.EventSubmission{}, err
	}

	now := s.clock.Now()
	sub.Status = status
	sub.AdminNotes = adminNotes
	sub.ReviewedAt = &now
	sub.ReviewedBy = caller.OrganizerID
	sub.UpdatedAt = now

	if err := s.submissions.Update(ctx, sub); err != nil {
		s.metrics.Moderations.WithLabelValues(action, "error").Inc()
		return domain.EventSubmission{}, err
	}

	s.metrics.Moderations.WithLabelValues(action, "ok").Inc()
	logging.FromContext(ctx).Info("submission reviewed",
		"submission_id", sub.ID,
		"status", string(status),
		"reviewed_by", caller.OrganizerID,
	)
	return sub, nil
}

// Publish materializes an approved submission into a public calendar
// event and stamps the submission's publishedAt. The submission must be
// approved and not yet published; on any failure the submission is left
// untouched.
func (s *Service) Publish(ctx context.Context, caller domain.Caller, id string) (domain.Event, error) {
	if !caller.Privileged {
		return domain.Event{}, domain.ErrUnauthorized
	}
	sub, err := s.submissions.Get(ctx, id)
	if err != nil {
		s.metrics.Moderations.WithLabelValues("publish", "error").Inc()
		return domain.Event{}, err
	}
	if sub.Status != domain.StatusApproved {
		s.metrics.Moderations.WithLabelValues("publish", "error").Inc()
		return domain.Event{}, domain.ErrNotApproved
	}
	if sub.Published() {
		s.metrics.Moderations.WithLabelValues("publish", "error").Inc()
		return domain.Event{}, domain.ErrAlreadyPublished
	}

	now := s.clock.Now()
	event := eventFromSubmission(sub, now)
	if err := s.events.Insert(ctx, event); err != nil {
		s.metrics.Moderations.WithLabelValues("publish", "error").Inc()
		return domain.Event{}, err
	}

	sub.PublishedAt = &now
	sub.UpdatedAt = now
	if err := s.submissions.Update(ctx, sub); err != nil {
		s.metrics.Moderations.WithLabelValues("publish", "error").Inc()
		return domain.Event{}, err
	}

	s.metrics.Moderations.WithLabelValues("publish", "ok").Inc()
	logging.FromContext(ctx).Info("submission published",
		"submission_id", sub.ID,
		"event_id", event.ID,
	)
	return event, nil
}

// eventFromSubmission maps submission fields onto the public event
// shape. Spanish and English renderings start out identical.
func eventFromSubmission(sub domain.EventSubmission, now time.Time) domain.Event {
	return domain.Event{
		ID:      uuid.New().String(),
		Name:    domain.LocalizedText{ES: sub.Title, EN: sub.Title},
		Date:    sub.StartDate,
		EndDate: sub.EndDate,
		Location: domain.Location{
			City:   sub.City,
			Region: sub.Region,
		},
		Discipline: sub.Discipline,
		Category:   sub.Category,
		Organizer:  sub.ContactName,
		Contact: domain.Contact{
			Email:   sub.ContactEmail,
			Phone:   sub.ContactPhone,
			Website: sub.Website,
		},
		Description: domain.LocalizedText{
			ES: sub.Description,
			EN: sub.Description,
		},
		RegistrationURL: sub.RegistrationURL,
		SEO: domain.SEO{
			Canonical: domain.CanonicalSlug(sub.Title, sub.City, sub.StartDate),
		},
		Source:       "user-submission",
		SubmissionID: sub.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Delete removes a submission in any moderation state. Privileged only.
// Deleting a published submission does not touch its public event.
func (s *Service) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if !caller.Privileged {
		return domain.ErrUnauthorized
	}
	if err := s.submissions.Delete(ctx, id); err != nil {
		s.metrics.Moderations.WithLabelValues("delete", "error").Inc()
		return err
	}
	s.metrics.Moderations.WithLabelValues("delete", "ok").Inc()
	return nil
}

// DeleteEvent removes a public calendar event. Privileged only.
func (s *Service) DeleteEvent(ctx context.Context, caller domain.Caller, id string) error {
	if !caller.Privileged {
		return domain.ErrUnauthorized
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.EventsDeleted.Inc()
	logging.FromContext(ctx).Info("event deleted", "event_id", id)
	return nil
}
