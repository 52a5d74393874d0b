package domain

import "time"

// SubmissionStatus is the moderation state of an EventSubmission.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// EventSubmission is an externally proposed event awaiting moderation.
// It is created with status pending and mutated only by privileged
// moderation operations. PublishedAt is an orthogonal flag, not a
// status: it is set when an approved submission is materialized into a
// public Event, and may only be set while the status is approved.
type EventSubmission struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Discipline      string           `json:"discipline"`
	Category        string           `json:"category,omitempty"`
	Region          string           `json:"region"`
	City            string           `json:"city"`
	StartDate       time.Time        `json:"startDate"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	Description     string           `json:"description,omitempty"`
	ContactName     string           `json:"contactName,omitempty"`
	ContactEmail    string           `json:"contactEmail"`
	ContactPhone    string           `json:"contactPhone,omitempty"`
	Website         string           `json:"website,omitempty"`
	RegistrationURL string           `json:"registrationUrl,omitempty"`
	MaxCapacity     string           `json:"maxCapacity,omitempty"`
	SubmittedBy     string           `json:"submittedBy,omitempty"`
	Status          SubmissionStatus `json:"status"`
	AdminNotes      string           `json:"adminNotes,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewedAt,omitempty"`
	ReviewedBy      string           `json:"reviewedBy,omitempty"`
	PublishedAt     *time.Time       `json:"publishedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Published reports whether the submission has produced a public Event.
func (s EventSubmission) Published() bool {
	return s.PublishedAt != nil
}
