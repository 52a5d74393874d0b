// Package domain holds the core entities of the event calendar:
// public events, externally proposed submissions, and the controlled
// vocabularies both are validated against.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// LocalizedText carries the Spanish and English renderings of a string.
// Bulk-imported events start with both set to the same value.
type LocalizedText struct {
	ES string `json:"es"`
	EN string `json:"en"`
}

// Location describes where an event takes place.
type Location struct {
	City   string `json:"city"`
	Region string `json:"region"`
	Venue  string `json:"venue,omitempty"`
}

// Contact holds the organizer's public contact details.
type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// SEO holds the canonical slug used for stable linking.
type SEO struct {
	Canonical string `json:"canonical"`
}

// Event is a public, canonical calendar record. It is created by
// publishing an approved submission, by bulk import, or manually by an
// administrator, and destroyed only by explicit admin delete.
type Event struct {
	ID              string        `json:"id"`
	Name            LocalizedText `json:"name"`
	Date            time.Time     `json:"date"`
	EndDate         *time.Time    `json:"endDate,omitempty"`
	Location        Location      `json:"location"`
	Discipline      string        `json:"discipline"`
	Category        string        `json:"category,omitempty"`
	Organizer       string        `json:"organizer,omitempty"`
	OrganizerType   string        `json:"organizerType,omitempty"`
	Contact         Contact       `json:"contact,omitempty"`
	Description     LocalizedText `json:"description,omitempty"`
	RegistrationURL string        `json:"registrationUrl,omitempty"`
	SEO             SEO           `json:"seo"`
	Source          string        `json:"source,omitempty"`
	SubmissionID    string        `json:"submissionId,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// DedupKey identifies an event for duplicate detection, independent of
// its ID: same name, same start date, same city means same event.
// Organizer is deliberately not part of the key.
func (e Event) DedupKey() string {
	return EventDedupKey(e.Name.ES, e.Date, e.Location.City)
}

// EventDedupKey builds the composite (name, startDate, city) key.
// Name and city are case- and whitespace-insensitive; the date
// participates at day precision only.
func EventDedupKey(name string, date time.Time, city string) string {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return fmt.Sprintf("%s|%s|%s", norm(name), date.Format("2006-01-02"), norm(city))
}

// CanonicalSlug derives the stable slug used in seo.canonical:
// lowercased title and city joined by hyphens plus the start date.
func CanonicalSlug(title string, city string, date time.Time) string {
	slugify := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), "-")
	}
	parts := []string{slugify(title)}
	if city != "" {
		parts = append(parts, slugify(city))
	}
	parts = append(parts, date.Format("2006-01-02"))
	return strings.Join(parts, "-")
}
