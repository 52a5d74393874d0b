package importer

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aquaevents/eventcal/internal/csvtext"
	"github.com/aquaevents/eventcal/internal/domain"
)

// DateLayout is the only accepted date format in import records.
const DateLayout = "2006-01-02"

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldURL
)

// FieldSpec defines validation rules for a single CSV column.
type FieldSpec struct {
	Name       string    // Column header name (must match CSV exactly)
	Type       FieldType // Expected data type
	Required   bool      // Value must be non-empty
	EnumValues []string  // Valid values for FieldEnum type
}

// eventFieldSpecs is the single source of truth for the import schema.
// The template provider derives its headers from this table, so the
// decoder, validator, and template can never disagree.
var eventFieldSpecs = []FieldSpec{
	{Name: "title", Type: FieldText, Required: true},
	{Name: "discipline", Type: FieldEnum, Required: true, EnumValues: domain.Disciplines},
	{Name: "category", Type: FieldText},
	{Name: "startDate", Type: FieldDate, Required: true},
	{Name: "endDate", Type: FieldDate},
	{Name: "city", Type: FieldText},
	{Name: "region", Type: FieldText},
	{Name: "venue", Type: FieldText},
	{Name: "organizer", Type: FieldText},
	{Name: "organizerType", Type: FieldEnum, EnumValues: domain.OrganizerTypes},
	{Name: "website", Type: FieldURL},
	{Name: "registrationUrl", Type: FieldURL},
	{Name: "description", Type: FieldText},
}

// Headers returns the canonical column names in template order.
func Headers() []string {
	headers := make([]string, len(eventFieldSpecs))
	for i, spec := range eventFieldSpecs {
		headers[i] = spec.Name
	}
	return headers
}

// ValidateRecord checks one decoded record against the field specs and
// returns the first problem found, or nil.
func ValidateRecord(rec csvtext.Record) error {
	for _, spec := range eventFieldSpecs {
		raw := strings.TrimSpace(rec[spec.Name])

		if raw == "" {
			if spec.Required {
				return fmt.Errorf("missing required field %q", spec.Name)
			}
			continue
		}

		if err := validateCell(raw, spec); err != nil {
			return fmt.Errorf("invalid %s: %w", spec.Name, err)
		}
	}
	return nil
}

// validateCell validates a single non-empty cell value against its spec.
func validateCell(value string, spec FieldSpec) error {
	switch spec.Type {
	case FieldEnum:
		for _, ev := range spec.EnumValues {
			if strings.EqualFold(ev, value) {
				return nil
			}
		}
		return fmt.Errorf("%q must be one of: %s", value, strings.Join(spec.EnumValues, ", "))
	case FieldDate:
		if _, err := time.Parse(DateLayout, value); err != nil {
			return fmt.Errorf("%q is not a valid date (use YYYY-MM-DD)", value)
		}
	case FieldURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%q is not a valid http(s) URL", value)
		}
	}
	return nil
}
