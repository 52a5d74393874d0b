package importer

import (
	"github.com/aquaevents/eventcal/internal/csvtext"
	"github.com/aquaevents/eventcal/internal/domain"
)

// Template is the payload administrators download before assembling an
// import batch. Headers match the import schema exactly; Example is
// illustrative data the operator must replace before importing.
type Template struct {
	Headers        []string         `json:"headers"`
	Example        []csvtext.Record `json:"example"`
	Disciplines    []string         `json:"disciplines"`
	OrganizerTypes []string         `json:"organizerTypes"`
	Note           string           `json:"note"`
}

// templateNote warns the operator that the example row is not a default.
const templateNote = "The example row shows valid formatting only. Replace it with real data before importing."

// exampleRecord demonstrates valid formatting for every column.
var exampleRecord = csvtext.Record{
	"title":           "Campeonato de España de Natación",
	"discipline":      "swimming",
	"category":        "absoluto",
	"startDate":       "2026-03-15",
	"endDate":         "2026-03-18",
	"city":            "Madrid",
	"region":          "Madrid",
	"venue":           "Centro Acuático M-86",
	"organizer":       "RFEN",
	"organizerType":   "federation",
	"website":         "https://rfen.es",
	"registrationUrl": "https://rfen.es/inscripciones",
	"description":     "Campeonato nacional de natación en piscina corta",
}

// GetTemplate returns the CSV template payload.
func GetTemplate() Template {
	return Template{
		Headers:        Headers(),
		Example:        []csvtext.Record{exampleRecord},
		Disciplines:    domain.Disciplines,
		OrganizerTypes: domain.OrganizerTypes,
		Note:           templateNote,
	}
}

// TemplateCSV renders the template as downloadable CSV text, applying
// the same quoting rule the decoder expects so the round trip is
// lossless.
func TemplateCSV() string {
	t := GetTemplate()
	return csvtext.Encode(t.Headers, t.Example)
}
