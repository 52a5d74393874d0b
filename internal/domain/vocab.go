package domain

import "strings"

// Disciplines is the controlled vocabulary for event disciplines.
// The CSV template, the import engine, and the submission form all
// validate against this list.
var Disciplines = []string{
	"swimming",
	"open-water",
	"waterpolo",
	"artistic-swimming",
	"diving",
	"triathlon",
	"lifesaving",
}

// OrganizerTypes is the controlled vocabulary for who runs an event.
var OrganizerTypes = []string{
	"federation",
	"club",
	"other",
}

// Categories are the age/level groupings offered on the submission form.
// Category is free text on import; this list is advisory.
var Categories = []string{
	"absoluto",
	"master",
	"infantil",
	"juvenil",
	"junior",
	"senior",
	"veterano",
	"todos",
}

// ValidDiscipline reports whether d is in the discipline vocabulary.
// Comparison is case-insensitive.
func ValidDiscipline(d string) bool {
	return containsFold(Disciplines, d)
}

// ValidOrganizerType reports whether t is in the organizer vocabulary.
func ValidOrganizerType(t string) bool {
	return containsFold(OrganizerTypes, t)
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
