package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aquaevents/eventcal/internal/clock"
	"github.com/aquaevents/eventcal/internal/csvtext"
	"github.com/aquaevents/eventcal/internal/domain"
	"github.com/aquaevents/eventcal/internal/metrics"
	"github.com/aquaevents/eventcal/internal/store/memory"
)

var testTime = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestService(events *memory.EventStore) *Service {
	return NewService(events, clock.NewFixed(testTime), metrics.NewNop())
}

func record(title, discipline, city, startDate string) csvtext.Record {
	return csvtext.Record{
		"title":      title,
		"discipline": discipline,
		"city":       city,
		"startDate":  startDate,
	}
}

func TestImportRecords_RequiresPrivilege(t *testing.T) {
	svc := newTestService(memory.NewEventStore())

	_, err := svc.ImportRecords(context.Background(), domain.Anonymous, []csvtext.Record{
		record("Trofeo", "swimming", "Madrid", "2026-05-01"),
	})
	if err != domain.ErrUnauthorized {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestImportRecords_CountsAlwaysAddUp(t *testing.T) {
	events := memory.NewEventStore()
	svc := newTestService(events)

	records := []csvtext.Record{
		record("Valid One", "swimming", "Madrid", "2026-05-01"),
		record("", "swimming", "Madrid", "2026-05-02"), // missing title
		record("Valid Two", "diving", "Sevilla", "2026-05-03"),
		record("Bad Date", "swimming", "Madrid", "05/01/2026"),  // wrong format
		record("Valid One", "swimming", "Madrid", "2026-05-01"), // dup of row 1
		record("Bad Sport", "underwater-chess", "Vigo", "2026-05-04"),
	}

	result, err := svc.ImportRecords(context.Background(), domain.Admin("admin"), records)
	if err != nil {
		t.Fatalf("ImportRecords() error = %v", err)
	}

	if got := result.Imported + result.Skipped + len(result.Errors); got != len(records) {
		t.Errorf("imported(%d) + skipped(%d) + errors(%d) = %d, want %d",
			result.Imported, result.Skipped, len(result.Errors), got, len(records))
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if len(result.Errors) != 3 {
		t.Errorf("Errors = %v, want 3 entries", result.Errors)
	}
	if events.Count() != 2 {
		t.Errorf("stored events = %d, want 2", events.Count())
	}
}

func TestImportRecords_DedupIdempotence(t *testing.T) {
	events := memory.NewEventStore()
	svc := newTestService(events)
	admin := domain.Admin("admin")

	records := []csvtext.Record{
		record("Copa Norte", "swimming", "Bilbao", "2026-06-01"),
		record("Copa Sur", "open-water", "Cádiz", "2026-06-08"),
		record("Copa Este", "waterpolo", "Valencia", "2026-06-15"),
	}

	first, err := svc.ImportRecords(context.Background(), admin, records)
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	if first.Imported != 3 || first.Skipped != 0 {
		t.Fatalf("first run = %+v, want imported=3 skipped=0", first)
	}

	second, err := svc.ImportRecords(context.Background(), admin, records)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if second.Imported != 0 || second.Skipped != 3 {
		t.Errorf("second run = %+v, want imported=0 skipped=3", second)
	}
	if events.Count() != 3 {
		t.Errorf("stored events = %d, want 3", events.Count())
	}
}

func TestImportRecords_DedupIsCaseAndSpaceInsensitive(t *testing.T) {
	svc := newTestService(memory.NewEventStore())

	result, err := svc.ImportRecords(context.Background(), domain.Admin("admin"), []csvtext.Record{
		record("Copa Norte", "swimming", "Bilbao", "2026-06-01"),
		record("  copa   NORTE ", "swimming", "BILBAO", "2026-06-01"),
	})
	if err != nil {
		t.Fatalf("ImportRecords() error = %v", err)
	}
	if result.Imported != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want imported=1 skipped=1", result)
	}
}

func TestImportCSV_QuotedCommaAndBadRow(t *testing.T) {
	// A title with a literal comma must be imported intact; the second
	// row fails discipline validation and is reported by row number.
	events := memory.NewEventStore()
	svc := newTestService(events)

	text := "title,discipline,city,startDate\n" +
		"\"Open Water, Cup\",open-water,Vigo,2026-06-01\n" +
		"Bad Row,unknown-discipline,,"

	result, err := svc.ImportCSV(context.Background(), domain.Admin("admin"), text)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}

	if result.Imported != 1 || result.Skipped != 0 || len(result.Errors) != 1 {
		t.Fatalf("result = %+v, want imported=1 skipped=0 one error", result)
	}
	if result.Errors[0].Row != 2 {
		t.Errorf("error row = %d, want 2", result.Errors[0].Row)
	}
	if !strings.Contains(result.Errors[0].Error, "discipline") {
		t.Errorf("error should mention discipline: %q", result.Errors[0].Error)
	}

	stored, err := events.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(stored) != 1 || stored[0].Name.ES != "Open Water, Cup" {
		t.Errorf("stored event name = %+v, want %q", stored, "Open Water, Cup")
	}
}

func TestImportCSV_TooFewLines(t *testing.T) {
	svc := newTestService(memory.NewEventStore())

	_, err := svc.ImportCSV(context.Background(), domain.Admin("admin"), "title,discipline\n")
	if err == nil {
		t.Fatal("ImportCSV() expected hard error for header-only input")
	}
}

func TestImportRecords_BatchLimit(t *testing.T) {
	svc := newTestService(memory.NewEventStore())
	svc.MaxRecords = 1

	_, err := svc.ImportRecords(context.Background(), domain.Admin("admin"), []csvtext.Record{
		record("One", "swimming", "Madrid", "2026-05-01"),
		record("Two", "swimming", "Madrid", "2026-05-02"),
	})
	if err == nil {
		t.Fatal("ImportRecords() expected error for batch over limit")
	}
}

func TestImportRecords_EventShape(t *testing.T) {
	events := memory.NewEventStore()
	svc := newTestService(events)

	rec := csvtext.Record{
		"title":           "Trofeo Primavera",
		"discipline":      "Swimming",
		"category":        "master",
		"startDate":       "2026-04-10",
		"endDate":         "2026-04-12",
		"city":            "Gijón",
		"region":          "Asturias",
		"venue":           "Piscina Municipal",
		"organizer":       "CN Gijón",
		"organizerType":   "club",
		"website":         "https://cngijon.es",
		"registrationUrl": "https://cngijon.es/trofeo",
		"description":     "Trofeo de primavera",
	}

	result, err := svc.ImportRecords(context.Background(), domain.Admin("admin"), []csvtext.Record{rec})
	if err != nil || result.Imported != 1 {
		t.Fatalf("ImportRecords() = %+v, %v", result, err)
	}

	stored, _ := events.List(context.Background(), 0)
	event := stored[0]

	if event.Name.ES != "Trofeo Primavera" || event.Name.EN != "Trofeo Primavera" {
		t.Errorf("Name = %+v", event.Name)
	}
	if event.Discipline != "swimming" {
		t.Errorf("Discipline = %q, want lowercased %q", event.Discipline, "swimming")
	}
	if event.EndDate == nil || event.EndDate.Format(DateLayout) != "2026-04-12" {
		t.Errorf("EndDate = %v", event.EndDate)
	}
	if event.Location.Venue != "Piscina Municipal" {
		t.Errorf("Venue = %q", event.Location.Venue)
	}
	if event.SEO.Canonical != "trofeo-primavera-gijón-2026-04-10" {
		t.Errorf("Canonical = %q", event.SEO.Canonical)
	}
	if event.Source != "bulk-import" {
		t.Errorf("Source = %q", event.Source)
	}
	if !event.CreatedAt.Equal(testTime) {
		t.Errorf("CreatedAt = %v, want clock time %v", event.CreatedAt, testTime)
	}
}

func TestTemplate_HeadersMatchSchema(t *testing.T) {
	tpl := GetTemplate()

	if len(tpl.Headers) != len(eventFieldSpecs) {
		t.Fatalf("Headers = %d entries, want %d", len(tpl.Headers), len(eventFieldSpecs))
	}
	for i, spec := range eventFieldSpecs {
		if tpl.Headers[i] != spec.Name {
			t.Errorf("Headers[%d] = %q, want %q", i, tpl.Headers[i], spec.Name)
		}
	}
	if len(tpl.Example) != 1 {
		t.Fatalf("Example = %d records, want 1", len(tpl.Example))
	}

	// The example row must itself pass validation.
	if err := ValidateRecord(tpl.Example[0]); err != nil {
		t.Errorf("example record is invalid: %v", err)
	}
	if tpl.Note == "" {
		t.Error("template note must warn about the example row")
	}
}

func TestTemplateCSV_RoundTrip(t *testing.T) {
	text := TemplateCSV()

	doc, err := csvtext.Decode(text)
	if err != nil {
		t.Fatalf("Decode(TemplateCSV()) error = %v", err)
	}
	if len(doc.Records) != 1 {
		t.Fatalf("decoded records = %d, want 1", len(doc.Records))
	}
	for key, want := range exampleRecord {
		if got := doc.Records[0][key]; got != want {
			t.Errorf("round-tripped %s = %q, want %q", key, got, want)
		}
	}

	// A template-shaped CSV must import cleanly end to end.
	svc := newTestService(memory.NewEventStore())
	result, err := svc.ImportCSV(context.Background(), domain.Admin("admin"), text)
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want one clean import", result)
	}
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     csvtext.Record
		wantErr string
	}{
		{
			name: "valid minimal",
			rec:  record("Trofeo", "swimming", "Madrid", "2026-05-01"),
		},
		{
			name:    "missing title",
			rec:     record("", "swimming", "Madrid", "2026-05-01"),
			wantErr: "title",
		},
		{
			name:    "missing date",
			rec:     record("Trofeo", "swimming", "Madrid", ""),
			wantErr: "startDate",
		},
		{
			name:    "unknown discipline",
			rec:     record("Trofeo", "underwater-chess", "Madrid", "2026-05-01"),
			wantErr: "discipline",
		},
		{
			name: "bad website",
			rec: csvtext.Record{
				"title": "Trofeo", "discipline": "swimming",
				"startDate": "2026-05-01", "website": "not a url",
			},
			wantErr: "website",
		},
		{
			name: "bad organizer type",
			rec: csvtext.Record{
				"title": "Trofeo", "discipline": "swimming",
				"startDate": "2026-05-01", "organizerType": "cartel",
			},
			wantErr: "organizerType",
		},
		{
			name: "discipline case insensitive",
			rec:  record("Trofeo", "Open-Water", "Vigo", "2026-05-01"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.rec)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateRecord() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateRecord() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}
