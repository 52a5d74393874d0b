package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aquaevents/eventcal/internal/domain"
)

func testEvent(id, title, city string) domain.Event {
	return domain.Event{
		ID:   id,
		Name: domain.LocalizedText{ES: title, EN: title},
		Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Location: domain.Location{
			City: city,
		},
	}
}

func TestEventStore_DedupKeyAllowsDuplicates(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	// Two events with the same (title, date, city) key may coexist,
	// e.g. a bulk import followed by an operator-confirmed publish.
	a := testEvent("id-1", "Copa Norte", "Bilbao")
	b := testEvent("id-2", "Copa Norte", "Bilbao")

	if err := s.Insert(ctx, a); err != nil {
		t.Fatalf("Insert(a) error = %v", err)
	}
	if err := s.Insert(ctx, b); err != nil {
		t.Fatalf("Insert(b) error = %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	// Deleting one of the pair keeps the other's dedup marker alive.
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete(a) error = %v", err)
	}
	exists, err := s.ExistsByDedupKey(ctx, b.DedupKey())
	if err != nil {
		t.Fatalf("ExistsByDedupKey() error = %v", err)
	}
	if !exists {
		t.Error("dedup key should survive while one event still carries it")
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete(b) error = %v", err)
	}
	exists, _ = s.ExistsByDedupKey(ctx, b.DedupKey())
	if exists {
		t.Error("dedup key should be gone once no event carries it")
	}
}

func TestEventStore_ReinsertSameIDRecounts(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	s.Insert(ctx, testEvent("id-1", "Copa Norte", "Bilbao"))
	s.Insert(ctx, testEvent("id-1", "Copa Sur", "Cádiz"))

	oldKey := testEvent("", "Copa Norte", "Bilbao").DedupKey()
	if exists, _ := s.ExistsByDedupKey(ctx, oldKey); exists {
		t.Error("replaced event's old dedup key should be released")
	}
	newKey := testEvent("", "Copa Sur", "Cádiz").DedupKey()
	if exists, _ := s.ExistsByDedupKey(ctx, newKey); !exists {
		t.Error("replacing event's dedup key should be tracked")
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}
