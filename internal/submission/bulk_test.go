package submission

import (
	"context"
	"testing"

	"github.com/aquaevents/eventcal/internal/domain"
)

func TestBulkApply_PartialFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := domain.Admin("reviewer-1")

	a := f.mustSubmit(t, domain.Anonymous)
	b := f.mustSubmit(t, domain.Anonymous)

	// One real ID, one missing ID, one real ID: the missing one fails,
	// the others still go through.
	result, err := f.svc.BulkApply(ctx, admin, BulkApprove, []string{a.ID, "no-such-id", b.ID}, "batch ok")
	if err != nil {
		t.Fatalf("BulkApply() error = %v", err)
	}

	if len(result.Succeeded) != 2 {
		t.Errorf("Succeeded = %v, want 2 entries", result.Succeeded)
	}
	if len(result.Failed) != 1 || result.Failed[0].ID != "no-such-id" {
		t.Errorf("Failed = %v, want the missing ID", result.Failed)
	}

	for _, id := range []string{a.ID, b.ID} {
		sub, _ := f.submissions.Get(ctx, id)
		if sub.Status != domain.StatusApproved {
			t.Errorf("submission %s status = %q, want approved", id, sub.Status)
		}
		if sub.AdminNotes != "batch ok" {
			t.Errorf("submission %s notes = %q", id, sub.AdminNotes)
		}
	}
}

func TestBulkApply_PublishSkipsUnapproved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := domain.Admin("reviewer-1")

	approved := f.mustSubmit(t, domain.Anonymous)
	pending := f.mustSubmit(t, domain.Anonymous)
	f.svc.Approve(ctx, admin, approved.ID, "")

	result, err := f.svc.BulkApply(ctx, admin, BulkPublish, []string{approved.ID, pending.ID}, "")
	if err != nil {
		t.Fatalf("BulkApply() error = %v", err)
	}

	if len(result.Succeeded) != 1 || result.Succeeded[0] != approved.ID {
		t.Errorf("Succeeded = %v, want only the approved submission", result.Succeeded)
	}
	if len(result.Failed) != 1 || result.Failed[0].ID != pending.ID {
		t.Errorf("Failed = %v, want the pending submission", result.Failed)
	}
	if f.events.Count() != 1 {
		t.Errorf("events = %d, want 1", f.events.Count())
	}

	stored, _ := f.submissions.Get(ctx, pending.ID)
	if stored.Status != domain.StatusPending || stored.PublishedAt != nil {
		t.Errorf("pending submission mutated by failed bulk publish: %+v", stored)
	}
}

func TestBulkApply_DeleteAndGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := domain.Admin("reviewer-1")

	a := f.mustSubmit(t, domain.Anonymous)
	b := f.mustSubmit(t, domain.Anonymous)

	if _, err := f.svc.BulkApply(ctx, domain.Anonymous, BulkDelete, []string{a.ID}, ""); err != domain.ErrUnauthorized {
		t.Errorf("unprivileged BulkApply() error = %v, want ErrUnauthorized", err)
	}
	if _, err := f.svc.BulkApply(ctx, admin, BulkAction("escalate"), []string{a.ID}, ""); err == nil {
		t.Error("unknown action should abort the whole call")
	}

	result, err := f.svc.BulkApply(ctx, admin, BulkDelete, []string{a.ID, b.ID}, "")
	if err != nil {
		t.Fatalf("BulkApply() error = %v", err)
	}
	if len(result.Succeeded) != 2 || len(result.Failed) != 0 {
		t.Errorf("result = %+v, want both deleted", result)
	}

	all, _ := f.svc.All(ctx, admin)
	if len(all) != 0 {
		t.Errorf("submissions remaining = %d, want 0", len(all))
	}
}

func TestBulkApply_EmptyInput(t *testing.T) {
	f := newFixture()

	result, err := f.svc.BulkApply(context.Background(), domain.Admin("reviewer-1"), BulkApprove, nil, "")
	if err != nil {
		t.Fatalf("BulkApply() error = %v", err)
	}
	if len(result.Succeeded) != 0 || len(result.Failed) != 0 {
		t.Errorf("result = %+v, want empty partitions", result)
	}
}
