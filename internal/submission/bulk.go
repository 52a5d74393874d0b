package submission

import (
	"context"
	"fmt"

	"github.com/aquaevents/eventcal/internal/domain"
	"github.com/aquaevents/eventcal/internal/logging"
)

// BulkAction names a moderation operation applicable to many
// submissions at once.
type BulkAction string

const (
	BulkApprove BulkAction = "approve"
	BulkReject  BulkAction = "reject"
	BulkPublish BulkAction = "publish"
	BulkDelete  BulkAction = "delete"
)

// Valid reports whether a is a known bulk action.
func (a BulkAction) Valid() bool {
	switch a {
	case BulkApprove, BulkReject, BulkPublish, BulkDelete:
		return true
	}
	return false
}

// BulkFailure reports one submission the bulk operation could not
// process.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult summarizes a bulk moderation call. Succeeded and Failed
// partition the input IDs.
type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// BulkApply runs one moderation action over a list of submission IDs.
// Each item is processed independently: a failure on one ID is recorded
// and the rest still run. Only a non-privileged caller or an unknown
// action aborts the whole call.
func (s *Service) BulkApply(ctx context.Context, caller domain.Caller, action BulkAction, ids []string, adminNotes string) (*BulkResult, error) {
	if !caller.Privileged {
		return nil, domain.ErrUnauthorized
	}
	if !action.Valid() {
		return nil, fmt.Errorf("unknown bulk action %q", action)
	}

	result := &BulkResult{Succeeded: []string{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		var err error
		switch action {
		case BulkApprove:
			_, err = s.Approve(ctx, caller, id, adminNotes)
		case BulkReject:
			_, err = s.Reject(ctx, caller, id, adminNotes)
		case BulkPublish:
			_, err = s.Publish(ctx, caller, id)
		case BulkDelete:
			err = s.Delete(ctx, caller, id)
		}
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	logging.WithFields(ctx, "action", string(action)).Info("bulk moderation complete",
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
	)
	return result, nil
}
