package web

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aquaevents/eventcal/internal/domain"
	"github.com/aquaevents/eventcal/internal/submission"
	"github.com/aquaevents/eventcal/internal/web/middleware"
)

const maxModerationBody = 256 << 10

// reviewRequest carries the optional notes on approve/reject.
type reviewRequest struct {
	AdminNotes string `json:"adminNotes"`
}

// handleListSubmissions lists submissions, optionally filtered with the
// ?status= query parameter.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	if status := r.URL.Query().Get("status"); status != "" {
		subs, err := s.submissions.ByStatus(r.Context(), caller, domain.SubmissionStatus(status))
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, subs)
		return
	}

	subs, err := s.submissions.All(r.Context(), caller)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// handleListPending lists the moderation queue.
func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	subs, err := s.submissions.Pending(r.Context(), caller)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// handleGetSubmission returns one submission by ID.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	sub, err := s.submissions.Get(r.Context(), caller, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// handleApprove moves a submission to approved.
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.handleReview(w, r, s.submissions.Approve)
}

// handleReject moves a submission to rejected.
func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.handleReview(w, r, s.submissions.Reject)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request, review func(context.Context, domain.Caller, string, string) (domain.EventSubmission, error)) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// The notes body is optional; an empty body means no notes. Decode
	// unconditionally so chunked requests (unknown ContentLength) still
	// carry their notes through.
	var req reviewRequest
	if err := decodeBody(w, r, maxModerationBody, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	sub, err := review(r.Context(), caller, id, req.AdminNotes)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// handlePublish materializes an approved submission as a public event.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	event, err := s.submissions.Publish(r.Context(), caller, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// handleDeleteSubmission removes a submission in any moderation state.
func (s *Server) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	if err := s.submissions.Delete(r.Context(), caller, id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// bulkRequest names the action and targets of a bulk moderation call.
type bulkRequest struct {
	Action     submission.BulkAction `json:"action"`
	IDs        []string              `json:"ids"`
	AdminNotes string                `json:"adminNotes"`
}

// handleBulkModerate applies one action to many submissions with
// per-item failure isolation.
func (s *Server) handleBulkModerate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeBody(w, r, maxModerationBody, &req); err != nil {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	result, err := s.submissions.BulkApply(r.Context(), caller, req.Action, req.IDs, req.AdminNotes)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDeleteEvent removes a public calendar event.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	if err := s.submissions.DeleteEvent(r.Context(), caller, id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
