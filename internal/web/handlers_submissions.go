package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aquaevents/eventcal/internal/domain"
	"github.com/aquaevents/eventcal/internal/submission"
	"github.com/aquaevents/eventcal/internal/web/middleware"
)

// maxSubmissionBody bounds the public intake payload.
const maxSubmissionBody = 64 << 10

// handleSubmit accepts a public event submission and stores it pending.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var in submission.Intake
	if err := decodeBody(w, r, maxSubmissionBody, &in); err != nil {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	sub, err := s.submissions.Submit(r.Context(), caller, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// handleMySubmissions lists the calling organizer's submissions.
func (s *Server) handleMySubmissions(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	subs, err := s.submissions.MySubmissions(r.Context(), caller)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// handleDeleteOwn removes one of the calling organizer's submissions.
func (s *Server) handleDeleteOwn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	if err := s.submissions.DeleteOwn(r.Context(), caller, id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// pathID extracts the {id} URL parameter.
func pathID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return "", domain.ErrInvalidID
	}
	return id, nil
}

// decodeBody reads a size-capped JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
