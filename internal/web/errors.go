package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aquaevents/eventcal/internal/csvtext"
	"github.com/aquaevents/eventcal/internal/domain"
	"github.com/aquaevents/eventcal/internal/logging"
)

// ErrorResponse is the JSON shape of every error the API returns. Code
// is stable and machine-readable; Error is for humans.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps a service error to an HTTP status and a stable
// error code, logs the technical detail server-side, and writes the
// JSON payload.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

// classify maps domain sentinels to status codes. Anything unmatched is
// treated as a bad request: service methods only return unvalidated
// input errors or sentinels, and store failures are wrapped before they
// reach here.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound, "SUBMISSION_NOT_FOUND"
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "EVENT_NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, "NOT_OWNER"
	case errors.Is(err, domain.ErrNotApproved):
		return http.StatusConflict, "NOT_APPROVED"
	case errors.Is(err, domain.ErrAlreadyPublished):
		return http.StatusConflict, "ALREADY_PUBLISHED"
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, "INVALID_ID"
	case errors.Is(err, csvtext.ErrTooFewLines):
		return http.StatusBadRequest, "CSV_TOO_SHORT"
	default:
		return http.StatusBadRequest, "BAD_REQUEST"
	}
}

// writeJSON encodes v with the given status. Encoding failures are
// logged; headers are already sent at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(context.Background()).Error("json encode error", "error", err)
	}
}
