package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aquaevents/eventcal/internal/csvtext"
	"github.com/aquaevents/eventcal/internal/importer"
	"github.com/aquaevents/eventcal/internal/web/middleware"
)

// handleImportTemplate returns the CSV template as a JSON payload:
// headers, an example row, and the controlled vocabularies.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, importer.GetTemplate())
}

// handleImportTemplateCSV returns the template rendered as a
// downloadable CSV file.
func (s *Server) handleImportTemplateCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events-template.csv"`)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, importer.TemplateCSV())
}

// importRequest carries an import batch: either raw pasted CSV text or
// pre-decoded records. Exactly one of the two must be set.
type importRequest struct {
	CSV    string           `json:"csv,omitempty"`
	Events []csvtext.Record `json:"events,omitempty"`
}

// handleImport runs a bulk import batch and returns its BatchResult.
// Row-level failures are part of the result, not an HTTP error.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeBody(w, r, s.cfg.Import.MaxBodySize, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if (req.CSV == "") == (len(req.Events) == 0) {
		respondError(w, r, fmt.Errorf("provide exactly one of csv or events"))
		return
	}

	ctx, cancel := contextWithTimeout(r, s.cfg.Import.Timeout)
	defer cancel()

	caller := middleware.CallerFrom(r.Context())

	var (
		result *importer.BatchResult
		err    error
	)
	if req.CSV != "" {
		result, err = s.importer.ImportCSV(ctx, caller, req.CSV)
	} else {
		result, err = s.importer.ImportRecords(ctx, caller, req.Events)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// contextWithTimeout bounds a long-running request; a non-positive
// duration means no extra bound beyond the router timeout.
func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), d)
}
