// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters. One instance is shared across
// the importer and submission services.
type Metrics struct {
	ImportRows    *prometheus.CounterVec
	Moderations   *prometheus.CounterVec
	Submissions   prometheus.Counter
	EventsDeleted prometheus.Counter
}

// New creates and registers all collectors on the given registry.
// Pass prometheus.DefaultRegisterer in main; tests use their own
// registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventcal",
			Name:      "import_rows_total",
			Help:      "Bulk import rows by outcome (imported, skipped, error)",
		}, []string{"outcome"}),
		Moderations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventcal",
			Name:      "moderations_total",
			Help:      "Moderation transitions by action and result",
		}, []string{"action", "result"}),
		Submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventcal",
			Name:      "submissions_total",
			Help:      "Event submissions received",
		}),
		EventsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eventcal",
			Name:      "events_deleted_total",
			Help:      "Public events deleted by an administrator",
		}),
	}

	reg.MustRegister(m.ImportRows, m.Moderations, m.Submissions, m.EventsDeleted)
	return m
}

// NewNop returns metrics registered on a throwaway registry, for tests
// that do not assert on metric values.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler returns the /metrics HTTP handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
