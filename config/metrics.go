package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the counters the services update.
type Metrics struct {
	Registry            *prometheus.Registry
	RequestsSubmitted   prometheus.Counter
	RequestsReturned    prometheus.Counter
	FormStructuresSaved prometheus.Counter
	StoreErrors         *prometheus.CounterVec
}

// NewMetrics creates a registry with process/go collectors and the service counters.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laptop_requests_submitted_total",
			Help: "Laptop requests persisted in Checked Out state.",
		}),
		RequestsReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laptop_requests_returned_total",
			Help: "Laptop requests transitioned to Returned.",
		}),
		FormStructuresSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "form_structures_saved_total",
			Help: "Form structure documents written.",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laptop_request_store_errors_total",
			Help: "Storage failures by operation.",
		}, []string{"operation"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsSubmitted,
		m.RequestsReturned,
		m.FormStructuresSaved,
		m.StoreErrors,
	)
	return m
}
