// Package metrics defines the Prometheus collectors of the booking service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tailor_booking"

type Metrics struct {
	BookingsCreated    prometheus.Counter
	ValidationFailures prometheus.Counter
	Exports            *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers all collectors on reg.  Pass prometheus.DefaultRegisterer in
// main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings persisted successfully.",
		}),
		ValidationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Booking submissions rejected by validation.",
		}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Booking exports served, by file format.",
		}, []string{"format"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Discard returns collectors registered nowhere, for code paths that do not
// care about metrics.
func Discard() *Metrics { return New(prometheus.NewRegistry()) }
