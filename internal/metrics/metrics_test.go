package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.BookingsCreated.Inc()
	m.Exports.WithLabelValues("csv").Add(2)
	m.HTTPDuration.WithLabelValues("GET", "/healthz", "200").Observe(0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Exports.WithLabelValues("csv")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["tailor_booking_bookings_created_total"])
	assert.True(t, names["tailor_booking_exports_total"])
	assert.True(t, names["tailor_booking_http_request_duration_seconds"])
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
