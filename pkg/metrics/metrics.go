package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics prometheus collectors of the service
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AvailabilityVerdicts *prometheus.CounterVec
	QuotesTotal          *prometheus.CounterVec
	BookingsTotal        *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
}

// New registers collectors in the default prometheus registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry registers collectors in reg
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	ns := sanitize(serviceName)

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		AvailabilityVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "availability_verdicts_total",
			Help:      "Availability verdicts by level and reason",
		}, []string{"level", "reason"}),

		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "quotes_total",
			Help:      "Computed quotes by service and whether the minimum call-out applied",
		}, []string{"service", "floored"}),

		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "bookings_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),

		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "day_state_cache_lookups_total",
			Help:      "Day state cache lookups by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AvailabilityVerdicts,
		m.QuotesTotal,
		m.BookingsTotal,
		m.CacheLookups,
	)

	return m
}

// ObserveVerdict counts one resolver verdict. Safe on a nil receiver.
func (m *Metrics) ObserveVerdict(level, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "available"
	}
	m.AvailabilityVerdicts.WithLabelValues(level, reason).Inc()
}

// ObserveQuote counts one computed quote. Safe on a nil receiver.
func (m *Metrics) ObserveQuote(service string, floored bool) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(service, strconv.FormatBool(floored)).Inc()
}

// ObserveBooking counts one booking submission outcome. Safe on a nil receiver.
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCache counts a cache hit/miss/error. Safe on a nil receiver.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func sanitize(name string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name)
}
