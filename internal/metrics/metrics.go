// Package metrics holds the Prometheus collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the application collectors.
type Metrics struct {
	shiftsSubmitted prometheus.Counter
	transitions     *prometheus.CounterVec
	duesPaid        prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		shiftsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ridershift",
			Name:      "shifts_submitted_total",
			Help:      "Shift reports accepted from riders.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ridershift",
			Name:      "shift_transitions_total",
			Help:      "Admin shift operations by operation and result.",
		}, []string{"operation", "result"}),
		duesPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ridershift",
			Name:      "dues_marked_paid_total",
			Help:      "Dues marked as paid.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ridershift",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.shiftsSubmitted, m.transitions, m.duesPaid, m.httpDuration)
	return m
}

// ShiftSubmitted counts one accepted shift report.
func (m *Metrics) ShiftSubmitted() {
	if m == nil {
		return
	}
	m.shiftsSubmitted.Inc()
}

// Transition records the outcome of a close or collect-cash operation.
func (m *Metrics) Transition(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.transitions.WithLabelValues(operation, result).Inc()
}

// DuePaid counts one mark-paid call.
func (m *Metrics) DuePaid() {
	if m == nil {
		return
	}
	m.duesPaid.Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
