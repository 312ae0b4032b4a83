package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters for booking screen activity.
type BookingMetrics struct {
	transitionsTotal   *prometheus.CounterVec
	confirmationsTotal prometheus.Counter
	navigationTotal    *prometheus.CounterVec
	activeScreens      prometheus.Gauge
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "screen",
			Name:      "transitions_total",
			Help:      "Screen actions handled, by operation and whether they applied",
		}, []string{"operation", "outcome"}),
		confirmationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "screen",
			Name:      "confirmations_total",
			Help:      "Bookings confirmed",
		}),
		navigationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "screen",
			Name:      "navigation_total",
			Help:      "Hand-offs to other screens, by target",
		}, []string{"target"}),
		activeScreens: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "booking",
			Subsystem: "screen",
			Name:      "active",
			Help:      "Open booking screens",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.confirmationsTotal, m.navigationTotal, m.activeScreens)
	return m
}

func (m *BookingMetrics) ObserveTransition(operation string, applied bool) {
	if m == nil {
		return
	}
	outcome := "ignored"
	if applied {
		outcome = "applied"
	}
	m.transitionsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *BookingMetrics) ObserveConfirmation() {
	if m == nil {
		return
	}
	m.confirmationsTotal.Inc()
}

func (m *BookingMetrics) ObserveNavigation(target string) {
	if m == nil {
		return
	}
	m.navigationTotal.WithLabelValues(target).Inc()
}

func (m *BookingMetrics) SetActiveScreens(count int) {
	if m == nil {
		return
	}
	m.activeScreens.Set(float64(count))
}

// HTTPMetrics records request counts and latency per route.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}
