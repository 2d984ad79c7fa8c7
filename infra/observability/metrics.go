package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kbhub/txledger/pkg/domain/transaction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one service. Every service owns
// its registry so several apps can live in one process (tests, e2e).
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	submitted         *prometheus.CounterVec
	rejected          *prometheus.CounterVec
	finalized         *prometheus.CounterVec
	adjustDuration    prometheus.Histogram
	adjustErrors      prometheus.Counter
}

func NewMetrics(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total count of HTTP requests processed by route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Histogram of HTTP request durations by route.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route"}),
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "transactions_submitted_total",
			Help:        "Transactions accepted for processing by type.",
			ConstLabels: constLabels,
		}, []string{"type"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "transactions_rejected_total",
			Help:        "Submissions rejected before persistence by type and reason.",
			ConstLabels: constLabels,
		}, []string{"type", "reason"}),
		finalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "transactions_finalized_total",
			Help:        "Transactions moved to a terminal status by type and status.",
			ConstLabels: constLabels,
		}, []string{"type", "status"}),
		adjustDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "balance_adjust_duration_seconds",
			Help:        "Histogram of balance adjustment call durations.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}),
		adjustErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "balance_adjust_errors_total",
			Help:        "Total balance adjustment calls that failed.",
			ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.submitted,
		m.rejected,
		m.finalized,
		m.adjustDuration,
		m.adjustErrors,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) Submitted(typ transaction.Type) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(typ.String()).Inc()
}

func (m *Metrics) Rejected(typ transaction.Type, reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(typ.String(), reason).Inc()
}

func (m *Metrics) Finalized(typ transaction.Type, status transaction.Status) {
	if m == nil {
		return
	}
	m.finalized.WithLabelValues(typ.String(), status.String()).Inc()
}

func (m *Metrics) ObserveAdjust(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.adjustDuration.Observe(d.Seconds())
	if err != nil {
		m.adjustErrors.Inc()
	}
}
