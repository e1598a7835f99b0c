package metrics

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Store error reasons.
const (
	StoreErrorDeadlineExceeded = "deadline_exceeded"
	StoreErrorUnavailable      = "unavailable"
	StoreErrorConstraint       = "constraint"
	StoreErrorUnknown          = "unknown"
)

// HTTPMetrics captures request volume, latency and store failures for /metrics.
type HTTPMetrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	storeErrors *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP collectors on the default registerer.
func NewHTTPMetrics(cfg Config) (*HTTPMetrics, error) {
	return NewHTTPMetricsWithRegisterer(prometheus.DefaultRegisterer, cfg)
}

// NewHTTPMetricsWithRegisterer registers the HTTP collectors on registerer.
func NewHTTPMetricsWithRegisterer(registerer prometheus.Registerer, cfg Config) (*HTTPMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "policyhub"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "policyhub_http_requests_total",
		Help:        "HTTP requests by route and status.",
		ConstLabels: constLabels,
	}, []string{"method", "route", "status_code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "policyhub_http_request_duration_seconds",
		Help:        "HTTP request latency by route.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	}, []string{"method", "route"})
	storeErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "policyhub_store_errors_total",
		Help:        "Catalog store failures by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"reason"})

	for _, collector := range []prometheus.Collector{requests, duration, storeErrors} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return &HTTPMetrics{
		requests:    requests,
		duration:    duration,
		storeErrors: storeErrors,
	}, nil
}

// GinMiddleware records one sample per request. Unmatched routes share one label.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// IncStoreError counts a store failure surfaced to a client.
func (m *HTTPMetrics) IncStoreError(err error) {
	if m == nil || err == nil {
		return
	}
	m.storeErrors.WithLabelValues(ClassifyStoreError(err)).Inc()
}

// ClassifyStoreError maps store errors to a bounded reason set.
func ClassifyStoreError(err error) string {
	if err == nil {
		return StoreErrorUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return StoreErrorDeadlineExceeded
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01":
			return StoreErrorUnavailable
		case strings.HasPrefix(pgErr.Code, "23"):
			return StoreErrorConstraint
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return StoreErrorConstraint
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return StoreErrorUnavailable
	}
	return StoreErrorUnknown
}
