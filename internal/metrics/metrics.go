// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const service = "vetcare"

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// StatusCodeCategoryCounter counts responses by 2xx/4xx/5xx.
	StatusCodeCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category", "method", "path"},
	)

	// AuditFailures counts audit rows that could not be written.
	AuditFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vetcare_audit_write_failures_total",
			Help: "Audit log writes that failed and were dropped",
		},
		[]string{"action"},
	)

	// SalesTotal counts sale submissions by outcome.
	SalesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vetcare_sales_total",
			Help: "Sale submissions by outcome (created, replayed, rejected, failed)",
		},
		[]string{"outcome"},
	)

	// StockDriftItems is the number of items whose totalStock disagreed
	// with their batches at the last reconciliation.
	StockDriftItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vetcare_inventory_stock_drift_items",
			Help: "Inventory items whose totalStock differs from the sum of batch quantities",
		},
	)

	// RemindersTotal counts appointment reminders by outcome.
	RemindersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vetcare_appointment_reminders_total",
			Help: "Appointment reminders by outcome (sent, failed)",
		},
		[]string{"outcome"},
	)

	registerOnce sync.Once
)

// Register adds every collector to the default registry once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			StatusCodeCategoryCounter,
			AuditFailures,
			SalesTotal,
			StockDriftItems,
			RemindersTotal,
		)
	})
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}

// Middleware records request count, latency and status category. The
// path label is the matched route template, so ids do not explode
// cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		statusStr := strconv.Itoa(status)

		RequestCounter.WithLabelValues(service, method, path, statusStr).Inc()
		if category := statusCategory(status); category != "" {
			StatusCodeCategoryCounter.WithLabelValues(service, category, method, path).Inc()
		}
		RequestDurationHistogram.WithLabelValues(service, method, path, statusStr).
			Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
