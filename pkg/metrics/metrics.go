package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics holds the request metrics shared by every HTTP handler
type HTTPMetrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
}

// NewHTTPMetrics creates and registers the request metrics
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_requests_total",
				Help: "Total number of requests to the marketplace API",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketplace_request_duration_seconds",
				Help:    "Duration of marketplace API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		requestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "marketplace_request_duration_summary",
				Help: "Summary of request durations with percentiles",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
	}

	reg.MustRegister(m.requestCounter, m.requestLatency, m.requestSummary)
	return m
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Wrap records metrics for next under the given route template
func (m *HTTPMetrics) Wrap(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		m.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// DomainMetrics are business-level gauges and counters
type DomainMetrics struct {
	ListingsByStatus *prometheus.GaugeVec
	ReceiptsCreated  prometheus.Counter
	ListingViews     prometheus.Counter
}

// NewDomainMetrics creates and registers the business metrics
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	m := &DomainMetrics{
		ListingsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketplace_listings_by_status",
				Help: "Number of listings per lifecycle status",
			},
			[]string{"status"},
		),
		ReceiptsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marketplace_receipts_created_total",
				Help: "Total number of sale receipts issued",
			},
		),
		ListingViews: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "marketplace_listing_views_total",
				Help: "Total number of listing detail views",
			},
		),
	}

	reg.MustRegister(m.ListingsByStatus, m.ReceiptsCreated, m.ListingViews)
	return m
}
