package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request phases used as metric labels.
const (
	phaseListing         = "listing"
	phaseNames           = "names"
	phasePrices          = "prices"
	phaseCharacteristics = "characteristics"
)

// Metrics bundles Prometheus collectors for a collection run.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ProductsTotal   prometheus.Counter
	RetriesTotal    prometheus.Counter
	DegradedTotal   prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "laptops_scraper_requests_total",
			Help: "Total API requests issued, by phase.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "laptops_scraper_request_duration_seconds",
			Help:    "API request latency, by phase.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)
	products := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "laptops_scraper_products_total",
			Help: "Products whose characteristics were requested.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "laptops_scraper_retries_total",
			Help: "Characteristics retry attempts.",
		},
	)
	degraded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "laptops_scraper_degraded_total",
			Help: "Products stored with only their canonical URL.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "laptops_scraper_errors_total",
			Help: "Failed API requests by error type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, products, retries, degraded, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		ProductsTotal:   products,
		RetriesTotal:    retries,
		DegradedTotal:   degraded,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests counter for a phase.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records a request duration for a phase.
func (m *Metrics) ObserveDuration(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *Metrics) IncProducts() {
	if m == nil {
		return
	}
	m.ProductsTotal.Inc()
}

func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

func (m *Metrics) IncDegraded() {
	if m == nil {
		return
	}
	m.DegradedTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
