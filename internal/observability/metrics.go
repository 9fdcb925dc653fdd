package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	posCreated      prometheus.Counter
	posSent         prometheus.Counter
	documentsStored prometheus.Counter
	importRuns      *prometheus.CounterVec
}

// NewMetrics initializes the registry with the base metric set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bomtracker_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bomtracker_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	posCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bomtracker_purchase_orders_created_total",
		Help: "Purchase orders created.",
	})
	posSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bomtracker_purchase_orders_sent_total",
		Help: "Purchase orders sent to vendors.",
	})
	docsStored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bomtracker_documents_stored_total",
		Help: "Documents uploaded to object storage.",
	})
	importRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bomtracker_import_extractions_total",
		Help: "BOM import extractions by source path.",
	}, []string{"source"})
	registry.MustRegister(requests, duration, posCreated, posSent, docsStored, importRuns)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		posCreated:      posCreated,
		posSent:         posSent,
		documentsStored: docsStored,
		importRuns:      importRuns,
	}
}

// RecordPOCreated counts a purchase order creation.
func (m *Metrics) RecordPOCreated() {
	if m != nil {
		m.posCreated.Inc()
	}
}

// RecordPOSent counts a purchase order handed to dispatch.
func (m *Metrics) RecordPOSent() {
	if m != nil {
		m.posSent.Inc()
	}
}

// RecordDocumentStored counts an upload to object storage.
func (m *Metrics) RecordDocumentStored() {
	if m != nil {
		m.documentsStored.Inc()
	}
}

// RecordImportRun counts an extraction by source ("ai" or "keyword").
func (m *Metrics) RecordImportRun(source string) {
	if m != nil {
		m.importRuns.WithLabelValues(source).Inc()
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
