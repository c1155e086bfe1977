package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Invoice lifecycle events
const (
	EventCreated  = "created"
	EventEdited   = "edited"
	EventVoided   = "voided"
	EventReturned = "returned"
)

// Config supplies constant labels.
type Config struct {
	ServiceName string
	Environment string
}

// Metrics holds the collectors for the invoice lifecycle and the HTTP surface.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	invoiceEvents   *prometheus.CounterVec
	stockRejections *prometheus.CounterVec
	batchItems      *prometheus.CounterVec
	stockUnits      *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors on registerer, or the default registerer when nil.
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "tienda-api"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		invoiceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tienda_invoice_events_total",
			Help:        "Invoice lifecycle events by kind.",
			ConstLabels: constLabels,
		}, []string{"event"}),
		stockRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tienda_stock_rejections_total",
			Help:        "Operations rejected for insufficient stock.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tienda_batch_items_total",
			Help:        "Batch items processed by operation and outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		stockUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tienda_stock_units_total",
			Help:        "Units moved in or out of stock.",
			ConstLabels: constLabels,
		}, []string{"direction"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "tienda_http_request_duration_seconds",
			Help:        "HTTP request latency.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
	}

	registerer.MustRegister(m.invoiceEvents, m.stockRejections, m.batchItems, m.stockUnits, m.httpDuration)
	return m
}

// InvoiceEvent counts one lifecycle event
func (m *Metrics) InvoiceEvent(event string) {
	if m == nil {
		return
	}
	m.invoiceEvents.WithLabelValues(event).Inc()
}

// StockRejected counts an operation refused for lack of stock
func (m *Metrics) StockRejected(operation string) {
	if m == nil {
		return
	}
	m.stockRejections.WithLabelValues(operation).Inc()
}

// BatchItem counts one processed batch item
func (m *Metrics) BatchItem(operation string, ok bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if ok {
		outcome = "succeeded"
	}
	m.batchItems.WithLabelValues(operation, outcome).Inc()
}

// StockMoved records a signed stock change
func (m *Metrics) StockMoved(delta int) {
	if m == nil || delta == 0 {
		return
	}
	if delta < 0 {
		m.stockUnits.WithLabelValues("out").Add(float64(-delta))
		return
	}
	m.stockUnits.WithLabelValues("in").Add(float64(delta))
}

// ObserveHTTP records a request duration in seconds
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(seconds)
}
