package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus-коллекторов сервиса.
// Все методы записи безопасны для nil-получателя: при выключенных метриках
// вызывающий код передаёт nil и ничего не регистрируется.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBErrorsTotal   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	AllocationsTotal *prometheus.CounterVec
	ComboOrdersTotal *prometheus.CounterVec
	ReflowsTotal     *prometheus.CounterVec
}

// New создает и регистрирует коллекторы в собственном реестре
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_errors_total",
			Help:        "Total number of failed database operations",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		AllocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_allocations_total",
			Help:        "Resource allocation attempts by category and outcome",
			ConstLabels: constLabels,
		}, []string{"category", "result"}),

		ComboOrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_combo_orders_total",
			Help:        "Combo placements by the leg order that succeeded",
			ConstLabels: constLabels,
		}, []string{"order"}),

		ReflowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_reflows_total",
			Help:        "Booking group edits by outcome",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBErrorsTotal,
		m.DBConnections,
		m.AllocationsTotal,
		m.ComboOrdersTotal,
		m.ReflowsTotal,
	)

	return m
}

// Handler возвращает http.Handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр (используется в тестах)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAllocation фиксирует результат выбора ресурса
func (m *Metrics) RecordAllocation(category, result string) {
	if m == nil {
		return
	}
	m.AllocationsTotal.WithLabelValues(category, result).Inc()
}

// RecordComboOrder фиксирует порядок этапов, с которым удалось разместить комбо
func (m *Metrics) RecordComboOrder(order string) {
	if m == nil {
		return
	}
	m.ComboOrdersTotal.WithLabelValues(order).Inc()
}

// RecordReflow фиксирует результат редактирования группы бронирований
func (m *Metrics) RecordReflow(result string) {
	if m == nil {
		return
	}
	m.ReflowsTotal.WithLabelValues(result).Inc()
}
