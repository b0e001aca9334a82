package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the relay
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics (the relay's own endpoint)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Dispatch metrics (outbound calls)
	DispatchTotal    *prometheus.CounterVec
	DispatchFailures *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	DispatchInFlight prometheus.Gauge
	UpstreamBodySize prometheus.Histogram
	InputErrors      prometheus.Counter

	// Breaker metrics
	BreakerTransitions *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the JSON health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current counter values for the JSON health endpoint
type Snapshot struct {
	TotalRequests    int64   `json:"total_requests"`
	Dispatches       int64   `json:"dispatches"`
	DispatchFailures int64   `json:"dispatch_failures"`
	InputErrors      int64   `json:"input_errors"`
	AvgDispatchMs    float64 `json:"avg_dispatch_ms"`
	UptimeSeconds    float64 `json:"uptime_seconds"`

	totalDispatchSeconds float64
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_http_requests_total",
				Help: "Total number of HTTP requests served by the relay",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_dispatch_total",
				Help: "Outbound dispatches by method and outcome (status class or error)",
			},
			[]string{"method", "outcome"},
		),
		DispatchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_dispatch_failures_total",
				Help: "Outbound dispatches that produced no response, by reason",
			},
			[]string{"reason"},
		),
		DispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_dispatch_duration_seconds",
				Help:    "Outbound dispatch duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method"},
		),
		DispatchInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "relay_dispatch_in_flight",
				Help: "Outbound dispatches currently in progress",
			},
		),
		UpstreamBodySize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "relay_upstream_body_size_bytes",
				Help:    "Size of upstream response bodies after decoding",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
			},
		),
		InputErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "relay_input_errors_total",
				Help: "Relay calls rejected before dispatch",
			},
		),

		BreakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_breaker_transitions_total",
				Help: "Per-host circuit breaker state transitions",
			},
			[]string{"from", "to"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "relay_uptime_seconds",
			Help: "Relay uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler returns the Prometheus exposition handler for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records a request served by the relay endpoint
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.mu.Unlock()
}

// DispatchStarted marks an outbound call as in flight
func (m *Metrics) DispatchStarted() {
	m.DispatchInFlight.Inc()
}

// RecordDispatch records a dispatch that obtained an upstream response
func (m *Metrics) RecordDispatch(method string, status int, duration time.Duration, bodySize int) {
	m.DispatchInFlight.Dec()
	m.DispatchTotal.WithLabelValues(method, StatusClass(status)).Inc()
	m.DispatchDuration.WithLabelValues(method).Observe(duration.Seconds())
	m.UpstreamBodySize.Observe(float64(bodySize))

	m.mu.Lock()
	m.snapshot.Dispatches++
	m.snapshot.totalDispatchSeconds += duration.Seconds()
	m.mu.Unlock()
}

// RecordDispatchFailure records a dispatch that produced no response
func (m *Metrics) RecordDispatchFailure(method, reason string, duration time.Duration) {
	m.DispatchInFlight.Dec()
	m.DispatchTotal.WithLabelValues(method, "error").Inc()
	m.DispatchFailures.WithLabelValues(reason).Inc()
	m.DispatchDuration.WithLabelValues(method).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Dispatches++
	m.snapshot.DispatchFailures++
	m.snapshot.totalDispatchSeconds += duration.Seconds()
	m.mu.Unlock()
}

// RecordInputError records a call rejected before dispatch
func (m *Metrics) RecordInputError() {
	m.InputErrors.Inc()

	m.mu.Lock()
	m.snapshot.InputErrors++
	m.mu.Unlock()
}

// RecordBreakerTransition records a circuit breaker state change
func (m *Metrics) RecordBreakerTransition(from, to string) {
	m.BreakerTransitions.WithLabelValues(from, to).Inc()
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.Dispatches > 0 {
		s.AvgDispatchMs = s.totalDispatchSeconds / float64(s.Dispatches) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
