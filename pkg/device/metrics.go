package device

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request results used as metric label values.
const (
	resultOK          = "ok"
	resultTimeout     = "timeout"
	resultCanceled    = "canceled"
	resultTransport   = "transport_error"
	resultDeviceError = "device_error"
)

// Metrics holds Prometheus instrumentation for client requests.
// A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec   // by operation, register and result
	duration *prometheus.HistogramVec // by operation and register
}

// NewMetrics creates client metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "faststepper",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of register requests by result",
		}, []string{"operation", "register", "result"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "faststepper",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of register requests in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"operation", "register"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op, register, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, register, result).Inc()
	if result == resultOK {
		m.duration.WithLabelValues(op, register).Observe(d.Seconds())
	}
}
