package sei

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sirosfoundation/go-sei/pkg/soap"
)

// Call outcomes used as the result label
const (
	resultSuccess = "success"
	resultFault   = "fault"
	resultError   = "error"
)

type clientMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// newClientMetrics builds the client collectors. They are registered only
// when reg is not nil; a collector already registered by another client is reused.
func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	m := &clientMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sei_client_calls_total",
			Help: "SEI web service calls by operation and result (success|fault|error)",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sei_client_call_duration_seconds",
			Help:    "Duration of SEI web service calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		m.calls = register(reg, m.calls)
		m.duration = register(reg, m.duration)
	}
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *clientMetrics) observe(op Operation, err error, elapsed time.Duration) {
	m.calls.WithLabelValues(string(op), callResult(err)).Inc()
	m.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
}

func callResult(err error) string {
	if err == nil {
		return resultSuccess
	}
	var fault *soap.Fault
	if errors.As(err, &fault) {
		return resultFault
	}
	return resultError
}
