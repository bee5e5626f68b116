package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Data keys the MetricsObserver understands. Emitters that want an event to
// feed the duration histogram set DataNode and DataDuration; DataError marks
// a failed unit of work.
const (
	DataNode     = "node"
	DataDuration = "duration"
	DataError    = "error"
)

// MetricsObserver exports events as Prometheus metrics:
//
//   - <ns>_events_total{type,level} counts every event
//   - <ns>_node_duration_seconds{node} observes events carrying a duration
//   - <ns>_node_failures_total{node} counts events carrying error=true
type MetricsObserver struct {
	events   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewMetricsObserver registers the observer's collectors with reg. Collectors
// that are already registered (a second observer on the same registry) are
// reused rather than treated as an error.
func NewMetricsObserver(namespace string, reg prometheus.Registerer) (*MetricsObserver, error) {
	if namespace == "" {
		namespace = "interview"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Count of observability events by type and level.",
	}, []string{"type", "level"}))
	if err != nil {
		return nil, fmt.Errorf("register events counter: %w", err)
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "node_duration_seconds",
		Help:      "Latency of graph nodes and interview steps.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"node"}))
	if err != nil {
		return nil, fmt.Errorf("register duration histogram: %w", err)
	}

	failures, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "node_failures_total",
		Help:      "Count of failed graph nodes and interview steps.",
	}, []string{"node"}))
	if err != nil {
		return nil, fmt.Errorf("register failures counter: %w", err)
	}

	return &MetricsObserver{
		events:   events,
		duration: duration,
		failures: failures,
	}, nil
}

func (m *MetricsObserver) OnEvent(_ context.Context, event Event) {
	if m == nil {
		return
	}

	m.events.WithLabelValues(string(event.Type), event.Level.String()).Inc()

	node, ok := event.Data[DataNode].(string)
	if !ok || node == "" {
		return
	}
	if d, ok := event.Data[DataDuration].(time.Duration); ok {
		m.duration.WithLabelValues(node).Observe(d.Seconds())
	}
	if failed, ok := event.Data[DataError].(bool); ok && failed {
		m.failures.WithLabelValues(node).Inc()
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}
