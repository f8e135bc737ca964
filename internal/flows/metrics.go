package flows

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-content-bot/internal/conversation"
)

// Observer captures telemetry for flow actions.
type Observer interface {
	ObserveAction(flow conversation.Flow, contentType string, outcome Outcome)
	ObserveCommit(flow conversation.Flow, contentType string, elapsed time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveAction(conversation.Flow, string, Outcome)              {}
func (noopObserver) ObserveCommit(conversation.Flow, string, time.Duration, error) {}

// PrometheusObserver exports flow metrics to Prometheus.
type PrometheusObserver struct {
	actions       *prometheus.CounterVec
	commitLatency *prometheus.HistogramVec
	commitErrors  *prometheus.CounterVec
}

// NewPrometheusObserver registers the flow collectors on reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "contentbot"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	observer := &PrometheusObserver{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "actions_total",
			Help:      "Operator actions handled by the flow engine, by outcome.",
		}, []string{"flow", "content_type", "outcome"}),
		commitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "commit_duration_seconds",
			Help:      "Latency of terminal persistence calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flow", "content_type"}),
		commitErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flows",
			Name:      "commit_errors_total",
			Help:      "Terminal persistence calls that failed.",
		}, []string{"flow", "content_type"}),
	}

	if err := register(reg, &observer.actions); err != nil {
		return nil, err
	}
	if err := register(reg, &observer.commitLatency); err != nil {
		return nil, err
	}
	if err := register(reg, &observer.commitErrors); err != nil {
		return nil, err
	}
	return observer, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector *C) error {
	if err := reg.Register(*collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				*collector = existing
				return nil
			}
		}
		return fmt.Errorf("register flow metric: %w", err)
	}
	return nil
}

func (o *PrometheusObserver) ObserveAction(flow conversation.Flow, contentType string, outcome Outcome) {
	if o == nil {
		return
	}
	o.actions.WithLabelValues(string(flow), contentType, string(outcome)).Inc()
}

func (o *PrometheusObserver) ObserveCommit(flow conversation.Flow, contentType string, elapsed time.Duration, err error) {
	if o == nil {
		return
	}
	o.commitLatency.WithLabelValues(string(flow), contentType).Observe(elapsed.Seconds())
	if err != nil {
		o.commitErrors.WithLabelValues(string(flow), contentType).Inc()
	}
}
