package flows

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/internal/fields"
	"github.com/goliatone/go-content-bot/records"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestPrometheusObserverCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	observer, err := NewPrometheusObserver("test", reg)
	if err != nil {
		t.Fatalf("observer: %v", err)
	}

	h := newHarness(t, WithObserver(observer))
	h.start(t, conversation.FlowCreate, fields.PortfolioProject, "")
	h.text(t, "Acme")
	h.press(t, records.FieldURL)
	h.text(t, "ftp://nope")
	h.text(t, "https://acme.example")

	labels := func(outcome Outcome) map[string]string {
		return map[string]string{"flow": "create", "content_type": fields.PortfolioProject, "outcome": string(outcome)}
	}
	if got := counterValue(t, reg, "test_flows_actions_total", labels(OutcomeAdvanced)); got != 2 {
		t.Fatalf("expected 2 advanced actions, got %v", got)
	}
	if got := counterValue(t, reg, "test_flows_actions_total", labels(OutcomeRejected)); got != 1 {
		t.Fatalf("expected 1 rejected action, got %v", got)
	}
	if got := counterValue(t, reg, "test_flows_actions_total", labels(OutcomeCompleted)); got != 1 {
		t.Fatalf("expected 1 completed action, got %v", got)
	}
}

func TestPrometheusObserverReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusObserver("dup", reg)
	if err != nil {
		t.Fatalf("first observer: %v", err)
	}
	second, err := NewPrometheusObserver("dup", reg)
	if err != nil {
		t.Fatalf("second observer: %v", err)
	}

	first.ObserveCommit(conversation.FlowDelete, fields.Product, time.Millisecond, errors.New("boom"))
	second.ObserveCommit(conversation.FlowDelete, fields.Product, time.Millisecond, errors.New("boom"))

	got := counterValue(t, reg, "dup_flows_commit_errors_total", map[string]string{"flow": "delete", "content_type": fields.Product})
	if got != 2 {
		t.Fatalf("expected shared counter at 2, got %v", got)
	}
}

func TestNilPrometheusObserverIsSafe(t *testing.T) {
	var observer *PrometheusObserver
	observer.ObserveAction(conversation.FlowCreate, fields.Product, OutcomeStarted)
	observer.ObserveCommit(conversation.FlowCreate, fields.Product, time.Second, nil)
}
