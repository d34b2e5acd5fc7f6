package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSimulatorMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSimulatorMetrics(reg)

	m.ObserveSessionStart()
	m.ObserveSessionStart()
	m.ObserveEntry("bot")
	m.ObserveEntry("user")
	m.ObserveWorkflowCompleted("callback")
	m.ObserveDispatch("brochure", "ok", true)
	m.ObserveDispatch("callback", "error", false)
	m.ObserveAILatency(0.25)

	if got := testutil.ToFloat64(m.sessionsStarted); got != 2 {
		t.Fatalf("expected 2 session starts, got %f", got)
	}
	if got := testutil.ToFloat64(m.entriesTotal.WithLabelValues("bot")); got != 1 {
		t.Fatalf("expected 1 bot entry, got %f", got)
	}
	if got := testutil.ToFloat64(m.dispatchTotal.WithLabelValues("brochure", "ok", "true")); got != 1 {
		t.Fatalf("expected suppressed brochure dispatch counted, got %f", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *SimulatorMetrics
	m.ObserveSessionStart()
	m.ObserveEntry("bot")
	m.ObserveWorkflowCompleted("appointment")
	m.ObserveDispatch("callback", "ok", false)
	m.ObserveAILatency(1)
}
