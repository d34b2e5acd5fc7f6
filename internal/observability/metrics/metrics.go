package metrics

import "github.com/prometheus/client_golang/prometheus"

// SimulatorMetrics exposes counters/histograms for rehearsal sessions.
type SimulatorMetrics struct {
	sessionsStarted   prometheus.Counter
	entriesTotal      *prometheus.CounterVec
	workflowCompleted *prometheus.CounterVec
	dispatchTotal     *prometheus.CounterVec
	aiLatency         prometheus.Histogram
}

func NewSimulatorMetrics(reg prometheus.Registerer) *SimulatorMetrics {
	m := &SimulatorMetrics{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "botbuilder",
			Subsystem: "simulator",
			Name:      "sessions_started_total",
			Help:      "Total rehearsal sessions started (restarts included)",
		}),
		entriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botbuilder",
			Subsystem: "simulator",
			Name:      "timeline_entries_total",
			Help:      "Total timeline entries appended",
		}, []string{"author"}),
		workflowCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botbuilder",
			Subsystem: "simulator",
			Name:      "workflow_completed_total",
			Help:      "Total workflows that reached finalize",
		}, []string{"workflow"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "botbuilder",
			Subsystem: "dispatch",
			Name:      "webhook_total",
			Help:      "Total webhook dispatch attempts",
		}, []string{"kind", "status", "suppressed"}),
		aiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "botbuilder",
			Subsystem: "dispatch",
			Name:      "ai_reply_latency_seconds",
			Help:      "Latency of awaited ai-agent webhook round-trips",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.entriesTotal, m.workflowCompleted, m.dispatchTotal, m.aiLatency)
	return m
}

func (m *SimulatorMetrics) ObserveSessionStart() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *SimulatorMetrics) ObserveEntry(author string) {
	if m == nil {
		return
	}
	m.entriesTotal.WithLabelValues(author).Inc()
}

func (m *SimulatorMetrics) ObserveWorkflowCompleted(workflow string) {
	if m == nil {
		return
	}
	m.workflowCompleted.WithLabelValues(workflow).Inc()
}

func (m *SimulatorMetrics) ObserveDispatch(kind, status string, suppressed bool) {
	if m == nil {
		return
	}
	label := "false"
	if suppressed {
		label = "true"
	}
	m.dispatchTotal.WithLabelValues(kind, status, label).Inc()
}

func (m *SimulatorMetrics) ObserveAILatency(seconds float64) {
	if m == nil {
		return
	}
	m.aiLatency.Observe(seconds)
}
