// Package metrics exposes Prometheus instrumentation for the analysis
// pipeline. All methods are nil-receiver safe so callers can run without a
// registry in tests.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalysisMetrics counts analyses and tracks their duration.
type AnalysisMetrics struct {
	analysesTotal        *prometheus.CounterVec
	analysisDuration     prometheus.Histogram
	conversationsCreated prometheus.Counter
}

func New(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scorecard",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total conversation analyses by trigger and status",
		}, []string{"trigger", "status"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scorecard",
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Wall time of one analysis pass including persistence",
			Buckets:   prometheus.DefBuckets,
		}),
		conversationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scorecard",
			Subsystem: "api",
			Name:      "conversations_created_total",
			Help:      "Total conversations accepted through the API",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.analysesTotal, m.analysisDuration, m.conversationsCreated)
	return m
}

// ObserveAnalysis records one analysis attempt.
func (m *AnalysisMetrics) ObserveAnalysis(trigger, status string, seconds float64) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(trigger, status).Inc()
	if status == "ok" {
		m.analysisDuration.Observe(seconds)
	}
}

// IncConversationCreated records one accepted conversation.
func (m *AnalysisMetrics) IncConversationCreated() {
	if m == nil {
		return
	}
	m.conversationsCreated.Inc()
}
