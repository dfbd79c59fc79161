package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecommendMetrics records counters and timings for the recommendation pipeline.
type RecommendMetrics struct {
	llmRequests *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	persisted   prometheus.Counter
	linkMisses  prometheus.Counter
}

// NewRecommendMetrics registers the pipeline metrics on the provided registerer.
func NewRecommendMetrics(reg prometheus.Registerer) *RecommendMetrics {
	if reg == nil {
		return &RecommendMetrics{}
	}
	llmRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_llm_requests_total",
		Help: "Outbound language model requests by pipeline stage and outcome.",
	}, []string{"stage", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommend_pipeline_duration_seconds",
		Help:    "End to end duration of recommendation requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	persisted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_builds_persisted_total",
		Help: "Builds persisted by the recommendation pipeline.",
	})
	linkMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_component_link_misses_total",
		Help: "Proposed components that could not be resolved to catalog rows.",
	})
	reg.MustRegister(llmRequests, duration, persisted, linkMisses)
	return &RecommendMetrics{
		llmRequests: llmRequests,
		duration:    duration,
		persisted:   persisted,
		linkMisses:  linkMisses,
	}
}

// IncLLMRequest counts one model round trip for the given stage.
func (m *RecommendMetrics) IncLLMRequest(stage, outcome string) {
	if m == nil || m.llmRequests == nil {
		return
	}
	m.llmRequests.WithLabelValues(normalizeLabel(stage), normalizeLabel(outcome)).Inc()
}

// ObserveDuration records the total pipeline duration.
func (m *RecommendMetrics) ObserveDuration(outcome string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(d.Seconds())
}

// IncPersisted counts a successfully saved build.
func (m *RecommendMetrics) IncPersisted() {
	if m == nil || m.persisted == nil {
		return
	}
	m.persisted.Inc()
}

// IncLinkMiss counts a proposed component without a catalog match.
func (m *RecommendMetrics) IncLinkMiss() {
	if m == nil || m.linkMisses == nil {
		return
	}
	m.linkMisses.Inc()
}

func normalizeLabel(value string) string {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return "unknown"
	}
	return strings.ReplaceAll(v, " ", "_")
}
