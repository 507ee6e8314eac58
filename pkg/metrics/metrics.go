// Package metrics exposes the Prometheus collectors the orchestration
// engine emits: LLM retry/fallback counters and per-component latency
// histograms. Trimmed from the teacher's infrastructure/monitoring family
// to what the core actually reports — no SLO reporter, no capacity
// planner (see DESIGN.md).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the collectors the engine registers at startup.
type Registry struct {
	LLMCallsTotal       *prometheus.CounterVec
	LLMRetriesTotal     *prometheus.CounterVec
	LLMFallbacksTotal   *prometheus.CounterVec
	ComponentDuration   *prometheus.HistogramVec
	ProteinRepeatTotal  prometheus.Counter
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// Gatherer returns the underlying collector registry for the /metrics
// scrape endpoint.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// New constructs and registers the engine's collectors against reg.
func New(reg *prometheus.Registry) *Registry {
	m := &Registry{
		gatherer: reg,
		LLMCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealprep",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total chat-completion calls issued to the LLM backend.",
		}, []string{"backend", "outcome"}),
		LLMRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealprep",
			Subsystem: "llm",
			Name:      "retries_total",
			Help:      "Total retry attempts issued by the LLM Client Adapter.",
		}, []string{"reason"}),
		LLMFallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealprep",
			Subsystem: "llm",
			Name:      "fallbacks_total",
			Help:      "Total times the deterministic fallback recipe was returned.",
		}, []string{"component"}),
		ComponentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mealprep",
			Subsystem: "orchestrator",
			Name:      "component_duration_seconds",
			Help:      "Duration of one orchestration component's processing.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"component"}),
		ProteinRepeatTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealprep",
			Subsystem: "distributor",
			Name:      "last_slot_repeat_total",
			Help:      "Total times the Protein Distributor fell back to the legal last-slot repetition.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealprep",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served, by method/path/status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mealprep",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.LLMCallsTotal,
		m.LLMRetriesTotal,
		m.LLMFallbacksTotal,
		m.ComponentDuration,
		m.ProteinRepeatTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}
