package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ats_checker"

// Metrics holds the Prometheus collectors for the analysis pipeline.
type Metrics struct {
	Analyses          *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	InferenceDuration prometheus.Histogram
	PromptChars       prometheus.Histogram
	RateLimited       prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Résumé analyses by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis latency.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Latency of the model call.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		PromptChars: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_chars",
			Help:      "Size of the prompt sent to the model, in characters.",
			Buckets:   prometheus.LinearBuckets(2500, 2500, 10),
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(m.Analyses, m.AnalysisDuration, m.InferenceDuration, m.PromptChars, m.RateLimited)
	return m
}

// ObserveAnalysis records one finished analysis. outcome is "success" or an
// error kind.
func (m *Metrics) ObserveAnalysis(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(took.Seconds())
}

func (m *Metrics) ObserveInference(took time.Duration) {
	if m == nil {
		return
	}
	m.InferenceDuration.Observe(took.Seconds())
}

func (m *Metrics) ObservePrompt(chars int) {
	if m == nil {
		return
	}
	m.PromptChars.Observe(float64(chars))
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
