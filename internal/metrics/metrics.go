// Package metrics exposes Prometheus collectors for the assessment and report flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ocean_report"

// Stage names used with ObserveStage.
const (
	StageScore     = "score"
	StageNarrative = "narrative"
	StageMedia     = "media"
	StageSample    = "sample"
	StagePlot      = "plot"
	StageCompose   = "compose"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	reports           *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	placeholders      *prometheus.CounterVec
	narrativeFailures prometheus.Counter
	rateLimited       prometheus.Counter
	assessments       *prometheus.CounterVec
}

// MustNewMetrics registers the collectors on reg and panics on conflicts, like the
// promauto helpers. Tests should pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Report runs by outcome.",
		}, []string{"status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_stage_duration_seconds",
			Help:      "Time spent in each report pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		placeholders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_placeholders_total",
			Help:      "Snapshot images replaced by a placeholder, by image kind.",
		}, []string{"kind"}),
		narrativeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_failures_total",
			Help:      "Narrative generations that fell back to error text.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_rate_limited_total",
			Help:      "Report requests rejected by the rate limiter.",
		}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Questionnaire sessions by event (started, completed).",
		}, []string{"event"}),
	}
	reg.MustRegister(m.reports, m.stageDuration, m.placeholders, m.narrativeFailures, m.rateLimited, m.assessments)
	return m
}

func (m *Metrics) ReportFinished(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.reports.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Placeholder counts one missing image; kind is "frame", "thermal" or "plot".
func (m *Metrics) Placeholder(kind string) {
	if m == nil {
		return
	}
	m.placeholders.WithLabelValues(kind).Inc()
}

func (m *Metrics) NarrativeFailed() {
	if m == nil {
		return
	}
	m.narrativeFailures.Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) AssessmentStarted() {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues("started").Inc()
}

func (m *Metrics) AssessmentCompleted() {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues("completed").Inc()
}
