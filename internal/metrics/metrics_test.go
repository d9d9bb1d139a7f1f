package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecorded(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := MustNewMetrics(registry)

	m.ReportFinished(nil)
	m.ReportFinished(errors.New("boom"))
	m.ReportFinished(nil)
	m.Placeholder("frame")
	m.Placeholder("frame")
	m.NarrativeFailed()
	m.RateLimited()
	m.AssessmentStarted()
	m.AssessmentCompleted()
	m.ObserveStage(StageCompose, 20*time.Millisecond)

	if got := testutil.ToFloat64(m.reports.WithLabelValues("ok")); got != 2 {
		t.Fatalf("expected 2 ok reports, got %v", got)
	}
	if got := testutil.ToFloat64(m.reports.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed report, got %v", got)
	}
	if got := testutil.ToFloat64(m.placeholders.WithLabelValues("frame")); got != 2 {
		t.Fatalf("expected 2 frame placeholders, got %v", got)
	}
	if got := testutil.ToFloat64(m.narrativeFailures); got != 1 {
		t.Fatalf("expected 1 narrative failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.rateLimited); got != 1 {
		t.Fatalf("expected 1 rate limited, got %v", got)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() != "ocean_report_report_stage_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if metric.GetHistogram().GetSampleCount() == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected one compose duration sample")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ReportFinished(nil)
	m.ObserveStage(StageScore, time.Second)
	m.Placeholder("plot")
	m.NarrativeFailed()
	m.RateLimited()
	m.AssessmentStarted()
	m.AssessmentCompleted()
}
