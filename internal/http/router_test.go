package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ocean-report/internal/domain"
	"ocean-report/internal/metrics"
	"ocean-report/internal/questionnaire"
	"ocean-report/internal/report"
	"ocean-report/internal/scoring"
	"ocean-report/internal/service"
)

type fixedNarrator struct{}

func (fixedNarrator) Generate(context.Context, domain.TraitScore) string {
	return "## Executive Summary\nSteady under pressure."
}

type testServer struct {
	router *gin.Engine
	codec  *questionnaire.TokenCodec
}

func newTestServer(t *testing.T, limiter service.RateLimiter) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.MustNewMetrics(reg)
	codec := questionnaire.NewTokenCodec("secret", time.Hour)

	assessSvc := service.NewAssessmentService(codec, scoring.DefaultKey(), m, logger)
	dir := t.TempDir()
	reportSvc := service.NewReportService(scoring.DefaultKey(), fixedNarrator{}, service.MediaConfig{
		ValencePath: filepath.Join(dir, "valence.npy"),
		ArousalPath: filepath.Join(dir, "arousal.npy"),
		VideoPath:   filepath.Join(dir, "video.mp4"),
	}, nil, limiter, m, logger)

	router := NewRouter(logger, NewAssessmentHandler(logger, assessSvc), NewReportHandler(logger, reportSvc), reg)
	return testServer{router: router, codec: codec}
}

func (s testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) service.AssessmentState {
	t.Helper()
	var state service.AssessmentState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v (%s)", err, rec.Body.String())
	}
	return state
}

func TestAssessmentFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/assessment", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	state := decodeState(t, rec)
	if state.Token == "" || state.Question == nil || state.Question.Statement != questionnaire.Statements[0] {
		t.Fatalf("unexpected start state: %+v", state)
	}

	rec = srv.do(t, http.MethodPost, "/assessment/answer", state.Token, gin.H{"value": 4})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state = decodeState(t, rec)
	if state.Question.Item != 2 {
		t.Fatalf("expected item 2, got %d", state.Question.Item)
	}

	rec = srv.do(t, http.MethodPost, "/assessment/back", state.Token, nil)
	state = decodeState(t, rec)
	if rec.Code != http.StatusOK || state.Question.Item != 1 {
		t.Fatalf("expected back to item 1, got %d %+v", rec.Code, state)
	}

	rec = srv.do(t, http.MethodGet, "/assessment/results", state.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result service.AssessmentResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if result.Complete || len(result.Scores) != 5 || result.Scores[0].Trait != domain.TraitOpenness {
		t.Fatalf("unexpected results: %+v", result)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json content type, got %q", ct)
	}
}

func TestAnswerValidation(t *testing.T) {
	srv := newTestServer(t, nil)
	state := decodeState(t, srv.do(t, http.MethodPost, "/assessment", "", nil))

	for _, body := range []any{gin.H{"value": 0}, gin.H{"value": 6}, gin.H{}} {
		rec := srv.do(t, http.MethodPost, "/assessment/answer", state.Token, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", body, rec.Code)
		}
	}
}

func TestSessionTokenRequired(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/assessment/answer", "", gin.H{"value": 3})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodGet, "/assessment/results", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
	rec = srv.do(t, http.MethodPost, "/report", "", gin.H{"candidate_name": "x"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for report without token, got %d", rec.Code)
	}
}

func TestCompletedAssessmentRejectsMoreAnswers(t *testing.T) {
	srv := newTestServer(t, nil)
	answers := domain.Response{}
	for i := 1; i <= scoring.TotalItems; i++ {
		answers[i] = 2
	}
	token, err := srv.codec.Encode(questionnaire.Session{ID: "done", Step: scoring.TotalItems, Answers: answers})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rec := srv.do(t, http.MethodPost, "/assessment/answer", token, gin.H{"value": 3})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestReportDownload(t *testing.T) {
	srv := newTestServer(t, nil)
	state := decodeState(t, srv.do(t, http.MethodPost, "/assessment", "", nil))

	rec := srv.do(t, http.MethodPost, "/report", state.Token, gin.H{"candidate_name": "Marie"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, report.DownloadName) {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if rec.Header().Get("X-Report-ID") == "" {
		t.Fatal("expected report id header")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Prepared for: Marie") || !strings.Contains(body, "Steady under pressure.") {
		t.Fatalf("unexpected report body")
	}

	rec = srv.do(t, http.MethodPost, "/report", state.Token, gin.H{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without name, got %d", rec.Code)
	}
}

func TestReportRateLimited(t *testing.T) {
	srv := newTestServer(t, service.NewMemoryRateLimiter(time.Minute, 1))
	state := decodeState(t, srv.do(t, http.MethodPost, "/assessment", "", nil))

	if rec := srv.do(t, http.MethodPost, "/report", state.Token, gin.H{"candidate_name": "A"}); rec.Code != http.StatusOK {
		t.Fatalf("expected first report to pass, got %d", rec.Code)
	}
	rec := srv.do(t, http.MethodPost, "/report", state.Token, gin.H{"candidate_name": "A"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if ra, err := strconv.Atoi(rec.Header().Get("Retry-After")); err != nil || ra < 1 || ra > 60 {
		t.Fatalf("expected Retry-After within the window, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.do(t, http.MethodPost, "/assessment", "", nil)

	rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `ocean_report_assessments_total{event="started"} 1`) {
		t.Fatalf("expected started counter in metrics output:\n%s", rec.Body.String())
	}
}
