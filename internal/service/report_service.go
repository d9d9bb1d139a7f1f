package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ocean-report/internal/domain"
	"ocean-report/internal/media"
	"ocean-report/internal/metrics"
	"ocean-report/internal/narrative"
	"ocean-report/internal/plot"
	"ocean-report/internal/report"
	"ocean-report/internal/sampler"
	"ocean-report/internal/scoring"
)

var (
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidReportInput = errors.New("report request invalid")
)

// RateLimitError wraps ErrRateLimited with the wait until the next allowed report.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// Narrator writes the narrative for a set of scores. Failures come back as text.
type Narrator interface {
	Generate(ctx context.Context, scores domain.TraitScore) string
}

// MediaConfig locates the recorded session and the tools used to read it.
type MediaConfig struct {
	ValencePath string
	ArousalPath string
	VideoPath   string
	Prober      media.Prober
	Extractor   *media.FrameExtractor
}

// ReportRequest is one report run. SessionID is the rate-limit key; it may be empty
// when no limiter is configured.
type ReportRequest struct {
	SessionID     string
	CandidateName string
	Responses     domain.Response
}

// ReportService runs the whole report pipeline in a single sequential pass.
type ReportService struct {
	key      domain.ScoringKey
	narrator Narrator
	media    MediaConfig
	limiter  RateLimiter
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
	sampler  *sampler.Sampler
}

func NewReportService(key domain.ScoringKey, narrator Narrator, mediaCfg MediaConfig, smp *sampler.Sampler, limiter RateLimiter, m *metrics.Metrics, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == nil {
		key = scoring.DefaultKey()
	}
	if smp == nil {
		smp = sampler.NewSampler(sampler.DefaultCount, nil, logger)
	}
	return &ReportService{
		key:      key,
		narrator: narrator,
		media:    mediaCfg,
		limiter:  limiter,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		sampler:  smp,
	}
}

// Generate scores the responses and assembles the HTML report. Media and narrative
// problems degrade to placeholders and error text; only rate limiting, bad input and
// a failed render are returned as errors.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (domain.ReportArtifact, error) {
	name := strings.TrimSpace(req.CandidateName)
	if name == "" {
		return domain.ReportArtifact{}, fmt.Errorf("%w: candidate name is required", ErrInvalidReportInput)
	}
	if s.limiter != nil {
		decision := s.limiter.Allow(ctx, req.SessionID)
		if !decision.Allowed {
			s.metrics.RateLimited()
			s.logger.Warn("report rate limited",
				zap.String("session_id", req.SessionID),
				zap.Duration("retry_after", decision.RetryAfter),
			)
			return domain.ReportArtifact{}, &RateLimitError{RetryAfter: decision.RetryAfter}
		}
	}

	id := uuid.NewString()
	logger := s.logger.With(zap.String("report_id", id), zap.String("session_id", req.SessionID))
	started := s.now()

	artifact, err := s.run(ctx, logger, id, name, req.Responses)
	s.metrics.ReportFinished(err)
	if err != nil {
		logger.Error("report generation failed", zap.Error(err))
		return domain.ReportArtifact{}, err
	}
	logger.Info("report generated",
		zap.Int("html_bytes", len(artifact.HTML)),
		zap.Duration("elapsed", s.now().Sub(started)),
	)
	return artifact, nil
}

func (s *ReportService) run(ctx context.Context, logger *zap.Logger, id, name string, responses domain.Response) (domain.ReportArtifact, error) {
	stage := time.Now()
	scores := scoring.Score(responses, s.key)
	if missing := scoring.MissingItems(responses, scoring.TotalItems); len(missing) > 0 {
		logger.Warn("unanswered items scored as neutral",
			zap.Int("missing", len(missing)),
			zap.Ints("items", missing),
		)
	}
	s.metrics.ObserveStage(metrics.StageScore, time.Since(stage))

	stage = time.Now()
	text := s.narrate(ctx, scores)
	if strings.HasPrefix(text, narrative.ErrorPrefix) {
		s.metrics.NarrativeFailed()
	}
	s.metrics.ObserveStage(metrics.StageNarrative, time.Since(stage))

	snapshots := s.snapshots(ctx, logger)

	stage = time.Now()
	html, err := report.Compose(name, scores, text, snapshots)
	s.metrics.ObserveStage(metrics.StageCompose, time.Since(stage))
	if err != nil {
		return domain.ReportArtifact{}, fmt.Errorf("compose report: %w", err)
	}
	return domain.ReportArtifact{
		ID:            id,
		CandidateName: name,
		HTML:          html,
		CreatedAt:     s.now(),
	}, nil
}

func (s *ReportService) narrate(ctx context.Context, scores domain.TraitScore) string {
	if s.narrator == nil {
		return narrative.ErrorPrefix + "narrative generator not configured"
	}
	return s.narrator.Generate(ctx, scores)
}

// snapshots samples the recorded session. Any media error leaves the affected images
// nil; missing series yield no snapshots at all.
func (s *ReportService) snapshots(ctx context.Context, logger *zap.Logger) []domain.AffectSample {
	stage := time.Now()
	valence, err := media.LoadSeries(s.media.ValencePath)
	if err != nil {
		logger.Warn("valence series unavailable", zap.Error(err))
		return nil
	}
	arousal, err := media.LoadSeries(s.media.ArousalPath)
	if err != nil {
		logger.Warn("arousal series unavailable", zap.Error(err))
		return nil
	}
	if len(valence) != len(arousal) {
		logger.Warn("series lengths differ, using the shorter",
			zap.Int("valence", len(valence)),
			zap.Int("arousal", len(arousal)),
		)
	}
	n := min(len(valence), len(arousal))

	var frames sampler.FrameSource
	var duration float64
	video, err := media.OpenVideo(ctx, s.media.Prober, s.media.Extractor, s.media.VideoPath)
	if err != nil {
		logger.Warn("video unavailable, frames will be placeholders", zap.Error(err))
		frames = media.Unavailable{Err: err}
	} else {
		frames = video
		duration = video.Duration
		if video.Frames > 0 && video.Frames != n {
			logger.Warn("series length does not match video frame count, timestamps are approximate",
				zap.Int("series", n),
				zap.Int("frames", video.Frames),
			)
		}
	}
	s.metrics.ObserveStage(metrics.StageMedia, time.Since(stage))

	stage = time.Now()
	samples := s.sampler.Sample(ctx, valence, arousal, duration, frames)
	s.metrics.ObserveStage(metrics.StageSample, time.Since(stage))

	stage = time.Now()
	for i := range samples {
		img, err := plot.RenderState(valence, arousal, samples[i].Index)
		if err != nil {
			logger.Warn("state plot failed", zap.Int("index", samples[i].Index), zap.Error(err))
		} else {
			samples[i].StatePlot = img
		}
		if samples[i].Frame == nil {
			s.metrics.Placeholder("frame")
		}
		if samples[i].ThermalFrame == nil {
			s.metrics.Placeholder("thermal")
		}
		if samples[i].StatePlot == nil {
			s.metrics.Placeholder("plot")
		}
	}
	s.metrics.ObserveStage(metrics.StagePlot, time.Since(stage))
	logger.Info("snapshots sampled", zap.Int("count", len(samples)), zap.Int("series_length", n))
	return samples
}
