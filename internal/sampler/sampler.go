// Package sampler picks moments from the valence/arousal timeline and pulls the
// matching video frames.
package sampler

import (
	"context"
	"image"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"ocean-report/internal/domain"
	"ocean-report/internal/media"
)

const (
	DefaultCount = 10
	FrameWidth   = 480
	FrameHeight  = 360
)

// FrameSource returns the video frame shown at ts seconds.
type FrameSource interface {
	Frame(ctx context.Context, ts float64) (image.Image, error)
}

// NewRand returns a PCG-backed generator. A zero seed draws one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SelectIndices draws count distinct indices from [0, n) and returns them sorted.
func SelectIndices(n, count int, rng *rand.Rand) []int {
	if n <= 0 || count <= 0 {
		return []int{}
	}
	if count > n {
		count = n
	}
	if rng == nil {
		rng = NewRand(0)
	}
	picked := rng.Perm(n)[:count]
	out := make([]int, count)
	copy(out, picked)
	slices.Sort(out)
	return out
}

// Timestamp maps series index i onto the video timeline, assuming the series is
// spread uniformly over the full duration.
func Timestamp(i, n int, duration float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(i) / float64(n) * duration
}

// Sampler builds the snapshot list for a report. Only index selection is serialized;
// frames for concurrent reports are extracted in parallel.
type Sampler struct {
	count  int
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSampler(count int, rng *rand.Rand, logger *zap.Logger) *Sampler {
	if count <= 0 {
		count = DefaultCount
	}
	if rng == nil {
		rng = NewRand(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{count: count, rng: rng, logger: logger}
}

// Sample returns up to count snapshots in chronological order. Frames that cannot be
// produced are left nil; the run is never aborted for a media error.
func (s *Sampler) Sample(ctx context.Context, valence, arousal []float64, duration float64, frames FrameSource) []domain.AffectSample {
	n := min(len(valence), len(arousal))
	indices := s.pick(n)
	samples := make([]domain.AffectSample, 0, len(indices))

	for _, i := range indices {
		sample := domain.AffectSample{
			Index:     i,
			Timestamp: Timestamp(i, n, duration),
			Valence:   valence[i],
			Arousal:   arousal[i],
		}
		if frames != nil {
			frame, err := frames.Frame(ctx, sample.Timestamp)
			if err != nil {
				s.logger.Warn("frame unavailable",
					zap.Int("index", i),
					zap.Float64("timestamp", sample.Timestamp),
					zap.Error(err),
				)
			} else if frame != nil {
				fitted := media.Fit(frame, FrameWidth, FrameHeight)
				sample.ThermalFrame = media.Thermal(fitted)
				sample.Frame = media.Caption(fitted, sample.Clock())
			}
		}
		samples = append(samples, sample)
	}
	return samples
}

func (s *Sampler) pick(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectIndices(n, s.count, s.rng)
}
