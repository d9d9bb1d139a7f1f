package domain

import (
	"fmt"
	"image"
	"math"
	"time"
)

// AffectSample is one point of the emotional timeline, paired with the video frame
// shown at that moment. A nil image means the frame could not be produced.
type AffectSample struct {
	Index        int
	Timestamp    float64 // seconds into the video
	Valence      float64
	Arousal      float64
	Frame        image.Image
	ThermalFrame image.Image
	StatePlot    image.Image
}

// Clock renders the sample timestamp as m:ss.
func (s AffectSample) Clock() string {
	return FormatClock(s.Timestamp)
}

// FormatClock renders seconds as m:ss, truncating fractions.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ReportArtifact is the self-contained HTML produced by one report run.
type ReportArtifact struct {
	ID            string    `json:"id"`
	CandidateName string    `json:"candidate_name"`
	HTML          string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
