package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FrameExtractor decodes single frames with an ffmpeg binary. Each call runs and
// waits on its own process, so nothing stays open between frames.
type FrameExtractor struct {
	Binary string
}

// Extract decodes the frame shown at seconds as PNG-compatible image data.
func (e *FrameExtractor) Extract(ctx context.Context, path string, seconds float64) (image.Image, error) {
	bin := e.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg seek %.3fs: %w: %s", seconds, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg seek %.3fs: no frame decoded", seconds)
	}
	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode frame at %.3fs: %w", seconds, err)
	}
	return img, nil
}

// SeekSeconds snaps ts to the first frame boundary at or after it.
func SeekSeconds(ts, fps float64) float64 {
	if fps <= 0 {
		fps = DefaultFPS
	}
	// tolerate float noise so exact frame times are not pushed one frame forward
	idx := math.Ceil(fps*ts - 1e-6)
	if idx < 0 {
		idx = 0
	}
	return idx / fps
}

// Video is an opened (probed) recording that can serve frames by timestamp.
type Video struct {
	Path      string
	FPS       float64
	Duration  float64
	Frames    int
	extractor *FrameExtractor
}

// OpenVideo probes path and prepares frame extraction.
func OpenVideo(ctx context.Context, prober Prober, extractor *FrameExtractor, path string) (*Video, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	if prober == nil || extractor == nil {
		return nil, errors.New("open video: media tools not configured")
	}
	info, err := prober.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Video{
		Path:      path,
		FPS:       info.FPS(),
		Duration:  info.DurationSeconds(),
		Frames:    info.VideoStreams[0].FrameCount,
		extractor: extractor,
	}, nil
}

// Frame returns the frame at ts seconds, seeking on frame boundaries.
func (v *Video) Frame(ctx context.Context, ts float64) (image.Image, error) {
	return v.extractor.Extract(ctx, v.Path, v.seek(ts))
}

// seek is SeekSeconds held to the start of the last frame, so timestamps near the end
// of the recording still land on a decodable frame.
func (v *Video) seek(ts float64) float64 {
	fps := v.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	at := SeekSeconds(ts, fps)
	last := -1.0
	switch {
	case v.Frames > 0:
		last = float64(v.Frames-1) / fps
	case v.Duration > 0:
		last = math.Max(0, math.Ceil(v.Duration*fps-1e-6)-1) / fps
	}
	if last >= 0 && at > last {
		return last
	}
	return at
}

// Unavailable stands in for a video that could not be opened; every frame request
// fails with the original error.
type Unavailable struct {
	Err error
}

func (u Unavailable) Frame(context.Context, float64) (image.Image, error) {
	if u.Err == nil {
		return nil, errors.New("video unavailable")
	}
	return nil, u.Err
}
