// Package media reads the recorded session: the video through ffprobe/ffmpeg and the
// valence/arousal series from NumPy files.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultFPS is assumed when a video does not report a usable frame rate.
const DefaultFPS = 30.0

var ErrNoVideoStreams = errors.New("no video streams found")

// VideoStream describes the first-class properties of a decoded stream.
type VideoStream struct {
	CodecName   string
	Width       int
	Height      int
	PixelFormat string
	FrameRate   float64
	FrameCount  int
}

// ProbeResult is the subset of ffprobe output the report pipeline relies on.
type ProbeResult struct {
	VideoStreams []VideoStream
	Duration     time.Duration
}

// Prober inspects a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (ProbeResult, error)
}

// LocalProber shells out to an ffprobe binary on this host.
type LocalProber struct {
	Binary string
}

func (p *LocalProber) Probe(ctx context.Context, path string) (ProbeResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ProbeResult{}, errors.New("probe: empty path")
	}
	bin := p.Binary
	if bin == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return parseProbeOutput(stdout.Bytes())
}

type probePayload struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		PixFmt       string `json:"pix_fmt"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(payload []byte) (ProbeResult, error) {
	var raw probePayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ProbeResult{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	var result ProbeResult
	for _, s := range raw.Streams {
		if s.CodecType != "video" {
			continue
		}
		rate := parseRate(s.AvgFrameRate)
		if rate <= 0 {
			rate = parseRate(s.RFrameRate)
		}
		frames, _ := strconv.Atoi(strings.TrimSpace(s.NbFrames))
		result.VideoStreams = append(result.VideoStreams, VideoStream{
			CodecName:   s.CodecName,
			Width:       s.Width,
			Height:      s.Height,
			PixelFormat: s.PixFmt,
			FrameRate:   rate,
			FrameCount:  frames,
		})
	}
	if len(result.VideoStreams) == 0 {
		return ProbeResult{}, ErrNoVideoStreams
	}
	if secs, err := strconv.ParseFloat(strings.TrimSpace(raw.Format.Duration), 64); err == nil && secs > 0 {
		result.Duration = time.Duration(secs * float64(time.Second))
	}
	return result, nil
}

// parseRate reads ffprobe rationals such as "30000/1001"; "0/0" yields 0.
func parseRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// FPS returns the first stream's frame rate, or DefaultFPS if unreported.
func (r ProbeResult) FPS() float64 {
	if len(r.VideoStreams) == 0 || r.VideoStreams[0].FrameRate <= 0 {
		return DefaultFPS
	}
	return r.VideoStreams[0].FrameRate
}

// DurationSeconds is frame count over frame rate when the container reports a frame
// count, otherwise the container duration.
func (r ProbeResult) DurationSeconds() float64 {
	if len(r.VideoStreams) > 0 && r.VideoStreams[0].FrameCount > 0 {
		return float64(r.VideoStreams[0].FrameCount) / r.FPS()
	}
	return r.Duration.Seconds()
}
