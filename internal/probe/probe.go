// Package probe reads media metadata with ffprobe.
//
// Probing is advisory: the Prober methods never fail. When ffprobe is missing
// or the file cannot be read, a warning is logged and a fallback is returned
// (DefaultDuration, no audio).
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultDuration is the duration assumed when probing fails.
const DefaultDuration = 5.0

// ErrProbeUnavailable wraps every probe failure. It is recovered locally.
var ErrProbeUnavailable = errors.New("probe unavailable")

// Prober answers the two questions renders depend on.
type Prober interface {
	HasAudio(ctx context.Context, path string) bool
	Duration(ctx context.Context, path string) float64
}

// Result is the parsed ffprobe JSON output.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream in the container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Duration   string `json:"duration"`
}

// Format is container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// Parse decodes ffprobe -of json output.
func Parse(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("%w: parse ffprobe output: %v", ErrProbeUnavailable, err)
	}
	return r, nil
}

// Inspect runs ffprobe on path.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, fmt.Errorf("%w: empty path", ErrProbeUnavailable)
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return Result{}, fmt.Errorf("%w: ffprobe %s: %v %s", ErrProbeUnavailable, path, err, stderr)
	}
	return Parse(output)
}

func (r Result) countType(codecType string) int {
	count := 0
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, codecType) {
			count++
		}
	}
	return count
}

// VideoStreamCount returns the number of video streams.
func (r Result) VideoStreamCount() int { return r.countType("video") }

// AudioStreamCount returns the number of audio streams.
func (r Result) AudioStreamCount() int { return r.countType("audio") }

func (r Result) firstVideo() (Stream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "video") {
			return s, true
		}
	}
	return Stream{}, false
}

// Width of the first video stream, or 0.
func (r Result) Width() int {
	s, _ := r.firstVideo()
	return s.Width
}

// Height of the first video stream, or 0.
func (r Result) Height() int {
	s, _ := r.firstVideo()
	return s.Height
}

// FPS parses the "num/den" frame rate of the first video stream.
func (r Result) FPS() float64 {
	s, ok := r.firstVideo()
	if !ok {
		return 0
	}
	num, den, found := strings.Cut(s.RFrameRate, "/")
	if !found {
		return parseFloat(num)
	}
	n, d := parseFloat(num), parseFloat(den)
	if d == 0 || math.IsNaN(n) || math.IsNaN(d) {
		return 0
	}
	return n / d
}

// DurationSeconds returns the container duration, falling back to the
// longest stream duration. Returns 0 when neither is known.
func (r Result) DurationSeconds() float64 {
	if d := parseFloat(r.Format.Duration); d > 0 {
		return d
	}
	longest := 0.0
	for _, s := range r.Streams {
		if d := parseFloat(s.Duration); d > longest {
			longest = d
		}
	}
	return longest
}

// AspectRatio returns a human readable ratio such as "9:16".
func (r Result) AspectRatio() string {
	return aspectRatio(r.Width(), r.Height())
}

func aspectRatio(width, height int) string {
	if width == 0 || height == 0 {
		return "unknown"
	}
	gcd := func(a, b int) int {
		for b != 0 {
			a, b = b, a%b
		}
		return a
	}
	g := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/g, height/g)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || cleaned == "N/A" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

// FFprobe is the ffprobe-backed Prober.
type FFprobe struct {
	Binary string
	Logger *slog.Logger

	inspect func(ctx context.Context, binary, path string) (Result, error)
}

// New returns an FFprobe using the given binary.
func New(binary string, logger *slog.Logger) *FFprobe {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FFprobe{Binary: binary, Logger: logger, inspect: Inspect}
}

// Inspect runs ffprobe and returns the raw result, without fallbacks.
func (p *FFprobe) Inspect(ctx context.Context, path string) (Result, error) {
	if p.inspect == nil {
		return Inspect(ctx, p.Binary, path)
	}
	return p.inspect(ctx, p.Binary, path)
}

// HasAudio reports whether path has at least one audio stream, false on failure.
func (p *FFprobe) HasAudio(ctx context.Context, path string) bool {
	r, err := p.Inspect(ctx, path)
	if err != nil {
		p.warn("audio presence", path, err, "false")
		return false
	}
	return r.AudioStreamCount() > 0
}

// Duration returns the media duration in seconds, DefaultDuration on failure.
func (p *FFprobe) Duration(ctx context.Context, path string) float64 {
	r, err := p.Inspect(ctx, path)
	if err != nil {
		p.warn("duration", path, err, strconv.FormatFloat(DefaultDuration, 'f', -1, 64))
		return DefaultDuration
	}
	d := r.DurationSeconds()
	if d <= 0 || math.IsNaN(d) {
		p.warn("duration", path, fmt.Errorf("%w: no duration reported", ErrProbeUnavailable),
			strconv.FormatFloat(DefaultDuration, 'f', -1, 64))
		return DefaultDuration
	}
	return d
}

func (p *FFprobe) warn(what, path string, err error, fallback string) {
	if p.Logger == nil {
		return
	}
	p.Logger.Warn("probe failed, using fallback",
		slog.String("probe", what),
		slog.String("path", path),
		slog.String("fallback", fallback),
		slog.String("error", err.Error()))
}
