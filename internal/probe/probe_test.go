package probe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1080, "height": 1920, "r_frame_rate": "30000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2}
  ],
  "format": {"filename": "clip.mp4", "format_name": "mov,mp4", "duration": "12.480000"}
}`

func TestParseResult(t *testing.T) {
	r, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if r.VideoStreamCount() != 1 || r.AudioStreamCount() != 1 {
		t.Errorf("stream counts = %d/%d", r.VideoStreamCount(), r.AudioStreamCount())
	}
	if r.Width() != 1080 || r.Height() != 1920 {
		t.Errorf("size = %dx%d", r.Width(), r.Height())
	}
	if r.DurationSeconds() != 12.48 {
		t.Errorf("duration = %v", r.DurationSeconds())
	}
	if fps := r.FPS(); fps < 29.97 || fps > 29.98 {
		t.Errorf("fps = %v", fps)
	}
	if r.AspectRatio() != "9:16" {
		t.Errorf("aspect = %s", r.AspectRatio())
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("not json")); !errors.Is(err, ErrProbeUnavailable) {
		t.Errorf("expected ErrProbeUnavailable, got %v", err)
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	r := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "3.5"}, {CodecType: "video", Duration: "4.25"}},
		Format:  Format{Duration: "N/A"},
	}
	if got := r.DurationSeconds(); got != 4.25 {
		t.Errorf("DurationSeconds = %v, want 4.25", got)
	}
}

func TestAspectRatioUnknown(t *testing.T) {
	if got := aspectRatio(0, 1080); got != "unknown" {
		t.Errorf("aspectRatio = %s", got)
	}
	if got := aspectRatio(1920, 1080); got != "16:9" {
		t.Errorf("aspectRatio = %s", got)
	}
}

func newFake(result Result, err error, logs *bytes.Buffer) *FFprobe {
	p := New("ffprobe", slog.New(slog.NewTextHandler(logs, nil)))
	p.inspect = func(context.Context, string, string) (Result, error) {
		return result, err
	}
	return p
}

func TestProberFallbacks(t *testing.T) {
	var logs bytes.Buffer
	p := newFake(Result{}, ErrProbeUnavailable, &logs)
	ctx := context.Background()

	if p.HasAudio(ctx, "missing.mp4") {
		t.Error("expected HasAudio fallback false")
	}
	if d := p.Duration(ctx, "missing.mp4"); d != DefaultDuration {
		t.Errorf("Duration fallback = %v, want %v", d, DefaultDuration)
	}
	if !strings.Contains(logs.String(), "probe failed") {
		t.Errorf("expected warning to be logged, got %q", logs.String())
	}
}

func TestProberZeroDurationFallsBack(t *testing.T) {
	var logs bytes.Buffer
	p := newFake(Result{Streams: []Stream{{CodecType: "video"}}}, nil, &logs)
	if d := p.Duration(context.Background(), "still.png"); d != DefaultDuration {
		t.Errorf("Duration = %v, want %v", d, DefaultDuration)
	}
}

func TestProberSuccess(t *testing.T) {
	r, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	p := newFake(r, nil, &logs)
	ctx := context.Background()

	if !p.HasAudio(ctx, "clip.mp4") {
		t.Error("expected audio")
	}
	if d := p.Duration(ctx, "clip.mp4"); d != 12.48 {
		t.Errorf("Duration = %v", d)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %s", logs.String())
	}
}

func TestInspectEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", "  "); !errors.Is(err, ErrProbeUnavailable) {
		t.Errorf("expected ErrProbeUnavailable, got %v", err)
	}
}
