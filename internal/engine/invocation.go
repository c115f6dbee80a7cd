// Package engine turns filter graphs into ffmpeg command lines and runs them.
package engine

import (
	"strconv"

	"github.com/kartoza/kartoza-reel-renderer/internal/filtergraph"
)

// Encoding holds the output codec parameters shared by every render.
type Encoding struct {
	VideoCodec   string
	Preset       string
	CRF          int
	AudioCodec   string
	AudioBitrate string
	SampleRate   int
	Channels     int
}

// DefaultEncoding returns H.264/AAC settings tuned for fast short-form renders.
func DefaultEncoding() Encoding {
	return Encoding{
		VideoCodec:   "libx264",
		Preset:       "ultrafast",
		CRF:          23,
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		SampleRate:   48000,
		Channels:     2,
	}
}

// Args returns the codec arguments for a re-encoded video and audio output.
func (e Encoding) Args() []string {
	return append(e.videoArgs(), e.audioArgs()...)
}

// CopyVideoArgs keeps the video stream as-is and re-encodes only audio.
func (e Encoding) CopyVideoArgs() []string {
	return append([]string{"-c:v", "copy"}, e.audioArgs()...)
}

// CopyAudioArgs re-encodes video and keeps the audio stream as-is.
func (e Encoding) CopyAudioArgs() []string {
	return append(e.videoArgs(), "-c:a", "copy")
}

func (e Encoding) videoArgs() []string {
	return []string{
		"-c:v", e.VideoCodec,
		"-preset", e.Preset,
		"-crf", strconv.Itoa(e.CRF),
		"-pix_fmt", "yuv420p",
	}
}

func (e Encoding) audioArgs() []string {
	return []string{
		"-c:a", e.AudioCodec,
		"-b:a", e.AudioBitrate,
		"-ar", strconv.Itoa(e.SampleRate),
		"-ac", strconv.Itoa(e.Channels),
	}
}

// Invocation is one ffmpeg run: a graph, its output file and codec settings.
type Invocation struct {
	Graph  *filtergraph.Graph
	Output string

	// Duration caps the output length with -t when positive.
	Duration float64
	// ExpectedDuration is used only to turn progress reports into percentages.
	ExpectedDuration float64

	Codec []string
}

// Args renders the ffmpeg arguments, without the binary name and progress flags.
func (inv Invocation) Args() []string {
	g := inv.Graph
	args := []string{"-y", "-threads", "0"}

	for _, in := range g.Inputs {
		args = append(args, in.Options...)
		args = append(args, "-i", in.Path)
	}

	if inv.Duration > 0 {
		args = append(args, "-t", strconv.FormatFloat(inv.Duration, 'f', -1, 64))
	}

	if len(g.Nodes) > 0 {
		args = append(args, "-filter_complex", g.String())
	}

	if g.StreamCopy {
		args = append(args, "-c", "copy")
	} else {
		for _, out := range []filtergraph.Pad{g.VideoOut, g.AudioOut} {
			if out != "" {
				args = append(args, "-map", out.MapArg())
			}
		}
		args = append(args, inv.Codec...)
		args = append(args, "-movflags", "+faststart")
	}

	return append(args, inv.Output)
}
