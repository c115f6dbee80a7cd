package render

import (
	"context"
	"fmt"
	"os"

	"github.com/kartoza/kartoza-reel-renderer/internal/captions"
	"github.com/kartoza/kartoza-reel-renderer/internal/engine"
	"github.com/kartoza/kartoza-reel-renderer/internal/filtergraph"
	"github.com/kartoza/kartoza-reel-renderer/internal/history"
	"github.com/kartoza/kartoza-reel-renderer/internal/style"
)

// CaptionsRequest writes a subtitle document without rendering video.
type CaptionsRequest struct {
	Segments []captions.Segment
	Output   string
	// MaxWords overrides the configured words per caption when positive.
	MaxWords int
}

// Captions subdivides the segments and writes the SRT document to Output.
func (r *Renderer) Captions(ctx context.Context, req CaptionsRequest) (Result, error) {
	if err := requireOutput(req.Output); err != nil {
		return Result{}, err
	}
	maxWords := req.MaxWords
	if maxWords <= 0 {
		maxWords = r.cfg.Captions.MaxWordsPerLine
	}
	doc, err := captions.SRT(req.Segments, maxWords)
	if err != nil {
		return Result{}, err
	}

	return r.track(ctx, history.KindCaptions, req.Output, func(context.Context) error {
		if err := ensureParent(req.Output); err != nil {
			return err
		}
		if err := os.WriteFile(req.Output, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write captions: %w", err)
		}
		return nil
	})
}

// BurnRequest renders captions onto a video.
type BurnRequest struct {
	Video    string
	Output   string
	Segments []captions.Segment
	// Style overrides the configured caption style when set.
	Style *style.Settings
}

// BurnCaptions writes the segments to a scoped SRT file and burns it in with
// the configured style. Audio is copied through unchanged.
func (r *Renderer) BurnCaptions(ctx context.Context, req BurnRequest) (Result, error) {
	if err := requireOutput(req.Output); err != nil {
		return Result{}, err
	}
	settings := r.cfg.Captions
	if req.Style != nil {
		settings = *req.Style
	}
	forceStyle, err := settings.ForceStyle()
	if err != nil {
		return Result{}, err
	}
	doc, err := captions.SRT(req.Segments, settings.MaxWordsPerLine)
	if err != nil {
		return Result{}, err
	}
	// Validates the graph shape before any file is written.
	if _, err := filtergraph.BurnCaptions(req.Video, "captions.srt", forceStyle); err != nil {
		return Result{}, err
	}

	return r.track(ctx, history.KindBurn, req.Output, func(ctx context.Context) error {
		return engine.WithTempFile(r.workDir(), "captions-*.srt", doc, r.logger, func(srtPath string) error {
			graph, err := filtergraph.BurnCaptions(req.Video, srtPath, forceStyle)
			if err != nil {
				return err
			}
			duration := r.prober.Duration(ctx, req.Video)
			return r.execute(ctx, engine.Invocation{
				Graph:            graph,
				Output:           req.Output,
				ExpectedDuration: duration,
				Codec:            r.encoding().CopyAudioArgs(),
			})
		})
	})
}
