package render

import (
	"context"

	"github.com/kartoza/kartoza-reel-renderer/internal/engine"
	"github.com/kartoza/kartoza-reel-renderer/internal/filtergraph"
	"github.com/kartoza/kartoza-reel-renderer/internal/history"
)

// MergeRequest combines a video with a narration track.
type MergeRequest struct {
	Video  string
	Audio  string
	Output string
	// Duration of the output; 0 uses the configured duration, then the
	// probed length of the narration.
	Duration float64
	// ResizeMode overrides the configured cover/contain mode when set.
	ResizeMode string
}

// MergeAudio fits the video to the configured frame and mixes in the narration.
func (r *Renderer) MergeAudio(ctx context.Context, req MergeRequest) (Result, error) {
	if err := requireOutput(req.Output); err != nil {
		return Result{}, err
	}
	mode, err := r.resizeMode(req.ResizeMode)
	if err != nil {
		return Result{}, err
	}
	plan, err := r.planMerge(ctx, req, mode)
	if err != nil {
		return Result{}, err
	}
	return r.track(ctx, history.KindMerge, req.Output, func(ctx context.Context) error {
		return r.runMerge(ctx, plan, req.Output)
	})
}

func (r *Renderer) resizeMode(override string) (filtergraph.ResizeMode, error) {
	if override != "" {
		return filtergraph.ParseResizeMode(override)
	}
	return filtergraph.ParseResizeMode(r.cfg.Merge.ResizeMode)
}

// mergePlan is a built merge graph and the duration it is cut to.
type mergePlan struct {
	graph    *filtergraph.Graph
	duration float64
}

// planMerge probes the inputs and builds the merge graph. It writes nothing.
func (r *Renderer) planMerge(ctx context.Context, req MergeRequest, mode filtergraph.ResizeMode) (mergePlan, error) {
	duration := req.Duration
	if duration == 0 {
		duration = r.cfg.Merge.Duration
	}
	if duration == 0 {
		duration = r.prober.Duration(ctx, req.Audio)
	}

	graph, err := filtergraph.MergeAudio(filtergraph.MergeOptions{
		Video:         req.Video,
		Audio:         req.Audio,
		VideoHasAudio: r.prober.HasAudio(ctx, req.Video),
		Duration:      duration,
		Size:          mergeSize(r.cfg),
		Mode:          mode,
		VideoVolume:   r.cfg.Merge.VideoVolume,
		AudioVolume:   r.cfg.Merge.VoiceoverVolume,
	})
	if err != nil {
		return mergePlan{}, err
	}
	return mergePlan{graph: graph, duration: duration}, nil
}

func (r *Renderer) runMerge(ctx context.Context, plan mergePlan, output string) error {
	return r.execute(ctx, engine.Invocation{
		Graph:            plan.graph,
		Output:           output,
		Duration:         plan.duration,
		ExpectedDuration: plan.duration,
		Codec:            r.encoding().Args(),
	})
}

// MusicRequest lays a background music bed under a video.
type MusicRequest struct {
	Video  string
	Music  string
	Output string
	// Volume overrides the configured music volume when positive.
	Volume float64
}

// AddMusic loops loudness-normalized music under the video's own audio for
// the full length of the video. The video stream is copied.
func (r *Renderer) AddMusic(ctx context.Context, req MusicRequest) (Result, error) {
	if err := requireOutput(req.Output); err != nil {
		return Result{}, err
	}
	volume := r.cfg.Music.MusicVolume
	if req.Volume > 0 {
		volume = req.Volume
	}
	duration := r.prober.Duration(ctx, req.Video)

	graph, err := filtergraph.BackgroundMusic(filtergraph.MusicOptions{
		Video:         req.Video,
		Music:         req.Music,
		VideoHasAudio: r.prober.HasAudio(ctx, req.Video),
		Duration:      duration,
		MusicVolume:   volume,
		VideoVolume:   r.cfg.Music.VideoVolume,
		Loudness: filtergraph.Loudness{
			Integrated: r.cfg.Music.TargetLoudness,
			TruePeak:   r.cfg.Music.TruePeak,
			Range:      r.cfg.Music.LoudnessRange,
		},
	})
	if err != nil {
		return Result{}, err
	}

	return r.track(ctx, history.KindMusic, req.Output, func(ctx context.Context) error {
		return r.execute(ctx, engine.Invocation{
			Graph:            graph,
			Output:           req.Output,
			ExpectedDuration: duration,
			Codec:            r.encoding().CopyVideoArgs(),
		})
	})
}
