package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kartoza/kartoza-reel-renderer/internal/history"
)

// Scene is one clip with its voiceover.
type Scene struct {
	Video string `json:"video"`
	Audio string `json:"audio"`
	// Duration overrides the narration length when positive.
	Duration float64 `json:"duration,omitempty"`
}

// ScenesRequest merges every scene with its voiceover and joins the results.
type ScenesRequest struct {
	Scenes []Scene
	Output string
}

// Scenes merges scenes independently, up to render.max_parallel at a time,
// then concatenates the parts in scene order. Every merge graph is built
// before the job is recorded; the scratch directory holding the parts is
// removed afterwards.
func (r *Renderer) Scenes(ctx context.Context, req ScenesRequest) (Result, error) {
	if err := requireOutput(req.Output); err != nil {
		return Result{}, err
	}
	if len(req.Scenes) == 0 {
		return Result{}, ErrNoInputs
	}
	mode, err := r.resizeMode("")
	if err != nil {
		return Result{}, err
	}

	plans := make([]mergePlan, len(req.Scenes))
	for i, scene := range req.Scenes {
		plans[i], err = r.planMerge(ctx, MergeRequest{
			Video:    scene.Video,
			Audio:    scene.Audio,
			Duration: scene.Duration,
		}, mode)
		if err != nil {
			return Result{}, fmt.Errorf("scene %d: %w", i+1, err)
		}
	}

	scratch := filepath.Join(r.workDir(), "scenes-"+uuid.NewString())
	return r.track(ctx, history.KindScenes, req.Output, func(ctx context.Context) error {
		if err := os.MkdirAll(scratch, 0o755); err != nil {
			return fmt.Errorf("create scratch dir: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(scratch); err != nil {
				r.logger.Warn("failed to remove scratch dir",
					slog.String("path", scratch),
					slog.String("error", err.Error()))
			}
		}()

		parts := make([]string, len(plans))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(r.cfg.Render.MaxParallel, 1))
		for i, plan := range plans {
			parts[i] = filepath.Join(scratch, fmt.Sprintf("scene-%03d.mp4", i+1))
			g.Go(func() error {
				if err := r.runMerge(gctx, plan, parts[i]); err != nil {
					return fmt.Errorf("scene %d: %w", i+1, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		return r.concat(ctx, ConcatRequest{Inputs: parts, Output: req.Output})
	})
}
