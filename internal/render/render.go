// Package render orchestrates caption, merge, concat, overlay and music
// renders. Every operation validates its input, probes its sources and builds
// its filter graphs before touching the file system. Graphs that embed a temp
// file path are built once with a placeholder to check their shape. Only then
// is a job recorded, temp files written and the output locked.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kartoza/kartoza-reel-renderer/internal/config"
	"github.com/kartoza/kartoza-reel-renderer/internal/engine"
	"github.com/kartoza/kartoza-reel-renderer/internal/filtergraph"
	"github.com/kartoza/kartoza-reel-renderer/internal/history"
	"github.com/kartoza/kartoza-reel-renderer/internal/logging"
	"github.com/kartoza/kartoza-reel-renderer/internal/probe"
)

var (
	// ErrNoInputs is returned by Concat and Scenes when there is nothing to join.
	ErrNoInputs = errors.New("no inputs")
	// ErrMissingOutput is returned when a request has no output path.
	ErrMissingOutput = errors.New("output path is required")
)

// Notifier is told about finished renders.
type Notifier interface {
	RenderComplete(kind, output string) error
	RenderFailed(kind string, cause error) error
}

// Result describes a finished render.
type Result struct {
	Output string
	JobID  string
}

// Renderer runs render operations against one configuration.
type Renderer struct {
	cfg      config.Config
	prober   probe.Prober
	exec     engine.Executor
	history  *history.Store
	notifier Notifier
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHistory records every render in the job history.
func WithHistory(store *history.Store) Option {
	return func(r *Renderer) { r.history = store }
}

// WithNotifier sends a notification when a render finishes.
func WithNotifier(n Notifier) Option {
	return func(r *Renderer) { r.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// New returns a Renderer. The configuration is copied.
func New(cfg config.Config, prober probe.Prober, exec engine.Executor, opts ...Option) *Renderer {
	r := &Renderer{
		cfg:    cfg,
		prober: prober,
		exec:   exec,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) encoding() engine.Encoding {
	e := r.cfg.Encoding
	return engine.Encoding{
		VideoCodec:   e.VideoCodec,
		Preset:       e.Preset,
		CRF:          e.CRF,
		AudioCodec:   e.AudioCodec,
		AudioBitrate: e.AudioBitrate,
		SampleRate:   e.SampleRate,
		Channels:     e.Channels,
	}
}

// track wraps one user-visible render with job history and notifications.
// History and notification failures are logged and never fail the render.
func (r *Renderer) track(ctx context.Context, kind history.Kind, output string, fn func(context.Context) error) (Result, error) {
	result := Result{Output: output}
	logger := r.logger.With(slog.String("kind", string(kind)), slog.String("output", output))

	var job *history.Job
	if r.history != nil {
		var err error
		job, err = r.history.Create(ctx, kind, output)
		if err != nil {
			logger.Warn("failed to record job", slog.String("error", err.Error()))
		} else {
			result.JobID = job.ID
			logger = logger.With(slog.String("job_id", job.ID))
			if err := r.history.MarkRunning(ctx, job.ID); err != nil {
				logger.Warn("failed to mark job running", slog.String("error", err.Error()))
			}
		}
	}

	logger.Info("render started")
	runErr := fn(ctx)

	if job != nil {
		// The render context may already be cancelled; the outcome is still recorded.
		recordCtx := context.WithoutCancel(ctx)
		var err error
		if runErr != nil {
			err = r.history.MarkFailed(recordCtx, job.ID, runErr)
		} else {
			err = r.history.MarkSucceeded(recordCtx, job.ID)
		}
		if err != nil {
			logger.Warn("failed to record job outcome", slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		logger.Error("render failed", slog.String("error", runErr.Error()))
	} else {
		logger.Info("render finished")
	}
	r.notify(kind, output, runErr, logger)
	return result, runErr
}

func (r *Renderer) notify(kind history.Kind, output string, runErr error, logger *slog.Logger) {
	if r.notifier == nil {
		return
	}
	var err error
	if runErr != nil {
		err = r.notifier.RenderFailed(kind.Label(), runErr)
	} else {
		err = r.notifier.RenderComplete(kind.Label(), output)
	}
	if err != nil {
		logger.Debug("notification not sent", slog.String("error", err.Error()))
	}
}

// execute locks the output and runs the engine once.
func (r *Renderer) execute(ctx context.Context, inv engine.Invocation) error {
	lock, err := engine.LockOutput(inv.Output)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("failed to release output lock",
				slog.String("lock", lock.Path()),
				slog.String("error", err.Error()))
		}
	}()
	return r.exec.Run(ctx, inv)
}

func (r *Renderer) workDir() string {
	if r.cfg.Paths.WorkDir != "" {
		return r.cfg.Paths.WorkDir
	}
	return os.TempDir()
}

func requireOutput(output string) error {
	if output == "" {
		return ErrMissingOutput
	}
	return nil
}

func mergeSize(cfg config.Config) filtergraph.Size {
	return filtergraph.Size{Width: cfg.Merge.Width, Height: cfg.Merge.Height}
}

func overlaySize(cfg config.Config) filtergraph.Size {
	return filtergraph.Size{Width: cfg.Overlay.Width, Height: cfg.Overlay.Height}
}

func ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
