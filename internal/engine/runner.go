package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrRenderFailed is matched by every error returned from a failed ffmpeg run.
var ErrRenderFailed = errors.New("render failed")

// stderrTailLines bounds the diagnostics kept from a failed run.
const stderrTailLines = 20

// RenderFailedError carries the diagnostics of a failed ffmpeg run.
type RenderFailedError struct {
	Output   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RenderFailedError) Error() string {
	msg := fmt.Sprintf("render %s failed", e.Output)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *RenderFailedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRenderFailed) hold for every RenderFailedError.
func (e *RenderFailedError) Is(target error) bool { return target == ErrRenderFailed }

// Executor runs an invocation to completion.
type Executor interface {
	Run(ctx context.Context, inv Invocation) error
}

// PercentFunc receives progress in the range 0..100.
type PercentFunc func(percent float64)

// Runner executes ffmpeg and reports progress parsed from -progress output.
type Runner struct {
	Binary    string
	Logger    *slog.Logger
	OnPercent PercentFunc
}

// NewRunner returns a Runner for the given ffmpeg binary.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{Binary: binary, Logger: logger}
}

// Run executes the invocation once. On failure the partial output is removed
// and a *RenderFailedError is returned.
func (r *Runner) Run(ctx context.Context, inv Invocation) error {
	if inv.Graph == nil {
		return fmt.Errorf("engine: invocation for %s has no graph", inv.Output)
	}

	args := append([]string{"-progress", "pipe:1", "-stats_period", "0.5", "-nostats"}, inv.Args()...)
	cmd := exec.CommandContext(ctx, r.Binary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	var stderrBuf strings.Builder
	cmd.Stderr = &stderrBuf

	r.Logger.Debug("starting ffmpeg",
		slog.String("binary", r.Binary),
		slog.String("output", inv.Output),
		slog.String("args", strings.Join(args, " ")))

	if err := cmd.Start(); err != nil {
		return &RenderFailedError{Output: inv.Output, Err: fmt.Errorf("start %s: %w", r.Binary, err)}
	}

	r.report(0)
	r.readProgress(stdout, inv.ExpectedDuration)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		failure := &RenderFailedError{
			Output: inv.Output,
			Stderr: tail(stderrBuf.String(), stderrTailLines),
			Err:    err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			failure.ExitCode = exitErr.ExitCode()
		}
		r.removePartial(inv.Output)
		return failure
	}

	r.report(100)
	r.Logger.Info("render complete", slog.String("output", inv.Output))
	return nil
}

// readProgress consumes key=value progress lines until the pipe closes.
// out_time_us is "N/A" until the first frame is written.
func (r *Runner) readProgress(stdout io.Reader, expected float64) {
	durationUs := int64(expected * 1_000_000)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		value, ok := strings.CutPrefix(scanner.Text(), "out_time_us=")
		if !ok || value == "N/A" {
			continue
		}
		timeUs, err := strconv.ParseInt(value, 10, 64)
		if err != nil || durationUs <= 0 || timeUs < 0 {
			continue
		}
		r.report(min(float64(timeUs)/float64(durationUs)*100, 100))
	}
}

func (r *Runner) report(percent float64) {
	if r.OnPercent != nil {
		r.OnPercent(percent)
	}
}

func (r *Runner) removePartial(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.Logger.Warn("failed to remove partial output",
			slog.String("output", path),
			slog.String("error", err.Error()))
	}
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
