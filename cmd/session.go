package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/config"
	"github.com/kartoza/kartoza-reel-renderer/internal/engine"
	"github.com/kartoza/kartoza-reel-renderer/internal/history"
	"github.com/kartoza/kartoza-reel-renderer/internal/logging"
	"github.com/kartoza/kartoza-reel-renderer/internal/notify"
	"github.com/kartoza/kartoza-reel-renderer/internal/probe"
	"github.com/kartoza/kartoza-reel-renderer/internal/render"
	"github.com/kartoza/kartoza-reel-renderer/internal/tui"
)

// session holds everything one render command needs.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	renderer *render.Renderer
	runner   *engine.Runner
	dry      *engine.DryRunner
	history  *history.Store
}

func loadConfig() (*config.Config, error) {
	cfg, _, err := config.Load(strings.TrimSpace(configPath))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if debugMode {
		level = "debug"
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	return logging.New(logging.Options{Level: level, Format: format})
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: logger}

	var exec engine.Executor
	if dryRun {
		s.dry = &engine.DryRunner{Binary: cfg.Engine.FFmpeg, Out: cmd.OutOrStdout()}
		exec = s.dry
	} else {
		s.runner = engine.NewRunner(cfg.Engine.FFmpeg, logger)
		exec = s.runner
	}

	opts := []render.Option{render.WithLogger(logger)}
	if cfg.History.Enabled && !dryRun {
		store, err := history.Open(cmd.Context(), cfg.HistoryPath())
		if err != nil {
			logger.Warn("job history unavailable", slog.String("error", err.Error()))
		} else {
			s.history = store
			opts = append(opts, render.WithHistory(store))
		}
	}
	if cfg.Notifications.Desktop && !dryRun {
		opts = append(opts, render.WithNotifier(notify.Desktop{}))
	}

	s.renderer = render.New(*cfg, probe.New(cfg.Engine.FFprobe, logger), exec, opts...)
	return s, nil
}

func (s *session) Close() {
	if s.history == nil {
		return
	}
	if err := s.history.Close(); err != nil {
		s.logger.Warn("close job history", slog.String("error", err.Error()))
	}
}

// run executes one render, under the progress view when requested and
// stdout is a terminal, and prints the output path.
func (s *session) run(cmd *cobra.Command, title string, fn func(context.Context) (render.Result, error)) error {
	var result render.Result
	work := func(ctx context.Context, onPercent tui.PercentFunc) error {
		if s.runner != nil {
			s.runner.OnPercent = engine.PercentFunc(onPercent)
		}
		var err error
		result, err = fn(ctx)
		return err
	}

	out := cmd.OutOrStdout()
	var err error
	if showProgress && s.runner != nil && logging.IsTerminal(out) {
		err = tui.RunWithProgress(cmd.Context(), out, title, work)
	} else {
		err = work(cmd.Context(), nil)
	}
	if err != nil {
		return err
	}

	if s.dry == nil {
		fmt.Fprintln(out, result.Output)
	}
	return nil
}

// withSession opens a session for the command and closes it afterwards.
func withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// defaultOutput names an output in the configured output directory after
// the input file, e.g. clip.mp4 becomes clip-captioned.mp4.
func defaultOutput(cfg *config.Config, input, suffix, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if ext == "" {
		ext = filepath.Ext(base)
	}
	return filepath.Join(cfg.Paths.OutputDir, stem+"-"+suffix+ext)
}

func outputOrDefault(cfg *config.Config, output, input, suffix, ext string) string {
	if strings.TrimSpace(output) != "" {
		return output
	}
	return defaultOutput(cfg, input, suffix, ext)
}
