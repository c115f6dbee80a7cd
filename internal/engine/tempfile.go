package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// WithTempFile writes content to a new temp file in dir, calls fn with its
// path and removes the file afterwards on every path. A removal failure is
// logged and never replaces the error returned by fn.
func WithTempFile(dir, pattern, content string, logger *slog.Logger, fn func(path string) error) error {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) && logger != nil {
			logger.Warn("failed to remove temp file",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}()

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return fn(path)
}
