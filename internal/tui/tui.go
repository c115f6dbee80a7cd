// Package tui shows render progress in the terminal.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Brand colors, Kartoza standard palette
var (
	ColorOrange = lipgloss.Color("#DDA036") // Primary/Active
	ColorGray   = lipgloss.Color("#9A9EA0") // Inactive/Subtle
	ColorWhite  = lipgloss.Color("#FFFFFF") // Text
	ColorRed    = lipgloss.Color("#E95420") // Error
	ColorGreen  = lipgloss.Color("#4CAF50") // Success
)

// PercentFunc receives engine progress in the range 0..100.
type PercentFunc func(percent float64)

// Work is a render run under the progress view.
type Work func(ctx context.Context, onPercent PercentFunc) error

// RunWithProgress runs work while drawing a progress view on out. Quitting
// the view cancels the context passed to work; the work's own error is
// returned once it has stopped.
func RunWithProgress(ctx context.Context, out io.Writer, title string, work Work) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newRenderModel(title, cancel), tea.WithOutput(out), tea.WithContext(ctx))

	result := make(chan error, 1)
	go func() {
		err := work(ctx, func(percent float64) {
			program.Send(percentMsg(percent))
		})
		result <- err
		program.Send(doneMsg{err: err})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		if workErr := <-result; workErr != nil {
			return workErr
		}
		return err
	}
	return <-result
}
