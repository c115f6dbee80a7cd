package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/filtergraph"
	"github.com/kartoza/kartoza-reel-renderer/internal/render"
)

var (
	concatOutput   string
	overlayOutput  string
	overlayClips   []string
	overlayWindows []string
)

var concatCmd = &cobra.Command{
	Use:   "concat INPUT...",
	Short: "Join clips end to end without re-encoding",
	Long: `Join the inputs in order with the concat demuxer. All inputs must share
codecs and encoding parameters.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			req := render.ConcatRequest{
				Inputs: args,
				Output: outputOrDefault(s.cfg, concatOutput, args[0], "joined", ""),
			}
			return s.run(cmd, "Joining clips", func(ctx context.Context) (render.Result, error) {
				return s.renderer.Concat(ctx, req)
			})
		})
	},
}

var overlayCmd = &cobra.Command{
	Use:   "overlay BASE",
	Short: "Show b-roll clips over a base video",
	Long: `Overlay each --clip on BASE during the matching --window. Windows are
START:END in seconds and pair with clips by position; later clips win where
windows overlap.

Example:
  kartoza-reel-renderer overlay talk.mp4 --clip a.mp4 --window 2:5 --clip b.mp4 --window 8:11.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		windows, err := parseWindows(overlayWindows)
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *session) error {
			req := render.OverlayRequest{
				Base:    args[0],
				Clips:   overlayClips,
				Windows: windows,
				Output:  outputOrDefault(s.cfg, overlayOutput, args[0], "broll", ".mp4"),
			}
			return s.run(cmd, "Overlaying b-roll", func(ctx context.Context) (render.Result, error) {
				return s.renderer.Overlay(ctx, req)
			})
		})
	},
}

func parseWindows(values []string) ([]filtergraph.Window, error) {
	windows := make([]filtergraph.Window, 0, len(values))
	for _, value := range values {
		w, err := parseWindow(value)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// parseWindow reads START:END in seconds.
func parseWindow(value string) (filtergraph.Window, error) {
	startText, endText, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return filtergraph.Window{}, fmt.Errorf("window %q: expected START:END", value)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(startText), 64)
	if err != nil {
		return filtergraph.Window{}, fmt.Errorf("window %q: bad start: %w", value, err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(endText), 64)
	if err != nil {
		return filtergraph.Window{}, fmt.Errorf("window %q: bad end: %w", value, err)
	}
	return filtergraph.Window{Start: start, End: end}, nil
}

func init() {
	concatCmd.Flags().StringVarP(&concatOutput, "output", "o", "", "Output video (default: <output_dir>/<first>-joined.<ext>)")

	overlayCmd.Flags().StringVarP(&overlayOutput, "output", "o", "", "Output video (default: <output_dir>/<name>-broll.mp4)")
	overlayCmd.Flags().StringArrayVar(&overlayClips, "clip", nil, "B-roll clip (repeatable)")
	overlayCmd.Flags().StringArrayVar(&overlayWindows, "window", nil, "START:END seconds for the matching clip (repeatable)")
}
