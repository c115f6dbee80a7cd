package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/captions"
	"github.com/kartoza/kartoza-reel-renderer/internal/render"
	"github.com/kartoza/kartoza-reel-renderer/internal/style"
)

var (
	captionsOutput   string
	captionsMaxWords int
	burnOutput       string
	burnStyleFile    string
	burnMaxWords     int
)

var captionsCmd = &cobra.Command{
	Use:   "captions SEGMENTS.json",
	Short: "Write word-chunked captions as SRT",
	Long: `Split timed transcript segments into short captions and write them as an
SRT document. SEGMENTS.json is a list of {"start", "end", "text"} objects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		segments, err := captions.LoadSegmentsFile(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *session) error {
			req := render.CaptionsRequest{
				Segments: segments,
				Output:   outputOrDefault(s.cfg, captionsOutput, args[0], "captions", ".srt"),
				MaxWords: captionsMaxWords,
			}
			return s.run(cmd, "Writing captions", func(ctx context.Context) (render.Result, error) {
				return s.renderer.Captions(ctx, req)
			})
		})
	},
}

var burnCmd = &cobra.Command{
	Use:   "burn VIDEO SEGMENTS.json",
	Short: "Burn captions into a video",
	Long: `Render word-chunked captions onto VIDEO using the configured caption style.
A TOML file with [captions]-style keys can override the style for one render.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		segments, err := captions.LoadSegmentsFile(args[1])
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *session) error {
			settings, err := loadStyle(s.cfg.Captions, burnStyleFile)
			if err != nil {
				return err
			}
			if burnMaxWords > 0 {
				settings.MaxWordsPerLine = burnMaxWords
			}
			req := render.BurnRequest{
				Video:    args[0],
				Output:   outputOrDefault(s.cfg, burnOutput, args[0], "captioned", ""),
				Segments: segments,
				Style:    &settings,
			}
			return s.run(cmd, "Burning captions", func(ctx context.Context) (render.Result, error) {
				return s.renderer.BurnCaptions(ctx, req)
			})
		})
	},
}

// loadStyle overlays the keys set in path onto base.
func loadStyle(base style.Settings, path string) (style.Settings, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return style.Settings{}, fmt.Errorf("read style: %w", err)
	}
	if err := toml.Unmarshal(data, &base); err != nil {
		return style.Settings{}, fmt.Errorf("parse style %s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return style.Settings{}, err
	}
	return base, nil
}

func init() {
	captionsCmd.Flags().StringVarP(&captionsOutput, "output", "o", "", "Output SRT file (default: <output_dir>/<name>-captions.srt)")
	captionsCmd.Flags().IntVar(&captionsMaxWords, "max-words", 0, "Maximum words per caption (default from config)")

	burnCmd.Flags().StringVarP(&burnOutput, "output", "o", "", "Output video (default: <output_dir>/<name>-captioned.<ext>)")
	burnCmd.Flags().StringVar(&burnStyleFile, "style", "", "TOML file overriding caption style settings")
	burnCmd.Flags().IntVar(&burnMaxWords, "max-words", 0, "Maximum words per caption (default from config)")
}
