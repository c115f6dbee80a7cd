package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/render"
)

var (
	mergeOutput     string
	mergeDuration   float64
	mergeResizeMode string
	musicOutput     string
	musicVolume     float64
	scenesOutput    string
)

var mergeCmd = &cobra.Command{
	Use:   "merge VIDEO AUDIO",
	Short: "Merge a clip with a voiceover",
	Long: `Scale VIDEO to the configured frame (cover or contain) and mix AUDIO with the
clip's own audio, trimmed to the output duration.

The duration comes from --duration, then merge.duration in the config, then
the probed length of AUDIO.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			req := render.MergeRequest{
				Video:      args[0],
				Audio:      args[1],
				Output:     outputOrDefault(s.cfg, mergeOutput, args[0], "merged", ".mp4"),
				Duration:   mergeDuration,
				ResizeMode: mergeResizeMode,
			}
			return s.run(cmd, "Merging audio", func(ctx context.Context) (render.Result, error) {
				return s.renderer.MergeAudio(ctx, req)
			})
		})
	},
}

var musicCmd = &cobra.Command{
	Use:   "music VIDEO MUSIC",
	Short: "Add a background music bed",
	Long: `Loop loudness-normalized MUSIC under VIDEO for its whole length. The video
stream is copied; the audio is re-encoded.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			req := render.MusicRequest{
				Video:  args[0],
				Music:  args[1],
				Output: outputOrDefault(s.cfg, musicOutput, args[0], "music", ".mp4"),
				Volume: musicVolume,
			}
			return s.run(cmd, "Adding music", func(ctx context.Context) (render.Result, error) {
				return s.renderer.AddMusic(ctx, req)
			})
		})
	},
}

var scenesCmd = &cobra.Command{
	Use:   "scenes SCENES.json",
	Short: "Merge scenes with their voiceovers and join them",
	Long: `Merge every scene clip with its voiceover, up to render.max_parallel at a
time, then join the parts in order. SCENES.json is a list of
{"video", "audio", "duration"} objects; duration is optional.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenes, err := loadScenes(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *session) error {
			req := render.ScenesRequest{
				Scenes: scenes,
				Output: outputOrDefault(s.cfg, scenesOutput, args[0], "reel", ".mp4"),
			}
			return s.run(cmd, "Rendering scenes", func(ctx context.Context) (render.Result, error) {
				return s.renderer.Scenes(ctx, req)
			})
		})
	},
}

func loadScenes(path string) ([]render.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenes: %w", err)
	}
	var scenes []render.Scene
	if err := json.Unmarshal(data, &scenes); err != nil {
		return nil, fmt.Errorf("parse scenes %s: %w", path, err)
	}
	for i, scene := range scenes {
		if scene.Video == "" || scene.Audio == "" {
			return nil, fmt.Errorf("scene %d: video and audio are required", i+1)
		}
	}
	return scenes, nil
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output video (default: <output_dir>/<name>-merged.mp4)")
	mergeCmd.Flags().Float64Var(&mergeDuration, "duration", 0, "Output duration in seconds (default: narration length)")
	mergeCmd.Flags().StringVar(&mergeResizeMode, "resize-mode", "", "cover or contain (default from config)")

	musicCmd.Flags().StringVarP(&musicOutput, "output", "o", "", "Output video (default: <output_dir>/<name>-music.mp4)")
	musicCmd.Flags().Float64Var(&musicVolume, "volume", 0, "Music volume (default from config)")

	scenesCmd.Flags().StringVarP(&scenesOutput, "output", "o", "", "Output video (default: <output_dir>/<name>-reel.mp4)")
}
