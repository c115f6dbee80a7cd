package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version      = "dev"
	configPath   string
	debugMode    bool
	logFormat    string
	dryRun       bool
	showProgress bool
)

// SetVersion sets the application version (called from main)
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "kartoza-reel-renderer",
	Short: "Render short-form videos with ffmpeg",
	Long: `Kartoza Reel Renderer builds short-form videos by driving ffmpeg.

It supports:
  - Word-chunked captions, written as SRT or burned into the video
  - Merging scene clips with a voiceover, scaled to a vertical frame
  - Concatenating clips without re-encoding
  - Time-windowed b-roll overlays
  - Loudness-normalized background music beds

Use --dry-run to print the ffmpeg command lines instead of running them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Interrupts cancel the running render.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: ~/.config/kartoza-reel-renderer/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console, json or auto (default from config)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print ffmpeg commands instead of running them")
	rootCmd.PersistentFlags().BoolVar(&showProgress, "progress", false, "Show a progress view while rendering")

	rootCmd.AddCommand(captionsCmd)
	rootCmd.AddCommand(burnCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(concatCmd)
	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(musicCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(versionCmd)
}
