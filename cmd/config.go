package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/config"
)

var (
	configInitPath      string
	configInitOverwrite bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := strings.TrimSpace(configInitPath)
		if target == "" {
			target = strings.TrimSpace(configPath)
		}
		if target == "" {
			target = config.GetConfigPath()
		}
		resolved, err := config.ExpandPath(target)
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}

		if !configInitOverwrite {
			if _, err := os.Stat(resolved); err == nil {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", resolved)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check config path: %w", err)
			}
		}

		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, resolved); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", resolved)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, exists, err := config.Load(strings.TrimSpace(configPath))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !exists {
			fmt.Fprintln(out, "No configuration file found; defaults are valid.")
			return nil
		}
		fmt.Fprintf(out, "Configuration is valid (output: %s, ffmpeg: %s)\n", cfg.Paths.OutputDir, cfg.Engine.FFmpeg)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitPath, "path", "p", "", "Destination for the configuration file")
	configInitCmd.Flags().BoolVar(&configInitOverwrite, "overwrite", false, "Overwrite an existing configuration")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}
