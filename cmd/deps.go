package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/deps"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Check for required dependencies",
	Long:  `Check that ffmpeg and ffprobe are installed and that ffmpeg has every filter the renders use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		required, optional := deps.CheckAll(cfg.Engine.FFmpeg, cfg.Engine.FFprobe)

		// Colors
		green := lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
		red := lipgloss.NewStyle().Foreground(lipgloss.Color("#E95420"))
		gray := lipgloss.NewStyle().Foreground(lipgloss.Color("#9A9EA0"))
		bold := lipgloss.NewStyle().Bold(true)

		fmt.Fprintln(out)
		fmt.Fprintln(out, bold.Render("Required Dependencies:"))
		fmt.Fprintln(out)

		allRequiredOk := true
		for _, r := range required {
			var status string
			if r.Available {
				status = green.Render("✓")
			} else {
				status = red.Render("✗")
				allRequiredOk = false
			}
			fmt.Fprintf(out, "  %s %s\n", status, bold.Render(r.Dependency.Name))
			fmt.Fprintf(out, "    %s\n", gray.Render(r.Dependency.Description))
			if r.Available {
				fmt.Fprintf(out, "    Path: %s\n", r.Path)
				if v, err := deps.Version(ctx, r.Path); err == nil {
					fmt.Fprintf(out, "    %s\n", gray.Render(v))
				}
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintln(out, bold.Render("Optional Dependencies:"))
		fmt.Fprintln(out)

		for _, r := range optional {
			var status string
			if r.Available {
				status = green.Render("✓")
			} else {
				status = gray.Render("○")
			}
			fmt.Fprintf(out, "  %s %s\n", status, bold.Render(r.Dependency.Name))
			fmt.Fprintf(out, "    %s\n", gray.Render(r.Dependency.Description))
			if r.Available {
				fmt.Fprintf(out, "    Path: %s\n", r.Path)
			}
			fmt.Fprintln(out)
		}

		if ffmpeg := required[0]; ffmpeg.Available {
			missing, err := deps.MissingFilters(ctx, ffmpeg.Path, deps.RequiredFilters)
			switch {
			case err != nil:
				fmt.Fprintf(out, "%s %v\n\n", red.Render("Could not list ffmpeg filters:"), err)
				allRequiredOk = false
			case len(missing) > 0:
				fmt.Fprintf(out, "%s %s\n\n", red.Render("ffmpeg is missing filters:"), strings.Join(missing, ", "))
				allRequiredOk = false
			default:
				fmt.Fprintln(out, green.Render("ffmpeg has every filter the renders use."))
				fmt.Fprintln(out)
			}
		}

		if !allRequiredOk {
			fmt.Fprint(out, deps.FormatMissing(deps.MissingRequired(required)))
			return errors.New("some required dependencies are missing")
		}
		fmt.Fprintln(out, green.Render("All required dependencies are installed!"))
		fmt.Fprintln(out)
		return nil
	},
}
