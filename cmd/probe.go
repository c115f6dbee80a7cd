package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/probe"
)

var probeJSON bool

var probeCmd = &cobra.Command{
	Use:   "probe FILE...",
	Short: "Show duration, streams and frame size of media files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		prober := probe.New(cfg.Engine.FFprobe, logger)

		results := make(map[string]probe.Result, len(args))
		rows := make([][]string, 0, len(args))
		for _, path := range args {
			r, err := prober.Inspect(cmd.Context(), path)
			if err != nil {
				return err
			}
			results[path] = r
			rows = append(rows, probeRow(path, r))
		}

		out := cmd.OutOrStdout()
		if probeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		fmt.Fprintln(out, renderTable(
			[]string{"File", "Duration", "Video", "Audio", "Size", "FPS", "Aspect"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
		))
		return nil
	},
}

func probeRow(path string, r probe.Result) []string {
	size := "-"
	if r.Width() > 0 && r.Height() > 0 {
		size = fmt.Sprintf("%dx%d", r.Width(), r.Height())
	}
	fps := "-"
	if f := r.FPS(); f > 0 {
		fps = strconv.FormatFloat(f, 'f', 2, 64)
	}
	return []string{
		path,
		fmt.Sprintf("%.2fs", r.DurationSeconds()),
		strconv.Itoa(r.VideoStreamCount()),
		strconv.Itoa(r.AudioStreamCount()),
		size,
		fps,
		r.AspectRatio(),
	}
}

func init() {
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "Output raw probe results as JSON")
}
