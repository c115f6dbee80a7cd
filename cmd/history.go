package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-reel-renderer/internal/history"
)

var (
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past renders",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent renders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(store *history.Store) error {
			jobs, err := store.List(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No renders recorded.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Kind", "Status", "Started", "Elapsed", "Output"},
				historyRows(jobs, time.Now()),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		})
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete finished renders older than the retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		olderThan := historyOlderThan
		if olderThan <= 0 {
			olderThan = time.Duration(cfg.History.RetentionHours) * time.Hour
		}
		return withHistory(cmd, func(store *history.Store) error {
			n, err := store.Prune(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d render(s) older than %s\n", n, olderThan)
			return nil
		})
	},
}

func withHistory(cmd *cobra.Command, fn func(*history.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	store, err := history.Open(cmd.Context(), cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func historyRows(jobs []*history.Job, now time.Time) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		status := string(job.Status)
		if job.Status == history.StatusFailed && job.Error != "" {
			status += ": " + firstLine(job.Error, 40)
		}
		rows = append(rows, []string{
			job.ID[:min(8, len(job.ID))],
			job.Kind.Label(),
			status,
			job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			job.Elapsed(now).Round(100 * time.Millisecond).String(),
			job.Output,
		})
	}
	return rows
}

func firstLine(s string, limit int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of renders to show")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "Age of renders to delete (default: history.retention_hours)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
