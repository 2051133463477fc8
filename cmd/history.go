package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/focus"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed focus sessions",
	Long: `Shows the focus sessions that ran both phases to the end, grouped by day
with the newest day first. Use --limit to show only the most recent sessions.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "show only the last N sessions (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	records, err := focus.NewHistory(a.cfg.HistoryPath()).Read()
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	switch outputFormat() {
	case output.FormatJSON:
		if records == nil {
			records = []focus.Record{}
		}
		return output.JSON(os.Stdout, records)
	case output.FormatCompact:
		output.HistoryCompact(os.Stdout, records)
		return nil
	default:
		return output.HistoryTable(os.Stdout, records)
	}
}
