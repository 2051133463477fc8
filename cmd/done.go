package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/output"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

var doneCmd = &cobra.Command{
	Use:   "done REF",
	Short: "Mark a task as done",
	Long: `Marks the first task matching REF as done. REF is an id prefix or the
full title, both case-insensitive.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(_ *cobra.Command, args []string) error {
	ref := args[0]
	if err := task.ValidateRef(ref); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	t, ok, err := a.store().Done(ref)
	if err != nil {
		return fmt.Errorf("completing task: %w", err)
	}
	if !ok {
		return reportNotFound(ref)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Done %s: %s", t.ShortID(), t.Title)
	return nil
}
