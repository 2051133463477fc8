package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show REF",
	Short: "Show task details",
	Long:  `Displays full details of the first task matching REF, done or not.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	if err := task.ValidateRef(args[0]); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	t, err := a.store().Find(args[0])
	if clierr.HasCode(err, clierr.TaskNotFound) {
		return reportNotFound(args[0])
	}
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t)
	default:
		output.TaskDetail(os.Stdout, t)
	}
	return nil
}
