package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

var addCmd = &cobra.Command{
	Use:   "add TITLE QUADRANT MINUTES",
	Short: "Add a task",
	Long: `Adds a task to a quadrant with an estimate in minutes.

Quadrants: 1 urgent & important, 2 important, 3 urgent, 4 neither.
Quote multi-word titles.`,
	Example: `  quadono add "Write report" 1 45`,
	Args:    cobra.ExactArgs(3), //nolint:mnd // title, quadrant, minutes
	RunE:    runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	title := strings.TrimSpace(args[0])
	if err := task.ValidateTitle(title); err != nil {
		return err
	}

	quadrant, err := strconv.Atoi(args[1])
	if err != nil {
		return clierr.Newf(clierr.InvalidQuadrant, "quadrant must be a number %d-%d, got %q",
			task.MinQuadrant, task.MaxQuadrant, args[1])
	}
	if err := task.ValidateQuadrant(quadrant); err != nil {
		return err
	}

	minutes, err := strconv.Atoi(args[2])
	if err != nil {
		return clierr.Newf(clierr.InvalidInput, "estimate must be whole minutes, got %q", args[2])
	}
	if err := task.ValidateEstimate(minutes); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	t, err := a.store().Add(title, quadrant, minutes)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Added %s: %s (Q%d, %dm)", t.ShortID(), t.Title, t.Quadrant, t.EstimateMinutes)
	return nil
}
