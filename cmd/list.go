package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/output"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
	"github.com/twiced-technology-gmbh/quadono/internal/watcher"
)

var flagWatch bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List pending tasks by quadrant",
	Long: `Lists tasks that are not done, grouped by quadrant in ascending order.
Within a quadrant tasks keep the order they were added in.

Use --watch to keep the list live-updating. It re-renders whenever the task
file changes on disk (e.g., from another terminal). Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the list on file changes")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	store := a.store()

	if err := renderList(store); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchList(store)
}

func renderList(store *task.Store) error {
	groups := store.List()

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, groups)
	case output.FormatCompact:
		output.GroupedCompact(os.Stdout, groups)
	default:
		output.GroupedTable(os.Stdout, groups)
	}
	return nil
}

func watchList(store *task.Store) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{store.Path()}, func() {
		clearScreen()
		if renderErr := renderList(store); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering list: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
