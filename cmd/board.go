package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/tui"
	"github.com/twiced-technology-gmbh/quadono/internal/watcher"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"tui", "matrix"},
	Short:   "Open the interactive quadrant matrix",
	Long: `Opens a full-screen 2x2 matrix of the pending tasks, one cell per quadrant.
Tasks can be marked done or deleted from the matrix. It reloads whenever the
task file changes on disk. Press ? for key bindings, q to quit.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	store := a.store()

	model := tui.NewMatrix(store)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startBoardWatcher(ctx, a, store.Path(), p)

	_, err = p.Run()
	return err
}

func startBoardWatcher(ctx context.Context, a *app, path string, p *tea.Program) {
	w, err := watcher.New([]string{path}, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		// The matrix still works without live refresh.
		a.logger.Warn("board watcher unavailable", "err", err)
		return
	}
	defer w.Close()
	w.Run(ctx, func(watchErr error) {
		p.Send(tui.ErrMsg{Err: watchErr})
	})
}
