package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/focus"
	"github.com/twiced-technology-gmbh/quadono/internal/host"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
)

var pomodoroCmd = &cobra.Command{
	Use:     "pom",
	Aliases: []string{"pomodoro", "25"},
	Short:   "Run a pomodoro focus session",
	Long: `Runs one work countdown followed by one break countdown (25 and 5 minutes
by default). Press Enter to stop the current countdown early.

With --task, the session is bound to a task: when both phases run to the end
the task is marked done. Every completed session is added to the history log.

Alarms keep ringing while quadono runs; press Ctrl+C to quit.`,
	Args: cobra.NoArgs,
	RunE: runPomodoro,
}

func init() {
	pomodoroCmd.Flags().StringP("task", "t", "", "bind the session to a task (id prefix or title)")
	pomodoroCmd.Flags().Int("work", 0, "work minutes (default from config)")
	pomodoroCmd.Flags().Int("break", 0, "break minutes (default from config)")
	pomodoroCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "id", "ref":
			name = "task"
		case "rest":
			name = "break"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(pomodoroCmd)
}

func runPomodoro(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	store := a.store()

	ref, _ := cmd.Flags().GetString("task")
	if ref != "" {
		// Resolve the binding before the countdown or the monitor starts.
		_, err := store.Find(ref)
		if clierr.HasCode(err, clierr.TaskNotFound) {
			return reportNotFound(ref)
		}
		if err != nil {
			return err
		}
	}

	work := a.cfg.WorkDuration()
	if m, _ := cmd.Flags().GetInt("work"); m > 0 {
		work = time.Duration(m) * time.Minute
	}
	brk := a.cfg.BreakDuration()
	if m, _ := cmd.Flags().GetInt("break"); m > 0 {
		brk = time.Duration(m) * time.Minute
	}

	jsonMode := outputFormat() == output.FormatJSON
	var progress io.Writer = os.Stdout
	if jsonMode {
		progress = os.Stderr
	}

	timer := focus.NewTimer(store, focus.NewHistory(a.cfg.HistoryPath()),
		focus.WithDurations(work, brk),
		focus.WithTick(a.cfg.Focus.Tick),
		focus.WithInterrupter(focus.Stdin(os.Stdin)),
		focus.WithRinger(a.ringer()),
		focus.WithOutput(progress),
		focus.WithLogger(a.logger),
	)

	foreground := func(ctx context.Context) error {
		res, err := timer.Start(ctx, ref)
		if err != nil {
			return err
		}
		if jsonMode {
			if err := output.JSON(os.Stdout, res); err != nil {
				return err
			}
		}
		if res.Completed {
			output.Messagef(progress, "[focus] session complete (%d min logged)", res.Record.WorkMinutes)
		}
		output.Messagef(progress, "Alarms stay armed. Press Ctrl+C to quit.")
		return nil
	}

	h := host.New(foreground, a.monitor(progress),
		host.WithLogger(a.logger),
		host.WithErrorOutput(os.Stderr),
	)
	return h.Run(cmd.Context())
}
