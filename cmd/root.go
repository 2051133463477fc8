// Package cmd implements the quadono CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/quadono/internal/alarm"
	"github.com/twiced-technology-gmbh/quadono/internal/bell"
	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/config"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagCompact  bool
	flagDir      string
	flagNoColor  bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "quadono",
	Short: "Quadrant task list, pomodoro timer and alarms",
	Long: `quadono keeps a task list sorted into the four Eisenhower quadrants,
runs pomodoro focus sessions against those tasks, and rings time-of-day alarms
while it is running.

Data lives in ~/.config/quadono unless --dir or QUADONO_DIR points elsewhere.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to data directory (default ~/.config/quadono, env QUADONO_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "diagnostic log level on stderr (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	if outputFormat() == output.FormatJSON {
		output.JSONError(os.Stdout, err)
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status: the clierr code
// decides when there is one, cobra usage errors are 1, anything else is 2.
func exitCode(err error) int {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	if isUsageError(err) {
		return 1
	}
	return 2 //nolint:mnd // exit code 2 for internal errors
}

// isUsageError recognizes cobra's argument and flag errors, which are plain
// errors rather than clierr values.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "unknown flag", "unknown shorthand", "accepts ", "requires ", "invalid argument", "flag needs"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// app bundles what every command needs: the loaded config and the logger.
type app struct {
	cfg    *config.Config
	logger *log.Logger
}

// loadApp resolves the data directory, loads the config and builds the logger.
func loadApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: newLogger(cfg)}, nil
}

// loadConfig finds and loads the config for the resolved data directory.
func loadConfig() (*config.Config, error) {
	dir, err := config.ResolveDir(flagDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, clierr.New(clierr.InvalidConfig, err.Error()).
				WithDetails(map[string]any{"dir": dir})
		}
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the stderr diagnostics logger. --log-level wins over the
// config file.
func newLogger(cfg *config.Config) *log.Logger {
	level := cfg.LogLevel()
	if flagLogLevel != "" {
		if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
			level = lvl
		}
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "quadono",
		Level:           level,
	})
}

func (a *app) store() *task.Store {
	return task.NewStore(a.cfg.TasksPath(), task.WithLogger(a.logger))
}

func (a *app) monitor(out io.Writer) *alarm.Monitor {
	return alarm.NewMonitor(a.cfg.AlarmsPath(),
		alarm.WithOutput(out),
		alarm.WithRinger(a.ringer()),
		alarm.WithPollInterval(a.cfg.Alarm.PollInterval),
		alarm.WithLogger(a.logger),
	)
}

// ringer rings the terminal bell on stderr when enabled and attached to a
// terminal, so piped stdout stays clean.
func (a *app) ringer() bell.Ringer {
	if !a.cfg.Alarm.Bell || !term.IsTerminal(int(os.Stderr.Fd())) {
		return bell.Silent{}
	}
	return bell.Terminal{W: os.Stderr}
}

// reportNotFound tells the user that ref matched no task. A reference that
// resolves to nothing aborts the operation but is not a failure.
func reportNotFound(ref string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"status": "not_found", "ref": ref})
	}
	output.Messagef(os.Stdout, "Task not found: %s", ref)
	return nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagCompact)
}
