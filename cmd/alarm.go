package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/alarm"
	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/clock"
	"github.com/twiced-technology-gmbh/quadono/internal/host"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
)

var alarmCmd = &cobra.Command{
	Use:   "alarm [HH:MM NOTE...]",
	Short: "Set an alarm and keep alarms ringing",
	Long: `Appends an alarm for HH:MM (24h clock, local time) with an optional note,
then keeps running and rings every stored alarm whose time comes up. Each
alarm rings once and is removed. Press Ctrl+C to quit.

Without arguments it only watches the stored alarms. Use --no-wait to store
the alarm and exit; it rings the next time quadono runs.`,
	Args: cobra.ArbitraryArgs,
	RunE: runAlarm,
}

var alarmListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored alarms",
	Args:    cobra.NoArgs,
	RunE:    runAlarmList,
}

func init() {
	alarmCmd.Flags().Bool("no-wait", false, "store the alarm and exit without watching")
	alarmCmd.AddCommand(alarmListCmd)
	rootCmd.AddCommand(alarmCmd)
}

func runAlarm(cmd *cobra.Command, args []string) error {
	var (
		at     clock.TimeOfDay
		note   string
		setNew = len(args) > 0
	)
	if setNew {
		t, err := clock.ParseTimeOfDay(args[0])
		if err != nil {
			return clierr.New(clierr.InvalidTime, err.Error()).
				WithDetails(map[string]any{"time": args[0]})
		}
		at = t
		note = strings.Join(args[1:], " ")
		if len(note) > alarm.MaxNoteBytes {
			return clierr.Newf(clierr.InvalidInput, "alarm note too long (%d bytes, max %d)", len(note), alarm.MaxNoteBytes)
		}
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	jsonMode := outputFormat() == output.FormatJSON
	var progress io.Writer = os.Stdout
	if jsonMode {
		progress = os.Stderr
	}
	monitor := a.monitor(progress)

	setAlarm := func() error {
		if !setNew {
			return nil
		}
		set, err := monitor.Set(at, note)
		if err != nil {
			return fmt.Errorf("setting alarm: %w", err)
		}
		if jsonMode {
			return output.JSON(os.Stdout, set)
		}
		output.Messagef(progress, "Alarm set for %s %s", set.Time, set.Note)
		return nil
	}

	if noWait, _ := cmd.Flags().GetBool("no-wait"); noWait {
		return setAlarm()
	}

	foreground := func(_ context.Context) error {
		if err := setAlarm(); err != nil {
			return err
		}
		output.Messagef(progress, "Watching alarms in %s. Press Ctrl+C to quit.", monitor.Path())
		return nil
	}

	h := host.New(foreground, monitor,
		host.WithLogger(a.logger),
		host.WithErrorOutput(os.Stderr),
	)
	return h.Run(cmd.Context())
}

func runAlarmList(_ *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	alarms, err := a.monitor(io.Discard).Pending()
	if err != nil {
		return fmt.Errorf("reading alarms: %w", err)
	}

	switch outputFormat() {
	case output.FormatJSON:
		if alarms == nil {
			alarms = []alarm.Alarm{}
		}
		return output.JSON(os.Stdout, alarms)
	case output.FormatCompact:
		output.AlarmsCompact(os.Stdout, alarms)
	default:
		output.AlarmTable(os.Stdout, alarms)
	}
	return nil
}
