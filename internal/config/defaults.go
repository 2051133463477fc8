// Package config loads quadono settings from config.yml, QUADONO_*
// environment variables and built-in defaults.
package config

import "time"

const (
	// DefaultDirName is the data directory under ~/.config.
	DefaultDirName = "quadono"
	// ConfigFileName is the name of the config file within the data directory.
	ConfigFileName = "config.yml"
	// EnvPrefix prefixes every environment override, e.g. QUADONO_FOCUS_WORK_MINUTES.
	EnvPrefix = "QUADONO"
	// DirEnv selects the data directory when --dir is not given.
	DirEnv = EnvPrefix + "_DIR"

	DefaultTasksFile    = "tasks.yml"
	DefaultAlarmsFile   = "alarms.txt"
	DefaultHistoryFile  = "history.jsonl"
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
	DefaultTick         = time.Second
	DefaultPollInterval = time.Second
	DefaultBell         = true
	DefaultLogLevel     = "warn"
)

// Config keys, as used in config.yml (dotted for nested sections), in
// `config get/set`, and, upper-cased with '_', in environment overrides.
const (
	KeyTasksFile         = "tasks_file"
	KeyAlarmsFile        = "alarms_file"
	KeyHistoryFile       = "history_file"
	KeyFocusWorkMinutes  = "focus.work_minutes"
	KeyFocusBreakMinutes = "focus.break_minutes"
	KeyFocusTick         = "focus.tick"
	KeyAlarmPollInterval = "alarm.poll_interval"
	KeyAlarmBell         = "alarm.bell"
	KeyLogLevel          = "log.level"
)

// Keys lists every settable key in display order.
var Keys = []string{
	KeyTasksFile,
	KeyAlarmsFile,
	KeyHistoryFile,
	KeyFocusWorkMinutes,
	KeyFocusBreakMinutes,
	KeyFocusTick,
	KeyAlarmPollInterval,
	KeyAlarmBell,
	KeyLogLevel,
}

func defaults() map[string]any {
	return map[string]any{
		KeyTasksFile:         DefaultTasksFile,
		KeyAlarmsFile:        DefaultAlarmsFile,
		KeyHistoryFile:       DefaultHistoryFile,
		KeyFocusWorkMinutes:  DefaultWorkMinutes,
		KeyFocusBreakMinutes: DefaultBreakMinutes,
		KeyFocusTick:         DefaultTick,
		KeyAlarmPollInterval: DefaultPollInterval,
		KeyAlarmBell:         DefaultBell,
		KeyLogLevel:          DefaultLogLevel,
	}
}
