package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrInvalid    = errors.New("invalid config")
	ErrExists     = errors.New("config already exists")
	ErrUnknownKey = errors.New("unknown config key")
)

var validate = newValidator()

// Config holds all quadono settings. File paths are relative to the data
// directory unless absolute.
type Config struct {
	TasksFile   string      `mapstructure:"tasks_file" validate:"required"`
	AlarmsFile  string      `mapstructure:"alarms_file" validate:"required"`
	HistoryFile string      `mapstructure:"history_file" validate:"required"`
	Focus       FocusConfig `mapstructure:"focus"`
	Alarm       AlarmConfig `mapstructure:"alarm"`
	Log         LogConfig   `mapstructure:"log"`

	// dir is the absolute path to the data directory (not serialized).
	dir string
}

// FocusConfig holds pomodoro settings.
type FocusConfig struct {
	WorkMinutes  int           `mapstructure:"work_minutes" validate:"min=1,max=240"`
	BreakMinutes int           `mapstructure:"break_minutes" validate:"min=1,max=120"`
	Tick         time.Duration `mapstructure:"tick" validate:"gte=100ms,lte=1m"`
}

// AlarmConfig holds alarm monitor settings. PollInterval stays far below a
// minute so a tick always lands inside every wall-clock minute.
type AlarmConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gte=100ms,lte=10s"`
	Bell         bool          `mapstructure:"bell"`
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// fileConfig is the on-disk shape: durations are written as "1s", not
// nanoseconds.
type fileConfig struct {
	TasksFile   string `yaml:"tasks_file"`
	AlarmsFile  string `yaml:"alarms_file"`
	HistoryFile string `yaml:"history_file"`
	Focus       struct {
		WorkMinutes  int    `yaml:"work_minutes"`
		BreakMinutes int    `yaml:"break_minutes"`
		Tick         string `yaml:"tick"`
	} `yaml:"focus"`
	Alarm struct {
		PollInterval string `yaml:"poll_interval"`
		Bell         bool   `yaml:"bell"`
	} `yaml:"alarm"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// NewDefault creates a Config with default values rooted at dir.
func NewDefault(dir string) *Config {
	return &Config{
		TasksFile:   DefaultTasksFile,
		AlarmsFile:  DefaultAlarmsFile,
		HistoryFile: DefaultHistoryFile,
		Focus: FocusConfig{
			WorkMinutes:  DefaultWorkMinutes,
			BreakMinutes: DefaultBreakMinutes,
			Tick:         DefaultTick,
		},
		Alarm: AlarmConfig{
			PollInterval: DefaultPollInterval,
			Bell:         DefaultBell,
		},
		Log: LogConfig{Level: DefaultLogLevel},
		dir: dir,
	}
}

// ResolveDir picks the data directory: flagDir if set, then $QUADONO_DIR,
// then ~/.config/quadono. The result is absolute.
func ResolveDir(flagDir string) (string, error) {
	dir := flagDir
	if dir == "" {
		dir = os.Getenv(DirEnv)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", DefaultDirName)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// Load reads config.yml from dir if present, applies QUADONO_* environment
// overrides on top, fills the rest with defaults, and validates the result.
// A missing config file is not an error.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(absDir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalid, path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.dir = absDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes a default config file into dir, creating the directory.
// It refuses to overwrite an existing config.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(absDir)
	if _, err := os.Stat(cfg.ConfigPath()); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, cfg.ConfigPath())
	}

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", key, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	var fc fileConfig
	fc.TasksFile = c.TasksFile
	fc.AlarmsFile = c.AlarmsFile
	fc.HistoryFile = c.HistoryFile
	fc.Focus.WorkMinutes = c.Focus.WorkMinutes
	fc.Focus.BreakMinutes = c.Focus.BreakMinutes
	fc.Focus.Tick = c.Focus.Tick.String()
	fc.Alarm.PollInterval = c.Alarm.PollInterval.String()
	fc.Alarm.Bell = c.Alarm.Bell
	fc.Log.Level = c.Log.Level

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(c.dir, dirMode); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Get returns the value of key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyTasksFile:
		return c.TasksFile, nil
	case KeyAlarmsFile:
		return c.AlarmsFile, nil
	case KeyHistoryFile:
		return c.HistoryFile, nil
	case KeyFocusWorkMinutes:
		return strconv.Itoa(c.Focus.WorkMinutes), nil
	case KeyFocusBreakMinutes:
		return strconv.Itoa(c.Focus.BreakMinutes), nil
	case KeyFocusTick:
		return c.Focus.Tick.String(), nil
	case KeyAlarmPollInterval:
		return c.Alarm.PollInterval.String(), nil
	case KeyAlarmBell:
		return strconv.FormatBool(c.Alarm.Bell), nil
	case KeyLogLevel:
		return c.Log.Level, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
}

// Set parses value into key and re-validates. On error the config is left
// unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	var err error
	switch key {
	case KeyTasksFile:
		next.TasksFile = value
	case KeyAlarmsFile:
		next.AlarmsFile = value
	case KeyHistoryFile:
		next.HistoryFile = value
	case KeyFocusWorkMinutes:
		next.Focus.WorkMinutes, err = strconv.Atoi(value)
	case KeyFocusBreakMinutes:
		next.Focus.BreakMinutes, err = strconv.Atoi(value)
	case KeyFocusTick:
		next.Focus.Tick, err = time.ParseDuration(value)
	case KeyAlarmPollInterval:
		next.Alarm.PollInterval, err = time.ParseDuration(value)
	case KeyAlarmBell:
		next.Alarm.Bell, err = strconv.ParseBool(value)
	case KeyLogLevel:
		next.Log.Level = strings.ToLower(value)
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Dir returns the absolute path to the data directory.
func (c *Config) Dir() string { return c.dir }

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string { return filepath.Join(c.dir, ConfigFileName) }

// TasksPath returns the absolute path to the task file.
func (c *Config) TasksPath() string { return c.resolve(c.TasksFile) }

// AlarmsPath returns the absolute path to the alarm file.
func (c *Config) AlarmsPath() string { return c.resolve(c.AlarmsFile) }

// HistoryPath returns the absolute path to the focus history log.
func (c *Config) HistoryPath() string { return c.resolve(c.HistoryFile) }

// WorkDuration returns the focus work phase length.
func (c *Config) WorkDuration() time.Duration {
	return time.Duration(c.Focus.WorkMinutes) * time.Minute
}

// BreakDuration returns the focus break phase length.
func (c *Config) BreakDuration() time.Duration {
	return time.Duration(c.Focus.BreakMinutes) * time.Minute
}

// LogLevel returns the configured log level, falling back to warn.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// newValidator reports fields by their config key instead of the Go name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}
