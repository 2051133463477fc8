package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/config"
)

func TestIsUsageError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New(`unknown command "frob" for "quadono"`), true},
		{errors.New("unknown flag: --frob"), true},
		{errors.New("accepts 1 arg(s), received 0"), true},
		{errors.New("requires at least 1 arg(s), only received 0"), true},
		{errors.New(`invalid argument "x" for "--work" flag`), true},
		{errors.New("flag needs an argument: --task"), true},
		{errors.New("writing tasks: disk full"), false},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, isUsageError(tt.err))
		})
	}
}

func TestConfigError(t *testing.T) {
	unknown := configError(fmt.Errorf("%w %q", config.ErrUnknownKey, "nope"), "nope")
	assert.True(t, clierr.HasCode(unknown, clierr.InvalidInput))

	invalid := configError(fmt.Errorf("%w: focus.work_minutes", config.ErrInvalid), "focus.work_minutes")
	assert.True(t, clierr.HasCode(invalid, clierr.InvalidConfig))

	other := errors.New("boom")
	assert.Equal(t, other, configError(other, "log.level"))
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"add"}, {"list"}, {"ls"}, {"done"}, {"del"}, {"rm"}, {"show"},
		{"pom"}, {"pomodoro"}, {"25"}, {"alarm"}, {"alarm", "list"},
		{"history"}, {"board"}, {"tui"}, {"init"}, {"config"}, {"config", "set"},
	} {
		cmd, _, err := rootCmd.Find(path)
		if assert.NoError(t, err, path) {
			assert.NotEqual(t, rootCmd, cmd, path)
		}
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(clierr.New(clierr.InvalidTime, "bad time")))
	assert.Equal(t, 1, exitCode(fmt.Errorf("wrapped: %w", clierr.New(clierr.InvalidInput, "x"))))
	assert.Equal(t, 2, exitCode(clierr.New(clierr.InternalError, "boom")))
	assert.Equal(t, 1, exitCode(errors.New("unknown flag: --frob")))
	assert.Equal(t, 2, exitCode(errors.New("writing tasks: disk full")))
}
