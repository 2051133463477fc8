package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

// execute runs the CLI with args against dir and returns what it printed on
// stdout. Flag values and command contexts are reset afterwards so runs do
// not leak into each other.
func execute(ctx context.Context, t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QUADONO_OUTPUT", "")
	t.Setenv("QUADONO_DIR", "")

	stdout, err := os.CreateTemp(t.TempDir(), "stdout")
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = stdout
	defer func() {
		os.Stdout = orig
		_ = stdout.Close()
		resetCommands(rootCmd)
	}()

	rootCmd.SetArgs(append(args, "--dir", dir, "--no-color"))
	runErr := rootCmd.ExecuteContext(ctx)

	out, err := os.ReadFile(stdout.Name())
	require.NoError(t, err)
	return string(out), runErr
}

func resetCommands(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SetContext(nil) //nolint:staticcheck // cobra only inherits the run context into nil contexts
	for _, sub := range c.Commands() {
		resetCommands(sub)
	}
}

func readTasks(t *testing.T, dir string) []task.Task {
	t.Helper()
	tasks, err := task.ReadFile(filepath.Join(dir, "tasks.yml"))
	require.NoError(t, err)
	return tasks
}

func TestAddListDone(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	out, err := execute(ctx, t, dir, "add", "Pay taxes", "1", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay taxes")

	out, err = execute(ctx, t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay taxes")

	_, err = execute(ctx, t, dir, "done", "pay taxes")
	require.NoError(t, err)
	tasks := readTasks(t, dir)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Done)
}

func TestAdd_RejectsBadQuadrant(t *testing.T) {
	_, err := execute(context.Background(), t, t.TempDir(), "add", "Pay taxes", "5", "60")
	assert.True(t, clierr.HasCode(err, clierr.InvalidQuadrant), "got %v", err)
}

func TestNotFoundIsReportedNotFatal(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	_, err := execute(ctx, t, dir, "add", "Keep me", "2", "5")
	require.NoError(t, err)

	for _, args := range [][]string{{"done", "nope"}, {"del", "nope"}, {"show", "nope"}} {
		out, err := execute(ctx, t, dir, args...)
		require.NoError(t, err, args)
		assert.Contains(t, out, "Task not found: nope", args)
	}
	assert.Len(t, readTasks(t, dir), 1)

	out, err := execute(ctx, t, dir, "done", "nope", "--json")
	require.NoError(t, err)
	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "not_found", resp["status"])
}

func TestDel_MultipleMatchesWithoutTerminal(t *testing.T) {
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })

	dir := t.TempDir()
	ctx := context.Background()
	for _, q := range []string{"1", "3"} {
		_, err := execute(ctx, t, dir, "add", "Standup", q, "15")
		require.NoError(t, err)
	}
	_, err := execute(ctx, t, dir, "add", "Other", "2", "5")
	require.NoError(t, err)

	out, err := execute(ctx, t, dir, "del", "standup")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Deleted"))

	tasks := readTasks(t, dir)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Other", tasks[0].Title)
}

func TestPom_UnknownTaskStartsNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := execute(ctx, t, dir, "pom", "--task", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "Task not found: nope")
	assert.NotContains(t, out, "[focus]")

	assert.NoFileExists(t, filepath.Join(dir, "alarms.txt"), "the monitor must not start")
	assert.NoFileExists(t, filepath.Join(dir, "history.jsonl"))
}

func TestAlarm_RejectsBadTime(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(context.Background(), t, dir, "alarm", "25:00", "late")
	assert.True(t, clierr.HasCode(err, clierr.InvalidTime), "got %v", err)
	assert.NoFileExists(t, filepath.Join(dir, "alarms.txt"))
}

func TestAlarm_NoWaitThenList(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := execute(ctx, t, dir, "alarm", "7:05", "stand", "up", "--no-wait")
	require.NoError(t, err)

	out, err := execute(ctx, t, dir, "alarm", "list", "--json")
	require.NoError(t, err)
	var alarms []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &alarms))
	require.Len(t, alarms, 1)
	assert.Equal(t, "07:05", alarms[0]["time"])
	assert.Equal(t, "stand up", alarms[0]["note"])
}

func TestAlarm_AppendsThenWatchesUntilStopped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alarms.txt")
	// Two hours out so the alarm cannot fire while the test runs.
	at := time.Now().Add(2 * time.Hour).Format("15:04")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	outCh := make(chan string, 1)
	go func() {
		out, err := execute(ctx, t, dir, "alarm", at, "stand", "up")
		outCh <- out
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), at+"|stand up")
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case err := <-errCh:
		t.Fatalf("alarm returned before it was stopped: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("alarm did not stop after cancellation")
	}
	out := <-outCh
	assert.Contains(t, out, "Alarm set for "+at)
	assert.Contains(t, out, "Watching alarms")
}

func TestConfigSetGet(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := execute(ctx, t, dir, "config", "set", "focus.work_minutes", "45")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.yml"))

	out, err := execute(ctx, t, dir, "config", "get", "focus.work_minutes")
	require.NoError(t, err)
	assert.Equal(t, "45\n", out)

	_, err = execute(ctx, t, dir, "config", "set", "alarm.poll_interval", "1m")
	assert.True(t, clierr.HasCode(err, clierr.InvalidConfig), "got %v", err)

	_, err = execute(ctx, t, dir, "init")
	assert.True(t, clierr.HasCode(err, clierr.ConfigExists), "got %v", err)
}
