package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresForWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tasks.yml")
	other := filepath.Join(dir, "other.txt")

	var calls atomic.Int32
	w, err := New([]string{target}, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	time.Sleep(3 * debounceDelay)
	assert.Zero(t, calls.Load())

	require.NoError(t, os.WriteFile(target, []byte("- a\n"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("- a\n- b\n"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(3 * debounceDelay)
	assert.Equal(t, int32(1), calls.Load(), "rapid writes are coalesced")
}

func TestNew_CreatesMissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "not", "yet", "tasks.yml")

	w, err := New([]string{target}, func() {})
	require.NoError(t, err)
	defer w.Close()

	assert.DirExists(t, filepath.Dir(target))
}
