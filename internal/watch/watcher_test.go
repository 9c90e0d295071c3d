package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_RunsHandlerOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "geometry.txt")
	writeFile(t, path, "v1\n")

	var runs atomic.Int32
	var gotPath atomic.Value
	w, err := New(path, 50*time.Millisecond, func(_ context.Context, p string) error {
		gotPath.Store(p)
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	// Several quick writes settle into one run.
	for i := 0; i < 3; i++ {
		writeFile(t, path, "v2\n")
	}

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	w.Stop()

	assert.False(t, w.IsWatching())
	assert.Equal(t, w.Path(), gotPath.Load())
	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.Equal(t, int(runs.Load()), stats.Runs)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "geometry.txt")
	writeFile(t, path, "v1\n")

	var runs atomic.Int32
	w, err := New(path, 20*time.Millisecond, func(context.Context, string) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	writeFile(t, filepath.Join(dir, "other.txt"), "x\n")
	time.Sleep(200 * time.Millisecond)
	w.Stop()

	assert.Equal(t, int32(0), runs.Load())
	assert.Equal(t, 0, w.Stats().Events)
}

func TestWatcher_RecordsHandlerErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "geometry.txt")
	writeFile(t, path, "v1\n")

	boom := errors.New("bad descriptor")
	w, err := New(path, 20*time.Millisecond, func(context.Context, string) error { return boom })
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	writeFile(t, path, "v2\n")
	require.Eventually(t, func() bool { return w.Stats().Runs >= 1 }, 5*time.Second, 20*time.Millisecond)
	w.Stop()

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Errors, 1)
	assert.ErrorIs(t, stats.LastError, boom)
}

func TestWatcher_ContextCancelStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "geometry.txt")
	writeFile(t, path, "v1\n")

	w, err := New(path, 0, func(context.Context, string) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx), "second start is a no-op")
	cancel()

	w.Stop()
	assert.False(t, w.IsWatching())
}

func TestNew_Errors(t *testing.T) {
	_, err := New("geometry.txt", 0, nil)
	assert.Error(t, err)
}

func TestStart_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "missing", "geometry.txt"), 0, func(context.Context, string) error { return nil })
	require.NoError(t, err)

	assert.Error(t, w.Start(context.Background()))
	assert.False(t, w.IsWatching())
	w.Stop()
}
