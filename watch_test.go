package videoshelf

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherResyncsOnChange(t *testing.T) {
	syncer, store, dir := newTestSyncer(t, sampleContent, nil)
	// The store's own goroutines predate the snapshot.
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := syncer.Sync(ctx)
	require.NoError(t, err)

	w, err := NewWatcher(syncer, 30*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	writeFiles(t, dir, map[string]string{
		"videos/d-new.md": videoDoc("Brand New Talk", ""),
	})

	require.Eventually(t, func() bool {
		n, err := store.Count(ctx)
		return err == nil && n == 5
	}, 3*time.Second, 20*time.Millisecond)

	w.Stop()
}

func TestWatcherWatchesNewDirectories(t *testing.T) {
	syncer, store, dir := newTestSyncer(t, sampleContent, nil)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := context.Background()

	w, err := NewWatcher(syncer, 30*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	writeFiles(t, dir, map[string]string{"talks/2024/e.md": videoDoc("Nested", "")})

	require.Eventually(t, func() bool {
		n, err := store.Count(ctx)
		return err == nil && n == 5
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherStartFailureLeavesStopped(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	syncer := NewSyncer(filepath.Join(t.TempDir(), "missing"), store, nil, nil)
	w, err := NewWatcher(syncer, 30*time.Millisecond, nil)
	require.NoError(t, err)
	require.Error(t, w.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	syncer, _, _ := newTestSyncer(t, nil, nil)
	w, err := NewWatcher(syncer, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, w.debounce)
	w.Stop()
}

func TestWatcherRelevant(t *testing.T) {
	w := &Watcher{}
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"markdown write", fsnotify.Event{Name: "/c/videos/a.md", Op: fsnotify.Write}, true},
		{"mdx create", fsnotify.Event{Name: "/c/a.mdx", Op: fsnotify.Create}, true},
		{"directory", fsnotify.Event{Name: "/c/videos", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "/c/a.md", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "/c/.a.md.swp", Op: fsnotify.Write}, false},
		{"editor backup", fsnotify.Event{Name: "/c/a.md~", Op: fsnotify.Write}, false},
		{"image", fsnotify.Event{Name: "/c/cover.png", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}
