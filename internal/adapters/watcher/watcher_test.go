package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/adapters/watcher"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_EmitsEventsOutsideIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "scss"), domain.DirPerm))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), domain.DirPerm))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, w.Start(ctx, root, []string{"dist"}))

	got := make(chan ports.WatchEvent, 1)
	go func() {
		for ev := range w.Events() {
			got <- ev
			return
		}
	}()

	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "main.css"), []byte("x"), domain.PrivateFilePerm))
	target := filepath.Join(root, "src", "scss", "main.scss")
	require.NoError(t, os.WriteFile(target, []byte("a{}"), domain.PrivateFilePerm))

	select {
	case ev := <-got:
		assert.Equal(t, target, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watch event")
	}
}

func TestWatcher_IgnoresAreRootedAtProject(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"dist", "node_modules/pkg", "src/dist", "src/node_modules"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), domain.DirPerm))
	}

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, w.Start(ctx, root, []string{"./dist/", "node_modules"}))

	got := make(chan ports.WatchEvent, 8)
	go func() {
		for ev := range w.Events() {
			got <- ev
		}
	}()

	next := func() ports.WatchEvent {
		t.Helper()
		select {
		case ev := <-got:
			return ev
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a watch event")
			return ports.WatchEvent{}
		}
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "dist", "main.css"), []byte("x"), domain.PrivateFilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "pkg", "a.js"), []byte("x"), domain.PrivateFilePerm))

	nested := filepath.Join(root, "src", "dist", "main.scss")
	require.NoError(t, os.WriteFile(nested, []byte("a{}"), domain.PrivateFilePerm))
	assert.Equal(t, nested, next().Path, "a nested dist directory is watched")

	vendored := filepath.Join(root, "src", "node_modules", "lib.js")
	require.NoError(t, os.WriteFile(vendored, []byte("b"), domain.PrivateFilePerm))
	for {
		ev := next()
		require.NotContains(t, ev.Path, filepath.Join(root, "dist")+string(filepath.Separator))
		require.NotContains(t, ev.Path, filepath.Join(root, "node_modules")+string(filepath.Separator))
		if ev.Path == vendored {
			break
		}
	}
}

func TestWatcher_EventsCloseOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, w.Start(ctx, t.TempDir(), nil))
	cancel()

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events iterator did not end after cancellation")
	}
}
