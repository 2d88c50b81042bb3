package tasks_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/start/reporter"
	"github.com/kbukum/start/runner"
	"github.com/kbukum/start/tasks"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "skip.md")

	batches := make(chan []string, 4)
	onChange := func(changed []string) runner.Pipeline {
		return runner.New(runner.Noop()).Compose(runner.Do(func(_ context.Context, in any) (any, error) {
			batches <- changed
			return in, nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := reporter.NewRecorder()
	done := make(chan error, 1)
	go func() {
		_, err := runner.New(rec.Reporter()).Compose(
			tasks.Watch([]string{filepath.Join(dir, "*.txt")}, onChange, tasks.WithDebounce(50*time.Millisecond)),
		)(ctx, nil)
		done <- err
	}()

	select {
	case got := <-batches:
		assert.Equal(t, []string{filepath.Join(dir, "a.txt")}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial run")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("x"), 0o644))

	select {
	case got := <-batches:
		assert.Equal(t, []string{filepath.Join(dir, "b.txt")}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Equal(t, []runner.Event{runner.EventStart, runner.EventResolve}, rec.Kinds("watch"))
}

func TestWatch_MissingDir(t *testing.T) {
	step := tasks.Watch([]string{filepath.Join(t.TempDir(), "nope", "*.txt")}, nil, tasks.SkipInitial())
	_, err := runner.New(runner.Noop()).Compose(step)(context.Background(), nil)
	assert.Error(t, err)
}

func TestWatch_NewNestedDirectories(t *testing.T) {
	dir := t.TempDir()

	batches := make(chan []string, 16)
	onChange := func(changed []string) runner.Pipeline {
		return runner.New(runner.Noop()).Compose(runner.Do(func(_ context.Context, in any) (any, error) {
			batches <- changed
			return in, nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := runner.New(runner.Noop()).Compose(
			runner.Do(func(_ context.Context, in any) (any, error) {
				close(ready)
				return in, nil
			}),
			tasks.Watch([]string{filepath.Join(dir, "**", "*.txt")}, onChange,
				tasks.WithDebounce(50*time.Millisecond), tasks.SkipInitial()),
		)(ctx, nil)
		done <- err
	}()
	<-ready
	// Give the watcher time to register the root directory.
	time.Sleep(100 * time.Millisecond)

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	target := filepath.Join(nested, "c.txt")
	require.NoError(t, os.WriteFile(target, []byte("c"), 0o644))

	deadline := time.After(5 * time.Second)
	for found := false; !found; {
		select {
		case got := <-batches:
			found = slices.Contains(got, target)
		case <-deadline:
			t.Fatal("timed out waiting for file in new nested directory")
		}
	}

	cancel()
	require.NoError(t, <-done)
}
