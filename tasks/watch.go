package tasks

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/runner"
)

// DefaultDebounce is how long Watch waits for more changes before running.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	clock    clockwork.Clock
	initial  bool
}

// WithDebounce sets the quiet period that closes a batch of changes.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) { o.debounce = d }
}

// WithWatchClock sets the clock used for debouncing.
func WithWatchClock(c clockwork.Clock) WatchOption {
	return func(o *watchOptions) { o.clock = c }
}

// SkipInitial disables the first run over the files matching at start.
func SkipInitial() WatchOption {
	return func(o *watchOptions) { o.initial = false }
}

// Watch returns a step that runs onChange(files) for the files matching
// patterns when it starts, then again for every batch of created or
// modified matching files. It returns its input once ctx is canceled.
// A failing batch is logged and watching continues.
func Watch(patterns []string, onChange func(changed []string) runner.Pipeline, opts ...WatchOption) runner.Step {
	o := watchOptions{debounce: DefaultDebounce, clock: clockwork.NewRealClock(), initial: true}
	for _, opt := range opts {
		opt(&o)
	}

	return runner.Task("watch", func(ctx context.Context, input any, log runner.LogFunc, _ runner.Reporter) (any, error) {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, errors.Internal(err)
		}
		defer w.Close()

		for _, p := range patterns {
			if err := addWatchDirs(w, p); err != nil {
				return nil, err
			}
		}

		run := func(files []string) {
			if onChange == nil || len(files) == 0 {
				return
			}
			p := onChange(files)
			if p == nil {
				return
			}
			if _, err := p(ctx, files); err != nil {
				log(err)
			}
		}

		if o.initial {
			files, err := expand(patterns)
			if err != nil {
				return nil, err
			}
			run(files)
		}

		pending := make(map[string]struct{})
		var timer clockwork.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return input, nil

			case ev, ok := <-w.Events:
				if !ok {
					return input, nil
				}
				var changed []string
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						changed = addNewDir(w, patterns, ev.Name)
					}
				}
				if (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) && matchesAny(patterns, ev.Name) {
					changed = append(changed, ev.Name)
				}
				if len(changed) == 0 {
					continue
				}
				for _, name := range changed {
					pending[filepath.Clean(name)] = struct{}{}
				}
				if timer == nil {
					timer = o.clock.NewTimer(o.debounce)
				} else {
					timer.Reset(o.debounce)
				}
				fire = timer.Chan()

			case err, ok := <-w.Errors:
				if !ok {
					return input, nil
				}
				log(err)

			case <-fire:
				batch := make([]string, 0, len(pending))
				for p := range pending {
					batch = append(batch, p)
				}
				slices.Sort(batch)
				clear(pending)
				timer, fire = nil, nil
				run(batch)
			}
		}
	})
}

// addWatchDirs watches the static base directory of pattern, and every
// directory below it when the pattern contains "**".
func addWatchDirs(w *fsnotify.Watcher, pattern string) error {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	base = filepath.FromSlash(base)
	if !strings.Contains(rest, "**") {
		if err := w.Add(base); err != nil {
			return errors.IO("watch", base, err)
		}
		return nil
	}
	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.IO("watch", path, err)
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return errors.IO("watch", path, err)
			}
		}
		return nil
	})
}

// addNewDir watches dir and every directory below it when a recursive
// pattern covers dir. It returns the matching files already inside, which
// were created before the watches were added.
func addNewDir(w *fsnotify.Watcher, patterns []string, dir string) []string {
	if !recursiveCovers(patterns, dir) {
		return nil
	}
	var found []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			_ = w.Add(path)
			return nil
		}
		if matchesAny(patterns, path) {
			found = append(found, path)
		}
		return nil
	})
	return found
}

func recursiveCovers(patterns []string, dir string) bool {
	dir = filepath.ToSlash(filepath.Clean(dir))
	for _, p := range patterns {
		base, rest := doublestar.SplitPattern(filepath.ToSlash(p))
		if !strings.Contains(rest, "**") {
			continue
		}
		if base == "." || dir == base || strings.HasPrefix(dir, strings.TrimSuffix(base, "/")+"/") {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, name string) bool {
	name = filepath.ToSlash(filepath.Clean(name))
	for _, p := range patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(filepath.Clean(p)), name); ok {
			return true
		}
	}
	return false
}
