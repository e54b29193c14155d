// Package watch keeps the bundles current: it rebuilds when list files
// change on disk and, optionally, pulls the content repository on a schedule.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/logfields"
)

// DefaultQuietWindow is how long file events must settle before a rebuild.
const DefaultQuietWindow = 300 * time.Millisecond

// Watcher rebuilds on change.
type Watcher struct {
	// Dir is watched recursively.
	Dir string
	// Rebuild runs one full build. Errors are logged and the watcher keeps going.
	Rebuild func(ctx context.Context) error
	// Pull updates the content; it reports whether anything changed.
	// Required when PullEvery is set.
	Pull func(ctx context.Context) (bool, error)
	// PullEvery schedules Pull; zero disables it.
	PullEvery time.Duration
	// QuietWindow defaults to DefaultQuietWindow.
	QuietWindow time.Duration
}

// Run builds once, then watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Rebuild == nil {
		return errors.ValidationError("rebuild function is required").Build()
	}
	if w.PullEvery > 0 && w.Pull == nil {
		return errors.ValidationError("pull function is required when pulling on a schedule").Build()
	}
	window := w.QuietWindow
	if window <= 0 {
		window = DefaultQuietWindow
	}

	w.rebuild(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() { _ = fw.Close() }()
	if err := addDirsRecursive(fw, w.Dir); err != nil {
		return errors.FileSystemError("failed to watch lists directory").
			WithCause(err).
			WithContext("path", w.Dir).
			Build()
	}

	requests, trigger := newDebouncer(window)
	w.startWorker(ctx, requests)

	if w.PullEvery > 0 {
		s, err := w.schedulePull(ctx, trigger)
		if err != nil {
			return err
		}
		defer func() { _ = s.Shutdown() }()
	}

	slog.Info("Watching for changes", logfields.Path(w.Dir))
	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			handleFileEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	if err := w.Rebuild(ctx); err != nil {
		slog.Error("Rebuild failed", logfields.Error(err))
		return
	}
	slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}

// newDebouncer returns a request channel and a trigger that delivers one
// request once calls have been quiet for window.
func newDebouncer(window time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	requests := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(window, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}
	return requests, trigger
}

// startWorker runs rebuilds one at a time. requests holds at most one
// entry, so requests arriving mid-build collapse into a single follow-up.
func (w *Watcher) startWorker(ctx context.Context, requests <-chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				w.rebuild(ctx)
			}
		}
	}()
}

func (w *Watcher) schedulePull(ctx context.Context, trigger func()) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.InternalError("failed to create scheduler").WithCause(err).Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.PullEvery),
		gocron.NewTask(func() { w.pullOnce(ctx, trigger) }),
		gocron.WithName("pull-content"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.InternalError("failed to schedule pull").WithCause(err).Build()
	}
	s.Start()
	slog.Info("Scheduled content pulls", slog.Duration("interval", w.PullEvery))
	return s, nil
}

func (w *Watcher) pullOnce(ctx context.Context, trigger func()) {
	updated, err := w.Pull(ctx)
	if err != nil {
		slog.Warn("Scheduled pull failed", logfields.Error(err))
		return
	}
	if updated {
		slog.Info("Content updated upstream")
		trigger()
	}
}

func handleFileEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// shouldIgnoreEvent filters hidden files, editor swap files and OS litter.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
