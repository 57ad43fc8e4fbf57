// Package watch re-runs the staging pipeline when the example source tree changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/bookstage/internal/logfields"
)

// RunFunc performs one pipeline run. Errors are logged and do not stop watching.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	SourceRoot string
	// DestRoot is ignored when it lies inside SourceRoot so staging does not retrigger itself.
	DestRoot       string
	Debounce       time.Duration
	ResyncInterval time.Duration // 0 disables periodic resync
}

// Watcher watches the source root and every example directory below it.
// Runs are serialized on the goroutine that called Run.
type Watcher struct {
	opts      Options
	run       RunFunc
	fs        *fsnotify.Watcher
	scheduler gocron.Scheduler
	started   bool
	resyncCh  chan struct{}
}

// New creates a watcher. Nothing is watched until Run is called.
func New(opts Options, run RunFunc) (*Watcher, error) {
	root, err := filepath.Abs(opts.SourceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve source root: %w", err)
	}
	opts.SourceRoot = root
	if opts.DestRoot != "" {
		if opts.DestRoot, err = filepath.Abs(opts.DestRoot); err != nil {
			return nil, fmt.Errorf("resolve dest root: %w", err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Watcher{
		opts:      opts,
		run:       run,
		fs:        fw,
		scheduler: s,
		resyncCh:  make(chan struct{}, 1),
	}, nil
}

// Run performs an initial run and then re-runs after debounced source changes
// and on every resync tick. It blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	if err := w.addTree(); err != nil {
		return err
	}
	slog.Info("Watching example sources", logfields.Source(w.opts.SourceRoot),
		slog.Duration("debounce", w.opts.Debounce),
		slog.Duration("resync_interval", w.opts.ResyncInterval))

	w.runOnce(ctx, "initial")

	if w.opts.ResyncInterval > 0 {
		if _, err := w.scheduler.NewJob(
			gocron.DurationJob(w.opts.ResyncInterval),
			gocron.NewTask(w.requestResync),
			gocron.WithName("resync"),
		); err != nil {
			return fmt.Errorf("failed to create resync job: %w", err)
		}
		w.scheduler.Start()
		w.started = true
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if event.Op.Has(fsnotify.Create) {
				w.watchIfDir(event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.runOnce(ctx, "change")
		case <-w.resyncCh:
			w.runOnce(ctx, "resync")
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Source watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	err := w.run(ctx)
	if err != nil {
		slog.Error("Pipeline run failed", slog.String("trigger", trigger),
			logfields.Duration(time.Since(start)), logfields.Error(err))
		return
	}
	slog.Info("Pipeline run complete", slog.String("trigger", trigger), logfields.Duration(time.Since(start)))
}

// requestResync is called by gocron; a pending resync absorbs further ticks.
func (w *Watcher) requestResync() {
	select {
	case w.resyncCh <- struct{}{}:
	default:
	}
}

// addTree watches the source root and its immediate, non-hidden child directories.
func (w *Watcher) addTree() error {
	if err := w.fs.Add(w.opts.SourceRoot); err != nil {
		return fmt.Errorf("failed to watch source root %s: %w", w.opts.SourceRoot, err)
	}
	entries, err := os.ReadDir(w.opts.SourceRoot)
	if err != nil {
		return fmt.Errorf("read source root %s: %w", w.opts.SourceRoot, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.watchIfDir(filepath.Join(w.opts.SourceRoot, e.Name()))
		}
	}
	return nil
}

func (w *Watcher) watchIfDir(path string) {
	if filepath.Dir(path) != w.opts.SourceRoot || strings.HasPrefix(filepath.Base(path), ".") || w.inDest(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fs.Add(path); err != nil {
		slog.Warn("Failed to watch example directory", logfields.Path(path), logfields.Error(err))
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod || w.inDest(event.Name) {
		return false
	}
	rel, err := filepath.Rel(w.opts.SourceRoot, event.Name)
	if err != nil {
		return false
	}
	for part := range strings.SplitSeq(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." {
			return false
		}
	}
	return true
}

func (w *Watcher) inDest(path string) bool {
	if w.opts.DestRoot == "" {
		return false
	}
	rel, err := filepath.Rel(w.opts.DestRoot, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) close() {
	if w.started {
		if err := w.scheduler.Shutdown(); err != nil {
			slog.Debug("Scheduler shutdown", logfields.Error(err))
		}
	}
	if err := w.fs.Close(); err != nil {
		slog.Error("Error closing file watcher", logfields.Error(err))
	}
}
