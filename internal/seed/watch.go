package seed

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/h0rv/imgboard/internal/logger"
)

// ErrWatcherClosed is returned by Wait once the watcher has been closed.
var ErrWatcherClosed = errors.New("seed watcher closed")

// DefaultDebounce is how long a burst of file events must stay quiet before
// it is reported as one change.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a seed file. It watches the parent directory so
// editors that replace the file on save are still seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      logger.Logger
}

// NewWatcher starts watching the seed file at path. Watch errors are logged
// to log and do not end the watch.
func NewWatcher(path string, debounce time.Duration, log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Discard()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seed path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch seed directory: %w", err)
	}

	return &Watcher{path: abs, watcher: w, debounce: debounce, log: log.WithComponent("watch")}, nil
}

// Wait blocks until the seed file has been written or created and the
// events have settled for the debounce period.
func (w *Watcher) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.log.Warn("seed watch error", logger.WithField("path", w.path), logger.WithField("error", err))
		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if w.relevant(event) {
				return w.settle(ctx)
			}
		}
	}
}

func (w *Watcher) settle(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				timer.Reset(w.debounce)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	return filepath.Clean(event.Name) == w.path &&
		event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
