package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts such as a folder copy into one signal.
const DefaultDebounce = 2 * time.Second

// Watcher signals when title folders appear in or vanish from library roots.
type Watcher struct {
	Roots    []string
	Debounce time.Duration
	Logger   *slog.Logger

	mu      sync.Mutex
	active  bool
	signals int
}

// NewWatcher watches roots with the default debounce.
func NewWatcher(logger *slog.Logger, roots ...string) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{Roots: roots, Debounce: DefaultDebounce, Logger: logger}
}

// Watch starts watching and returns a channel receiving one value per
// debounced burst of changes. Pending signals coalesce. The channel closes
// once ctx is done or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	for _, root := range w.Roots {
		if err := fw.Add(root); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	out := make(chan struct{}, 1)
	w.setActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer fw.Close()
		defer w.setActive(false)
		return w.loop(ctx, fw, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.Logger.Error("library watcher stopped", "error", err)
	}))

	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- struct{}) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
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

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !relevant(event) {
				continue
			}
			w.Logger.Debug("library changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.Logger.Warn("fsnotify error", "error", err)

		case <-fire:
			fire = nil
			w.mu.Lock()
			w.signals++
			w.mu.Unlock()
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// relevant keeps folder arrivals, removals and renames.
func relevant(event fsnotify.Event) bool {
	if isScratch(filepath.Base(event.Name)) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}
