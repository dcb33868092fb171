package watchlist

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stefanclaw/watchfilter/internal/log"
)

// Watch reports changes to the file at path. Bursts of events within debounce
// collapse into one notification. The channel is closed when ctx is done.
//
// The parent directory is watched rather than the file so that editors which
// save by renaming a temporary file are still seen.
func Watch(ctx context.Context, path string, debounce time.Duration) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	go watchLoop(ctx, w, abs, debounce, out)
	return out, nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, debounce time.Duration, out chan<- struct{}) {
	defer close(out)
	defer w.Close()

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
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || ev.Op == fsnotify.Chmod {
				continue
			}
			log.Debugf("watchlist: %s", ev)
			if debounce <= 0 {
				notify(out)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			notify(out)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warnf("watchlist: watcher error: %v", err)
		}
	}
}

// notify never blocks; one pending notification is enough to trigger a reload.
func notify(out chan<- struct{}) {
	select {
	case out <- struct{}{}:
	default:
	}
}
