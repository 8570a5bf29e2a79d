package sites

import (
	"fmt"
	"sync"
	"time"

	"github.com/bilgehannal/sitehost/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for events to settle
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches the sites directory for added and removed websites
type Watcher struct {
	dir      string
	ignore   []string
	logger   *utils.Logger
	watcher  *fsnotify.Watcher
	onChange func([]Site) error
	debounce time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewWatcher creates a new sites directory watcher
func NewWatcher(dir string, ignore []string, logger *utils.Logger, onChange func([]Site) error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		ignore:   ignore,
		logger:   logger,
		watcher:  fw,
		onChange: onChange,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}

	if err := w.watcher.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch sites directory: %w", err)
	}

	return w, nil
}

// SetDebounce changes the settle delay. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start starts watching for directory changes
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watch()
}

// watch monitors file system events
func (w *Watcher) watch() {
	defer w.wg.Done()

	w.logger.Info("Started watching sites directory: %s", w.dir)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only directory entries appearing, disappearing or being renamed matter
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			trigger = timer.C

		case <-trigger:
			trigger = nil
			if err := w.rescan(); err != nil {
				w.logger.Error("Failed to sync sites: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error: %v", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// rescan discovers sites and triggers the onChange callback
func (w *Watcher) rescan() error {
	found, err := Discover(w.dir, w.ignore)
	if err != nil {
		return err
	}

	w.logger.Info("Sites directory changed, %d site(s) found", len(found))

	if w.onChange != nil {
		if err := w.onChange(found); err != nil {
			return fmt.Errorf("onChange callback failed: %w", err)
		}
	}

	return nil
}

// Close stops the watcher
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
