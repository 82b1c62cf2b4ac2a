package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/logger"
)

// DefaultDebounce coalesces bursts of writes into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ReloadCallback receives the freshly loaded document.
type ReloadCallback func(*Document) error

// Watcher reloads a configuration document when it, or any of the
// extra watched inputs, change on disk.
type Watcher struct {
	configPath     string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	watched        map[string]bool
	stopOnce       sync.Once
}

// NewWatcher watches configPath and any extra paths.
func NewWatcher(configPath string, extra ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &Watcher{
		configPath:     configPath,
		watcher:        fw,
		debouncePeriod: DefaultDebounce,
		watched:        make(map[string]bool),
	}
	for _, p := range append([]string{configPath}, extra...) {
		if err := w.Add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Add watches another input path. Empty and already watched paths are ignored.
func (w *Watcher) Add(path string) error {
	if path == "" {
		return nil
	}
	clean := filepath.Clean(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[clean] {
		return nil
	}
	if err := w.watcher.Add(clean); err != nil {
		return errors.Wrapf(err, "failed to watch %s", clean)
	}
	w.watched[clean] = true
	return nil
}

// SetDebounce changes the debounce period.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

// OnReload registers a callback invoked after every successful reload.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Infow("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			if event.Op&fsnotify.Rename != 0 {
				// editors that save by rename drop the watch
				_ = w.watcher.Add(event.Name)
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.reload(); err != nil {
			logger.Errorw("Config reload failed", logger.FieldError, err)
		}
	})
}

func (w *Watcher) reload() error {
	doc, err := Load(w.configPath)
	if err != nil {
		return err
	}
	logger.Infow("Config reloaded", logger.FieldPath, w.configPath)

	w.mu.RLock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		if err := cb(doc); err != nil {
			logger.Warnw("Config reload callback error", logger.FieldError, err)
		}
	}
	return nil
}

// Stop stops watching and cancels a pending reload.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}
