package simconf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Holder keeps the active configuration for a watched file and reloads
// it on change. Access is thread-safe and reloads are atomic: either the
// new document resolves fully and is swapped in, or the old configuration
// stays active and the error is reported.
type Holder struct {
	mu      sync.RWMutex
	current Config
	path    string
	watcher *fsnotify.Watcher
	logger  Logger

	listenerMu sync.RWMutex
	listeners  []chan<- Config
}

// NewHolder loads the file once and returns a holder for it. The initial
// load failing is fatal so a daemon never starts on a broken document.
func NewHolder(path string, logger Logger) (*Holder, error) {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Holder{
		current:   cfg,
		path:      path,
		logger:    logger,
		listeners: make([]chan<- Config, 0),
	}, nil
}

// Get returns the current configuration (thread-safe read).
func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Path returns the watched file path.
func (h *Holder) Path() string {
	return h.path
}

// Reload re-resolves the file. If it fails, the old configuration is
// kept and the error is returned; on success the new configuration is
// swapped in and listeners are notified.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Infof("reloading configuration from %s", h.path)

	newCfg, err := LoadFile(h.path)
	if err != nil {
		h.logger.Errorf("failed to reload configuration: %v", err)
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	h.notifyListeners(newCfg)
	h.logChanges(oldCfg, newCfg)
	h.logger.Infof("configuration reloaded successfully")

	return nil
}

// StartWatcher starts watching the config file for changes.
func (h *Holder) StartWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	h.watcher = watcher

	if err := watcher.Add(h.path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	h.logger.Infof("watching %s for changes", h.path)
	go h.watchLoop(ctx)

	return nil
}

// watchLoop is the main file watcher loop.
func (h *Holder) watchLoop(ctx context.Context) {
	// Debounce rapid successive events so one save triggers one reload
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			h.logger.Infof("config watcher stopped")
			if h.watcher != nil {
				_ = h.watcher.Close()
			}
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Write and Create cover plain writes and editors that
			// replace the file
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				h.logger.Debugf("config file changed: %s", event.Op)

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, func() {
					if err := h.Reload(ctx); err != nil {
						h.logger.Errorf("automatic reload failed: %v", err)
					}
				})
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Errorf("config watcher error: %v", err)
		}
	}
}

// Stop stops the config watcher (if running).
func (h *Holder) Stop() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}

// RegisterListener registers a channel that receives the new
// configuration whenever a reload succeeds. The caller owns the channel.
func (h *Holder) RegisterListener(ch chan<- Config) {
	h.listenerMu.Lock()
	defer h.listenerMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

// notifyListeners sends the new config to all registered listeners (non-blocking).
func (h *Holder) notifyListeners(newCfg Config) {
	h.listenerMu.RLock()
	defer h.listenerMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warnf("skipped notifying reload listener (channel full)")
		}
	}
}

// logChanges logs what a successful reload actually changed.
func (h *Holder) logChanges(old, newCfg Config) {
	if old.Name != newCfg.Name {
		h.logger.Infof("config changed: name %q -> %q", old.Name, newCfg.Name)
	}
	if len(old.Elements) != len(newCfg.Elements) {
		h.logger.Infof("config changed: %d -> %d elements", len(old.Elements), len(newCfg.Elements))
	}
	if old.LJ != newCfg.LJ {
		h.logger.Infof("config changed: lj_params %+v -> %+v", old.LJ, newCfg.LJ)
	}
}
