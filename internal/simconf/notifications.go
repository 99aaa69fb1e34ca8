package simconf

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Actions a ResolveEvent can report.
const (
	ActionLoad    = "load"    // initial load of a watched file
	ActionReload  = "reload"  // successful hot reload of a watched file
	ActionApply   = "apply"   // configuration stored in the registry
	ActionResolve = "resolve" // one-off resolution without storing
)

// ResolveEvent represents a configuration that was successfully resolved
type ResolveEvent struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Action    string   `json:"action"`
	Name      string   `json:"name,omitempty"`
	Elements  []string `json:"elements"`
	Generated bool     `json:"generated"`
	LJ        LJParams `json:"lj_params"`
	Timestamp int64    `json:"timestamp"`
}

// NewResolveEvent builds an event for a resolved configuration. Generated
// states whether the LJ parameters were derived rather than adopted from
// an explicit lj_params mapping.
func NewResolveEvent(source, action, name string, cfg Config, generated bool) ResolveEvent {
	return ResolveEvent{
		ID:        NewEventID(),
		Source:    source,
		Action:    action,
		Name:      name,
		Elements:  cfg.Elements,
		Generated: generated,
		LJ:        cfg.LJ,
		Timestamp: time.Now().Unix(),
	}
}

// JSON returns the resolve event as JSON bytes
func (e ResolveEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is the interface that all notification channels must implement
type Notifier interface {
	// ID returns a unique identifier for this notifier
	ID() string

	// Type returns the type of notifier (e.g., "webhook", "websocket")
	Type() string

	// Notify sends a resolve event. Returns an error if delivery fails.
	// The context can be used for cancellation and timeout.
	Notify(ctx context.Context, event ResolveEvent) error

	// Close closes the notifier and releases any resources
	Close() error
}

// NotificationManager manages all notifiers and fans resolve events out
// to them
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan ResolveEvent
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager(logger Logger) *NotificationManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	mgr := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan ResolveEvent, 1024),
		closed:    false,
		logger:    logger,
	}
	mgr.startWorkers(1)
	return mgr
}

// RegisterNotifier registers a notifier with the manager
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}

	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()

	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}

	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier removes a notifier from the manager
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	nm.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}

	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}

	nm.mu.Lock()
	delete(nm.notifiers, id)
	nm.mu.Unlock()

	return nil
}

// GetNotifier retrieves a notifier by ID
func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, exists := nm.notifiers[id]
	return notifier, exists
}

// ListNotifiers returns a list of all registered notifier IDs
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue enqueues a resolve event to be fanned out asynchronously to all
// registered notifiers. This method is non-blocking and will drop events
// if the queue is full.
func (nm *NotificationManager) Enqueue(event ResolveEvent) {
	nm.mu.RLock()
	closed := nm.closed
	nm.mu.RUnlock()

	if closed {
		return
	}

	// Best effort: if channel is full, drop and log
	select {
	case nm.jobs <- event:
	default:
		nm.logger.Warnf("notification queue full, dropping event: id=%s action=%s", event.ID, event.Action)
	}
}

// startWorkers starts n worker goroutines to process queued events
func (nm *NotificationManager) startWorkers(n int) {
	for i := 0; i < n; i++ {
		nm.wg.Add(1)
		go nm.worker()
	}
}

// worker processes events from the queue
func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for event := range nm.jobs {
		nm.dispatch(event)
	}
}

// dispatch fans an event out to all notifiers registered at dispatch time
func (nm *NotificationManager) dispatch(event ResolveEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range nm.ListNotifiers() {
		nm.notifyWithRetry(ctx, id, event)
	}
}

// notifyWithRetry attempts to send an event with exponential backoff retry
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifierID string, event ResolveEvent) {
	nm.mu.RLock()
	notifier, ok := nm.notifiers[notifierID]
	nm.mu.RUnlock()

	if !ok {
		nm.logger.Warnf("notification failed: notifier=%s error=notifier not found", notifierID)
		return
	}

	// Basic retry/backoff policy
	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifierID, attempt+1, err)

		if attempt == maxRetries {
			nm.logger.Errorf("notification failed after %d attempts: notifier=%s", maxRetries+1, notifierID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2 // exponential backoff
		}
	}
}

// Notify sends an event to the specified notifiers synchronously. For
// async fan-out, use Enqueue instead.
func (nm *NotificationManager) Notify(ctx context.Context, event ResolveEvent, notifierIDs []string) error {
	if len(notifierIDs) == 0 {
		return nil
	}

	var errs []error
	for _, id := range notifierIDs {
		nm.mu.RLock()
		notifier, exists := nm.notifiers[id]
		nm.mu.RUnlock()

		if !exists {
			errs = append(errs, fmt.Errorf("notifier %s not found", id))
			continue
		}

		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s failed: %w", id, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %v", errs)
	}

	return nil
}

// Close closes all registered notifiers and shuts down worker goroutines
func (nm *NotificationManager) Close() error {
	// Mark as closed and close the jobs channel
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	// Wait for all workers to finish processing
	nm.wg.Wait()

	// Close all registered notifiers
	nm.mu.Lock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}

	return nil
}
