package simconf

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

// mockNotifier is a test implementation of Notifier
type mockNotifier struct {
	id          string
	notifyFunc  func(context.Context, ResolveEvent) error
	closeFunc   func() error
	notifyCount int
	mu          sync.Mutex
}

func (m *mockNotifier) ID() string   { return m.id }
func (m *mockNotifier) Type() string { return "mock" }
func (m *mockNotifier) Notify(ctx context.Context, event ResolveEvent) error {
	m.mu.Lock()
	m.notifyCount++
	m.mu.Unlock()
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, event)
	}
	return nil
}
func (m *mockNotifier) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockNotifier) getNotifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifyCount
}

// waitForCount polls until the notifier saw at least want deliveries
func waitForCount(t *testing.T, m *mockNotifier, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if m.getNotifyCount() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected at least %d notifications, got %d", want, m.getNotifyCount())
}

func testEvent() ResolveEvent {
	cfg := Config{
		Elements: []string{"Fe", "C"},
		LJ:       LJParams{Epsilon: 1.0, Sigma: 2.0, Cutoff: 5.0},
	}
	return NewResolveEvent("run.yaml", ActionLoad, "", cfg, true)
}

func TestNewNotificationManager(t *testing.T) {
	nm := NewNotificationManager(nil)
	if nm == nil {
		t.Fatal("NewNotificationManager returned nil")
	}

	notifiers := nm.ListNotifiers()
	if notifiers == nil {
		t.Error("Expected non-nil notifiers list")
	}
	if len(notifiers) != 0 {
		t.Errorf("Expected empty notifiers list, got %d", len(notifiers))
	}

	if err := nm.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestNotificationManager_RegisterNotifier(t *testing.T) {
	nm := NewNotificationManager(nil)
	defer nm.Close()

	// Test successful registration
	notifier := &mockNotifier{id: "test-1"}
	err := nm.RegisterNotifier(notifier)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test duplicate registration
	err = nm.RegisterNotifier(&mockNotifier{id: "test-1"})
	if err == nil {
		t.Error("Expected error for duplicate registration")
	}

	// Test nil notifier
	err = nm.RegisterNotifier(nil)
	if err == nil {
		t.Error("Expected error for nil notifier")
	}

	// Test empty ID
	err = nm.RegisterNotifier(&mockNotifier{id: ""})
	if err == nil {
		t.Error("Expected error for empty ID")
	}

	// Test multiple notifiers
	nm.RegisterNotifier(&mockNotifier{id: "test-2"})
	nm.RegisterNotifier(&mockNotifier{id: "test-3"})

	notifiers := nm.ListNotifiers()
	if len(notifiers) != 3 {
		t.Errorf("Expected 3 notifiers, got %d", len(notifiers))
	}
}

func TestNotificationManager_UnregisterNotifier(t *testing.T) {
	nm := NewNotificationManager(nil)
	defer nm.Close()

	// Test unregistering non-existent notifier
	err := nm.UnregisterNotifier("non-existent")
	if err == nil {
		t.Error("Expected error for non-existent notifier")
	}

	// Test successful unregistration
	notifier := &mockNotifier{id: "test-1"}
	nm.RegisterNotifier(notifier)

	err = nm.UnregisterNotifier("test-1")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Verify it's removed
	_, exists := nm.GetNotifier("test-1")
	if exists {
		t.Error("Expected notifier to be removed")
	}

	// Test unregistration with close error
	closeErr := &mockNotifier{
		id: "test-close-error",
		closeFunc: func() error {
			return &testError{msg: "close error"}
		},
	}
	nm.RegisterNotifier(closeErr)

	err = nm.UnregisterNotifier("test-close-error")
	if err == nil {
		t.Error("Expected error when close fails")
	}
}

func TestNotificationManager_GetNotifier(t *testing.T) {
	nm := NewNotificationManager(nil)
	defer nm.Close()

	_, exists := nm.GetNotifier("non-existent")
	if exists {
		t.Error("Expected notifier not to exist")
	}

	notifier := &mockNotifier{id: "test-1"}
	nm.RegisterNotifier(notifier)

	retrieved, exists := nm.GetNotifier("test-1")
	if !exists {
		t.Error("Expected notifier to exist")
	}
	if retrieved.ID() != "test-1" {
		t.Errorf("Expected ID 'test-1', got '%s'", retrieved.ID())
	}
}

func TestNotificationManager_Enqueue(t *testing.T) {
	nm := NewNotificationManager(nil)
	defer nm.Close()

	// Enqueue with no registered notifiers must not panic
	nm.Enqueue(testEvent())

	notifier1 := &mockNotifier{id: "test-1"}
	notifier2 := &mockNotifier{id: "test-2"}
	nm.RegisterNotifier(notifier1)
	nm.RegisterNotifier(notifier2)

	// An enqueued event fans out to every registered notifier
	nm.Enqueue(testEvent())
	waitForCount(t, notifier1, 1)
	waitForCount(t, notifier2, 1)

	// Enqueue after close must not panic
	nm.Close()
	nm.Enqueue(testEvent())
}

func TestNotificationManager_EnqueueRetriesFailures(t *testing.T) {
	nm := NewNotificationManager(nil)
	defer nm.Close()

	var mu sync.Mutex
	failures := 2
	flaky := &mockNotifier{id: "flaky"}
	flaky.notifyFunc = func(ctx context.Context, event ResolveEvent) error {
		mu.Lock()
		defer mu.Unlock()
		if failures > 0 {
			failures--
			return &testError{msg: "temporarily down"}
		}
		return nil
	}
	nm.RegisterNotifier(flaky)

	nm.Enqueue(testEvent())

	// Two failures plus the final success: three delivery attempts
	waitForCount(t, flaky, 3)
	mu.Lock()
	remaining := failures
	mu.Unlock()
	if remaining != 0 {
		t.Errorf("Expected all injected failures to be consumed, %d left", remaining)
	}
}

func TestNotificationManager_Notify(t *testing.T) {
	nm := NewNotificationManager(nil)
	defer nm.Close()

	ctx := context.Background()
	event := testEvent()

	// Test with empty notifier list
	err := nm.Notify(ctx, event, []string{})
	if err != nil {
		t.Errorf("Expected no error with empty list, got %v", err)
	}

	// Test with non-existent notifier
	err = nm.Notify(ctx, event, []string{"non-existent"})
	if err == nil {
		t.Error("Expected error for non-existent notifier")
	}

	// Test with valid notifier
	notifier := &mockNotifier{id: "test-1"}
	nm.RegisterNotifier(notifier)

	err = nm.Notify(ctx, event, []string{"test-1"})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if notifier.getNotifyCount() != 1 {
		t.Errorf("Expected 1 notification, got %d", notifier.getNotifyCount())
	}

	// Test with a notifier that fails
	failingNotifier := &mockNotifier{
		id: "test-fail",
		notifyFunc: func(ctx context.Context, event ResolveEvent) error {
			return &testError{msg: "notification failed"}
		},
	}
	nm.RegisterNotifier(failingNotifier)

	err = nm.Notify(ctx, event, []string{"test-fail"})
	if err == nil {
		t.Error("Expected error when notifier fails")
	}

	// Test with mix of success and failure
	err = nm.Notify(ctx, event, []string{"test-1", "test-fail"})
	if err == nil {
		t.Error("Expected error when one notifier fails")
	}
}

func TestNotificationManager_Close(t *testing.T) {
	nm := NewNotificationManager(nil)

	notifier1 := &mockNotifier{id: "test-1"}
	notifier2 := &mockNotifier{
		id: "test-2",
		closeFunc: func() error {
			return &testError{msg: "close error"}
		},
	}
	nm.RegisterNotifier(notifier1)
	nm.RegisterNotifier(notifier2)

	// One notifier fails to close, Close must report it
	err := nm.Close()
	if err == nil {
		t.Error("Expected error when one notifier fails to close")
	}

	// Test double close
	err = nm.Close()
	if err != nil {
		t.Errorf("Expected no error on double close, got %v", err)
	}

	// Enqueue after close must not panic
	nm.Enqueue(testEvent())
}

func TestNewResolveEvent(t *testing.T) {
	cfg := Config{
		Name:     "alloy",
		Elements: []string{"Fe", "C"},
		LJ:       LJParams{Epsilon: 0.5, Sigma: 2.0, Cutoff: 5.0},
	}

	event := NewResolveEvent("run.yaml", ActionApply, "alloy", cfg, false)

	if event.ID == "" {
		t.Error("Expected non-empty event ID")
	}
	if event.Source != "run.yaml" {
		t.Errorf("Expected source 'run.yaml', got '%s'", event.Source)
	}
	if event.Action != ActionApply {
		t.Errorf("Expected action '%s', got '%s'", ActionApply, event.Action)
	}
	if event.Name != "alloy" {
		t.Errorf("Expected name 'alloy', got '%s'", event.Name)
	}
	if event.Generated {
		t.Error("Expected generated=false for explicit params")
	}
	if event.LJ != cfg.LJ {
		t.Errorf("Expected LJ %+v, got %+v", cfg.LJ, event.LJ)
	}
	if event.Timestamp == 0 {
		t.Error("Expected non-zero timestamp")
	}

	// IDs must be unique across events
	other := NewResolveEvent("run.yaml", ActionApply, "alloy", cfg, false)
	if other.ID == event.ID {
		t.Error("Expected distinct event IDs")
	}
}

func TestResolveEvent_JSON(t *testing.T) {
	event := testEvent()

	jsonData, err := event.JSON()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(jsonData) == 0 {
		t.Error("Expected non-empty JSON data")
	}

	var decoded ResolveEvent
	if err := json.Unmarshal(jsonData, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got error: %v", err)
	}
	if decoded.ID != event.ID {
		t.Errorf("Expected ID %s, got %s", event.ID, decoded.ID)
	}
	if decoded.Action != event.Action {
		t.Errorf("Expected action %s, got %s", event.Action, decoded.Action)
	}
	if decoded.LJ != event.LJ {
		t.Errorf("Expected LJ %+v, got %+v", event.LJ, decoded.LJ)
	}
}

// testError is a simple error implementation for testing
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
