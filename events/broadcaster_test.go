package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHandler implements Handler for testing, recording every event it sees.
type mockHandler struct {
	mu       sync.Mutex
	received []StatusEvent
	err      error
	onEvent  func(StatusEvent)
}

func (m *mockHandler) HandleStatus(_ context.Context, event StatusEvent) error {
	m.mu.Lock()
	m.received = append(m.received, event)
	m.mu.Unlock()

	if m.onEvent != nil {
		m.onEvent(event)
	}
	return m.err
}

func (m *mockHandler) events() []StatusEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StatusEvent, len(m.received))
	copy(out, m.received)
	return out
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestStatusEventConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StatusEvent{Label: "clone"}, HeadChanged("clone"))
	assert.Equal(t, StatusEvent{Idle: true}, WentIdle())
}

func TestBroadcaster_DeliversInOrder(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(newTestLogger())
	first := &mockHandler{}
	second := &mockHandler{}
	b.RegisterHandler(first)
	b.RegisterHandler(second)

	b.Publish(HeadChanged("clone"))
	b.Publish(HeadChanged("fetch"))
	b.Publish(WentIdle())
	b.Close()

	want := []StatusEvent{HeadChanged("clone"), HeadChanged("fetch"), WentIdle()}
	assert.Equal(t, want, first.events())
	assert.Equal(t, want, second.events())
}

func TestBroadcaster_FailingHandlerDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(newTestLogger())
	failing := &mockHandler{err: errors.New("handler error")}
	healthy := &mockHandler{}
	b.RegisterHandler(failing)
	b.RegisterHandler(healthy)

	b.Publish(HeadChanged("push"))
	b.Close()

	assert.Equal(t, []StatusEvent{HeadChanged("push")}, failing.events())
	assert.Equal(t, []StatusEvent{HeadChanged("push")}, healthy.events())
}

func TestBroadcaster_RemoveRegistration(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(newTestLogger())
	kept := &mockHandler{}
	removed := &mockHandler{}
	b.RegisterHandler(kept)
	remove := b.RegisterHandler(removed)

	remove()
	// Removing twice is harmless.
	remove()

	b.Publish(WentIdle())
	b.Close()

	assert.Equal(t, []StatusEvent{WentIdle()}, kept.events())
	assert.Empty(t, removed.events())
}

func TestBroadcaster_RegisterFromInsideHandler(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(newTestLogger())
	late := &mockHandler{}

	var once sync.Once
	outer := &mockHandler{}
	outer.onEvent = func(StatusEvent) {
		once.Do(func() {
			b.RegisterHandler(late)
		})
	}
	b.RegisterHandler(outer)

	b.Publish(HeadChanged("clone"))
	b.Publish(HeadChanged("fetch"))
	b.Close()

	// The handler registered mid-dispatch only sees events after the one
	// that triggered its registration.
	assert.Equal(t, []StatusEvent{HeadChanged("clone"), HeadChanged("fetch")}, outer.events())
	assert.Equal(t, []StatusEvent{HeadChanged("fetch")}, late.events())
}

func TestBroadcaster_SlowHandlerDoesNotBlockPublish(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(newTestLogger())
	gate := make(chan struct{})

	slow := &mockHandler{}
	var once sync.Once
	slow.onEvent = func(StatusEvent) {
		once.Do(func() { <-gate })
	}
	b.RegisterHandler(slow)

	published := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(HeadChanged("status"))
		}
		close(published)
	}()

	select {
	case <-published:
		// Publishing completed while the handler was still stuck on the
		// first event.
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked behind a slow handler")
	}

	close(gate)
	b.Close()
	require.Len(t, slow.events(), 10)
}

func TestBroadcaster_PublishAfterCloseIsDropped(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(newTestLogger())
	h := &mockHandler{}
	b.RegisterHandler(h)

	b.Publish(HeadChanged("clone"))
	b.Close()
	b.Publish(WentIdle())

	assert.Equal(t, []StatusEvent{HeadChanged("clone")}, h.events())
}
