package busy

import (
	"context"
	"sync"

	"github.com/phrazzld/taskreg/events"
	"github.com/phrazzld/taskreg/task"
)

// Indicator tracks whether a registry has work in flight and which operation
// sits at the head of its queue. It implements events.Handler and is safe to
// read from any goroutine.
type Indicator struct {
	mu    sync.RWMutex
	busy  bool
	label string
}

// NewIndicator creates an idle indicator.
func NewIndicator() *Indicator {
	return &Indicator{}
}

// Watch subscribes the indicator to r and returns the unsubscribe function.
func (i *Indicator) Watch(r *task.Registry) func() {
	return r.Subscribe(i)
}

// HandleStatus implements events.Handler.
func (i *Indicator) HandleStatus(_ context.Context, event events.StatusEvent) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if event.Idle {
		i.busy = false
		i.label = ""
		return nil
	}
	i.busy = true
	i.label = event.Label
	return nil
}

// Busy reports whether any tracked operation is in flight.
func (i *Indicator) Busy() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.busy
}

// Current returns the label of the head operation, or "" when idle.
func (i *Indicator) Current() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.label
}
