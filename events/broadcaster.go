package events

import (
	"context"
	"log/slog"
	"sync"
)

// Broadcaster fans status events out to registered handlers.
//
// Publish never blocks: events are appended to an internal queue and a single
// dispatch goroutine delivers them to every registered handler in publication
// order, so a slow or failing handler cannot stall the publisher. Handlers
// may register or remove handlers, themselves included, from inside
// HandleStatus; the change takes effect from the next event onward.
type Broadcaster struct {
	logger *slog.Logger
	done   chan struct{}

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []StatusEvent
	subs   []subscription
	nextID int
	closed bool
}

// subscription pairs a handler with a registration token so removal does not
// depend on handler values being comparable.
type subscription struct {
	id      int
	handler Handler
}

// NewBroadcaster creates a broadcaster and starts its dispatch goroutine.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	b := &Broadcaster{
		logger: logger.With("component", "status_broadcaster"),
		done:   make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	go b.dispatch()
	return b
}

// RegisterHandler adds a handler to receive every subsequently dispatched
// event. It returns a function that removes the registration; neither call
// blocks, and both are safe to make from inside a handler.
func (b *Broadcaster) RegisterHandler(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, handler: h})
	b.logger.Debug("registered status handler", "handler_count", len(b.subs))

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				b.logger.Debug("removed status handler", "handler_count", len(b.subs))
				return
			}
		}
	}
}

// Publish queues an event for delivery and returns immediately. Events
// published after Close are dropped.
func (b *Broadcaster) Publish(event StatusEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.logger.Debug("dropping event published after close",
			"label", event.Label,
			"idle", event.Idle)
		return
	}

	b.queue = append(b.queue, event)
	b.cond.Signal()
}

// Close stops the dispatch goroutine once every queued event has been
// delivered. It blocks until delivery has finished and must not be called
// from inside a handler.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		b.cond.Signal()
	}
	b.mu.Unlock()

	<-b.done
}

// dispatch drains the queue in order, delivering each event to a snapshot of
// the handlers registered at delivery time.
func (b *Broadcaster) dispatch() {
	defer close(b.done)

	ctx := context.Background()

	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if len(b.queue) == 0 {
			// Closed with nothing left to deliver.
			b.mu.Unlock()
			return
		}

		event := b.queue[0]
		b.queue = b.queue[1:]

		handlers := make([]subscription, len(b.subs))
		copy(handlers, b.subs)
		b.mu.Unlock()

		for _, s := range handlers {
			if err := s.handler.HandleStatus(ctx, event); err != nil {
				b.logger.Error("status handler failed",
					"error", err,
					"label", event.Label,
					"idle", event.Idle)
			}
		}
	}
}
