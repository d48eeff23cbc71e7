package events

import "context"

// StatusEvent describes a transition in the set of in-flight operations
// tracked by a registry. Exactly one of two shapes is ever published: a head
// announcement carrying the label of the oldest pending operation, or the
// idle sentinel marking that the last operation has finished.
type StatusEvent struct {
	// Label is the human-readable description of the operation now at the
	// head of the queue. Empty when Idle is true.
	Label string

	// Idle is true when no operations remain in flight.
	Idle bool
}

// HeadChanged returns an event announcing label as the current head operation.
func HeadChanged(label string) StatusEvent {
	return StatusEvent{Label: label}
}

// WentIdle returns the idle sentinel event.
func WentIdle() StatusEvent {
	return StatusEvent{Idle: true}
}

// Handler defines an interface for components that consume status events.
// Version: 1.0
type Handler interface {
	// HandleStatus processes a single event. A returned error is logged by
	// the broadcaster; it never reaches the publisher and never interrupts
	// delivery to other handlers.
	HandleStatus(ctx context.Context, event StatusEvent) error
}
