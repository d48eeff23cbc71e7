// Package events provides the notification primitive for the task registry.
//
// It defines the status event published whenever the registry's head
// operation or emptiness changes, a handler interface for components that
// react to those events, and an asynchronous broadcaster that fans events out
// to registered handlers without ever blocking the publisher.
//
// The primary components are:
// - StatusEvent: either a head-of-queue announcement or the idle sentinel
// - Handler: interface for components that consume status events
// - Broadcaster: ordered, non-blocking fan-out to registered handlers
package events
