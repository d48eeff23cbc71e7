// Package task tracks named in-flight operations on behalf of an owning
// model instance. It assigns each operation a unique identifier, preserves
// insertion order so the oldest pending operation is always known, and
// publishes a status event whenever the head of the queue or the queue's
// emptiness changes. The registry is agnostic to what the tracked work does:
// it does not schedule, cancel, retry, or inspect it.
package task
