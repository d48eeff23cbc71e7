package task

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/taskreg/events"
)

// Registry tracks the ordered collection of in-flight operations belonging to
// one owning model instance. Insertion order is meaningful: the oldest record
// still present is the head, and subscribers are told whenever the head or
// the registry's emptiness changes.
//
// All mutations are serialized by an internal mutex, so the "did the registry
// just become empty" decision and the event it produces are always computed
// from a consistent sequence. Event delivery itself is decoupled from the
// mutating call; see events.Broadcaster.
type Registry struct {
	gen         IDGenerator
	broadcaster *events.Broadcaster
	logger      *slog.Logger

	mu      sync.Mutex
	records []Record
}

// NewRegistry creates a registry with the default UUID identifier source.
// One registry is expected per owning model, living for the model's lifetime.
func NewRegistry(logger *slog.Logger) *Registry {
	return NewRegistryWithGenerator(uuidGenerator{}, logger)
}

// NewRegistryWithGenerator creates a registry drawing identifiers from gen.
// It exists so tests can pin the contract for a broken identifier source.
func NewRegistryWithGenerator(gen IDGenerator, logger *slog.Logger) *Registry {
	return &Registry{
		gen:         gen,
		broadcaster: events.NewBroadcaster(logger),
		logger:      logger.With("component", "task_registry"),
	}
}

// Add appends a new record for label to the tail of the sequence and returns
// its identifier. If the registry was empty immediately before the call,
// subscribers are notified that label is now the head operation; an append to
// a non-empty registry leaves the head unchanged and publishes nothing.
// Add never fails.
//
// A duplicate identifier from the generator is a broken uniqueness source,
// not a recoverable condition, and panics.
func (r *Registry) Add(label string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.gen.New()
	for _, rec := range r.records {
		if rec.ID == id {
			panic(fmt.Sprintf("task: id generator returned duplicate id %s", id))
		}
	}

	wasEmpty := len(r.records) == 0
	r.records = append(r.records, Record{ID: id, Label: label})

	r.logger.Debug("task added",
		"task_id", id,
		"label", label,
		"in_flight", len(r.records))

	if wasEmpty {
		r.broadcaster.Publish(events.HeadChanged(label))
	}

	return id
}

// Remove excises the record matching id, wherever it sits in the sequence,
// preserving the relative order of the remaining records. If the registry is
// empty afterward, the idle sentinel is published; otherwise the current head
// label is published, even when the removed record was not the head and the
// head did not change. An id with no matching record is a no-op: nothing is
// removed and nothing is published.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, rec := range r.records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.logger.Debug("remove for unknown task id", "task_id", id)
		return
	}

	label := r.records[idx].Label
	r.records = append(r.records[:idx], r.records[idx+1:]...)

	r.logger.Debug("task removed",
		"task_id", id,
		"label", label,
		"in_flight", len(r.records))

	if len(r.records) == 0 {
		r.broadcaster.Publish(events.WentIdle())
		return
	}
	r.broadcaster.Publish(events.HeadChanged(r.records[0].Label))
}

// Len reports how many operations are currently in flight.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Head returns the oldest record still present, if any.
func (r *Registry) Head() (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return Record{}, false
	}
	return r.records[0], true
}

// Subscribe registers h to receive every status event the registry publishes,
// in emission order, for as long as the registry lives. The returned function
// removes the subscription. Neither call blocks or mutates registry state.
func (r *Registry) Subscribe(h events.Handler) func() {
	return r.broadcaster.RegisterHandler(h)
}

// Close flushes pending events to subscribers and stops delivery. The
// registry itself stays usable afterward, but later events are dropped.
// Intended for owner teardown and tests; a registry that simply goes out of
// scope with its model does not need it.
func (r *Registry) Close() {
	r.broadcaster.Close()
}
