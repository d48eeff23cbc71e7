package task

import "github.com/google/uuid"

// Record represents one in-flight named operation tracked by a Registry.
// Records are immutable once created and are discarded on removal.
type Record struct {
	// ID uniquely identifies this record among all records the registry has
	// ever held.
	ID uuid.UUID

	// Label is a human-readable description of the operation. Labels carry no
	// uniqueness requirement; two concurrent clones may share one.
	Label string
}

// IDGenerator produces identifiers for new records. Implementations must be
// safe for concurrent use and must never repeat an identifier within the
// lifetime of the process.
// Version: 1.0
type IDGenerator interface {
	// New returns a fresh unique identifier.
	New() uuid.UUID
}

// uuidGenerator is the default IDGenerator, backed by random UUIDs.
type uuidGenerator struct{}

func (uuidGenerator) New() uuid.UUID {
	return uuid.New()
}
