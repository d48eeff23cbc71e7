package task

import "context"

// Do runs op under a tracking slot labeled label. It adds a record before
// invoking op and guarantees the record is removed exactly once when op
// settles, whether op returns nil, returns an error, or panics. The error
// from op is returned unchanged, after the removal has run.
//
// Cancellation of op is entirely the caller's concern; ctx is passed through
// untouched.
func (r *Registry) Do(ctx context.Context, label string, op func(context.Context) error) error {
	id := r.Add(label)
	defer r.Remove(id)
	return op(ctx)
}

// Execute is the value-returning form of Registry.Do: it tracks op under
// label with the same guaranteed removal on every exit path, and propagates
// op's result and error to the caller unchanged.
func Execute[T any](ctx context.Context, r *Registry, label string, op func(context.Context) (T, error)) (T, error) {
	id := r.Add(label)
	defer r.Remove(id)
	return op(ctx)
}
