package dao

import "context"

// Service is a generic keyed store. Implementations hand out copies, so a
// caller mutating a loaded value never affects the stored one until Save.
type Service[K comparable, T any] interface {
	// Save inserts or replaces t under its key.
	Save(ctx context.Context, t *T) error
	// Load returns the value for id, or (nil, nil) when absent. ErrNotFound
	// is accepted as absence too.
	Load(ctx context.Context, id K) (*T, error)
	// Delete removes id. Persistent stores report a missing key with
	// ErrNotFound.
	Delete(ctx context.Context, id K) error
	// List returns every value matching all parameters.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
