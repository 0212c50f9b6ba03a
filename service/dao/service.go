package dao

import (
	"context"
)

// Service is the persistence contract shared by the components that keep
// per-record bookkeeping: the dispatcher stores worker records and the lease
// manager stores its lease table through this interface. K is the record key
// type and T the record itself.
type Service[K comparable, T any] interface {
	// Save stores or overwrites a record.
	Save(ctx context.Context, t *T) error

	// Load returns the record with the given key, nil when absent.
	Load(ctx context.Context, id K) (*T, error)

	// Delete removes the record with the given key.
	Delete(ctx context.Context, id K) error

	// List returns records matching every supplied criterion, all records
	// when none are given.
	List(ctx context.Context, criteria ...*Criterion) ([]*T, error)
}
