package synccache

import "context"

// Repository is the key-value store behind the sync cache.
type Repository interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Put(ctx context.Context, entry Entry) error
}
