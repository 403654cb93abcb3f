package memory

import (
	"context"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/conflict"
)

type ConflictRepository struct {
	mu   sync.RWMutex
	rows []conflict.Conflict
}

func NewConflictRepository() *ConflictRepository {
	return &ConflictRepository{}
}

func (r *ConflictRepository) Record(_ context.Context, item conflict.Conflict) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append(r.rows, item)
	return nil
}

func (r *ConflictRepository) List(_ context.Context, limit int) ([]conflict.Conflict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]conflict.Conflict, 0, len(r.rows))
	for i := len(r.rows) - 1; i >= 0; i-- {
		out = append(out, r.rows[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
