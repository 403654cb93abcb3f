package memory

import (
	"context"
	"sync"

	"github.com/courtdata/courtsync/internal/domain/playbyplay"
)

type PlayByPlayRepository struct {
	mu   sync.RWMutex
	rows map[string][]playbyplay.Event // game \x00 source
}

func NewPlayByPlayRepository() *PlayByPlayRepository {
	return &PlayByPlayRepository{rows: make(map[string][]playbyplay.Event)}
}

func (r *PlayByPlayRepository) ListByGame(_ context.Context, gameID, source string) ([]playbyplay.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.rows[externalKey(gameID, source)]
	out := make([]playbyplay.Event, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *PlayByPlayRepository) ReplaceForGame(_ context.Context, gameID, source string, events []playbyplay.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[externalKey(gameID, source)] = append([]playbyplay.Event(nil), events...)
	return nil
}
