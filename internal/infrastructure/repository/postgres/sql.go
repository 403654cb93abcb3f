package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/domain/storage"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// wrapWriteError lifts unique-constraint violations into the storage
// sentinel so use cases can run their lost-race recovery.
func wrapWriteError(err error, action string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", storage.ErrConflict, action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func positionsToText(positions []canonical.Position) string {
	if len(positions) == 0 {
		return ""
	}
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ",")
}

func textToPositions(raw string) []canonical.Position {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]canonical.Position, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, canonical.Position(part))
		}
	}
	return out
}

func nullableInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func intPointer(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
