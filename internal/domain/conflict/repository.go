package conflict

import "context"

// Repository records and lists external-id conflicts for operator review.
type Repository interface {
	Record(ctx context.Context, item Conflict) error
	List(ctx context.Context, limit int) ([]Conflict, error)
}
