package domain

import (
	"context"
	"iter"
)

type ReviewRepository interface {
	// Write paths
	Create(ctx context.Context, r Review) (ReviewID, error)
	IncrementLike(ctx context.Context, id ReviewID) (int64, error)

	// Read paths
	Get(ctx context.Context, id ReviewID) (Review, error)
	All(ctx context.Context, limit int) iter.Seq2[Review, error]
	Filter(ctx context.Context, c FilterCriteria) ([]Review, error)
	Popular(ctx context.Context, limit int) ([]Review, error)
	Count(ctx context.Context) (int64, error)
}

// HealthChecker is satisfied by the store connection.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
