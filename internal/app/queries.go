package app

import (
	"context"

	"intern_insider/internal/domain"
)

const (
	DefaultPopularLimit = 5
	MaxPageSize         = 100
)

type QueryService struct {
	repo domain.ReviewRepository
}

func NewQueryService(r domain.ReviewRepository) *QueryService {
	return &QueryService{repo: r}
}

// List drains the repository's lazy sequence; limit 0 means everything.
func (s *QueryService) List(ctx context.Context, limit int) ([]domain.Review, error) {
	out := []domain.Review{}
	for r, err := range s.repo.All(ctx, limit) {
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *QueryService) Search(ctx context.Context, c domain.FilterCriteria) ([]domain.Review, error) {
	if c.Empty() {
		return s.List(ctx, c.Limit)
	}
	return s.repo.Filter(ctx, c)
}

func (s *QueryService) Popular(ctx context.Context, limit int) ([]domain.Review, error) {
	return s.repo.Popular(ctx, limit)
}

func (s *QueryService) Get(ctx context.Context, id domain.ReviewID) (domain.Review, error) {
	return s.repo.Get(ctx, id)
}
