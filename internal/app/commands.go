package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"intern_insider/internal/domain"
)

type CommandService struct {
	repo domain.ReviewRepository
}

func NewCommandService(r domain.ReviewRepository) *CommandService {
	return &CommandService{repo: r}
}

// Submit persists one review from the admin-facing collaborator.
func (s *CommandService) Submit(ctx context.Context, in ReviewInput) (domain.ReviewID, error) {
	r, err := in.ToReview()
	if err != nil {
		return "", err
	}
	id, err := s.repo.Create(ctx, r)
	if err != nil {
		return "", err
	}
	log.Info().Str("id", string(id)).Str("company", r.CompanyName).Msg("review created")
	return id, nil
}

func (s *CommandService) Like(ctx context.Context, id domain.ReviewID) (int64, error) {
	return s.repo.IncrementLike(ctx, id)
}

type SeedReport struct {
	Inserted []domain.ReviewID
	Failed   int
}

// Seed inserts reviews with at most workers concurrent writes. A failing
// review does not stop the others; all failures are joined into the error.
func (s *CommandService) Seed(ctx context.Context, reviews []domain.Review, workers int) (SeedReport, error) {
	if workers <= 0 {
		workers = 1
	}
	var (
		g    errgroup.Group
		mu   sync.Mutex
		rep  SeedReport
		errs []error
	)
	g.SetLimit(workers)

	for _, r := range reviews {
		g.Go(func() error {
			id, err := s.repo.Create(ctx, r)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("company", r.CompanyName).Msg("seed insert failed")
				rep.Failed++
				errs = append(errs, err)
				return nil
			}
			log.Info().Str("id", string(id)).Str("company", r.CompanyName).Msg("seed insert ok")
			rep.Inserted = append(rep.Inserted, id)
			return nil
		})
	}
	_ = g.Wait()
	return rep, errors.Join(errs...)
}
