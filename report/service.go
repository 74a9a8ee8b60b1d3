package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// TrendWindow is how far back the trends report looks.
const TrendWindow = 30 * 24 * time.Hour

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Stats fetches the independent aggregates concurrently.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.store.Totals(ctx)
		stats.Totals = t
		return err
	})
	g.Go(func() error {
		m, err := s.store.CountBy(ctx, "status")
		stats.ByStatus = m
		return err
	})
	g.Go(func() error {
		m, err := s.store.CountBy(ctx, "category")
		stats.ByCategory = m
		return err
	})
	g.Go(func() error {
		m, err := s.store.CountBy(ctx, "priority")
		stats.ByPriority = m
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func (s *Service) Trends(ctx context.Context) ([]TrendPoint, error) {
	return s.store.Trends(ctx, time.Now().Add(-TrendWindow))
}
