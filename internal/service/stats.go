package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
)

type StatsRepository interface {
	SaveHit(ctx context.Context, hit domain.EndpointHit) (domain.EndpointHit, error)
	Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error)
}

type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{
		repo: repo,
	}
}

func (s *StatsService) SaveHit(ctx context.Context, hit domain.EndpointHit) (domain.EndpointHit, error) {
	saved, err := s.repo.SaveHit(ctx, hit)
	if err != nil {
		return domain.EndpointHit{}, fmt.Errorf("s.repo.SaveHit -> %w", err)
	}

	return saved, nil
}

func (s *StatsService) GetStatistics(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperr.Validation("start and end are required")
	}
	if start.After(end) {
		return nil, apperr.Validation("start %s is after end %s", start, end)
	}

	stats, err := s.repo.Aggregate(ctx, start, end, uris, unique)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Aggregate -> %w", err)
	}

	return stats, nil
}
