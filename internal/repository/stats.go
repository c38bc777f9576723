package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
)

type StatsDAO interface {
	Insert(ctx context.Context, hit dao.EndpointHit) (dao.EndpointHit, error)
	Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]dao.ViewStatsRow, error)
}

type StatsRepository struct {
	dao StatsDAO
}

func NewStatsRepository(dao StatsDAO) *StatsRepository {
	return &StatsRepository{
		dao: dao,
	}
}

func (r *StatsRepository) SaveHit(ctx context.Context, hit domain.EndpointHit) (domain.EndpointHit, error) {
	saved, err := r.dao.Insert(ctx, dao.EndpointHit{
		App:       hit.App,
		URI:       hit.URI,
		IP:        hit.IP,
		Timestamp: hit.Timestamp,
	})
	if err != nil {
		return domain.EndpointHit{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return domain.EndpointHit{
		ID:        saved.ID,
		App:       saved.App,
		URI:       saved.URI,
		IP:        saved.IP,
		Timestamp: saved.Timestamp,
	}, nil
}

func (r *StatsRepository) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error) {
	rows, err := r.dao.Aggregate(ctx, start, end, uris, unique)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Aggregate -> %w", err)
	}

	out := make([]domain.ViewStats, len(rows))
	for i, row := range rows {
		out[i] = domain.ViewStats{
			App:  row.App,
			URI:  row.URI,
			Hits: row.Hits,
		}
	}

	return out, nil
}
