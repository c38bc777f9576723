package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type EndpointHit struct {
	ID        int64  `gorm:"primaryKey"`
	App       string `gorm:"not null"`
	URI       string `gorm:"index;not null"`
	IP        string `gorm:"not null"`
	Timestamp time.Time `gorm:"index"`
}

// ViewStatsRow is the aggregation row produced by the stats queries.
type ViewStatsRow struct {
	App  string
	URI  string
	Hits int64
}

type StatsDAO struct {
	db *gorm.DB
}

func NewStatsDAO(db *gorm.DB) *StatsDAO {
	return &StatsDAO{
		db: db,
	}
}

func (d *StatsDAO) Insert(ctx context.Context, hit EndpointHit) (EndpointHit, error) {
	result := d.db.WithContext(ctx).Create(&hit)
	if result.Error != nil {
		return EndpointHit{}, result.Error
	}

	return hit, nil
}

// Aggregate counts hits per (app, uri) in the window, optionally counting each
// ip only once, ordered by hits descending. Empty uris means all tracked uris.
func (d *StatsDAO) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStatsRow, error) {
	counter := "COUNT(*)"
	if unique {
		counter = "COUNT(DISTINCT ip)"
	}

	query := d.db.WithContext(ctx).Model(&EndpointHit{}).
		Select("app, uri, "+counter+" AS hits").
		Where("timestamp BETWEEN ? AND ?", start, end).
		Group("app, uri").
		Order("hits DESC")

	if len(uris) > 0 {
		query = query.Where("uri IN ?", uris)
	}

	var rows []ViewStatsRow
	result := query.Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
