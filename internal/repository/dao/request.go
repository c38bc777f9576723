package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRequestNotFound  = errors.New("participation request not found")
	ErrDuplicateRequest = errors.New("live participation request already exists")
)

var liveStatuses = []string{"PENDING", "CONFIRMED"}

type ParticipationRequest struct {
	ID          int64 `gorm:"primaryKey"`
	EventID     int64 `gorm:"index;not null"`
	Event       Event `gorm:"foreignKey:EventID"`
	RequesterID int64 `gorm:"index;not null"`
	Requester   User  `gorm:"foreignKey:RequesterID"`
	Status      string
	Created     time.Time
}

type RequestDAO struct {
	db *gorm.DB
}

func NewRequestDAO(db *gorm.DB) *RequestDAO {
	return &RequestDAO{
		db: db,
	}
}

// Transact runs fn inside one database transaction, handing it DAOs bound to
// that transaction. The admission path locks the event row inside fn, so the
// snapshot count and the batch write commit as a unit.
func (d *RequestDAO) Transact(ctx context.Context, fn func(requests *RequestDAO, events *EventDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRequestDAO(tx), NewEventDAO(tx))
	})
}

func (d *RequestDAO) Insert(ctx context.Context, request ParticipationRequest) (ParticipationRequest, error) {
	result := d.db.WithContext(ctx).Create(&request)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "uniq_live_request") {
			return ParticipationRequest{}, ErrDuplicateRequest
		}

		return ParticipationRequest{}, result.Error
	}

	return request, nil
}

func (d *RequestDAO) FindByID(ctx context.Context, id int64) (ParticipationRequest, error) {
	var request ParticipationRequest

	result := d.db.WithContext(ctx).First(&request, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ParticipationRequest{}, ErrRequestNotFound
		}

		return ParticipationRequest{}, result.Error
	}

	return request, nil
}

func (d *RequestDAO) FindByRequester(ctx context.Context, requesterID int64) ([]ParticipationRequest, error) {
	var requests []ParticipationRequest

	result := d.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("id").
		Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

func (d *RequestDAO) FindByEvent(ctx context.Context, eventID int64) ([]ParticipationRequest, error) {
	var requests []ParticipationRequest

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id").
		Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

// FindAllByIDs returns the requests in no guaranteed order; callers re-sort to
// their intended batch order.
func (d *RequestDAO) FindAllByIDs(ctx context.Context, ids []int64) ([]ParticipationRequest, error) {
	var requests []ParticipationRequest

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

func (d *RequestDAO) CountByEventAndStatus(ctx context.Context, eventID int64, status string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&ParticipationRequest{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *RequestDAO) ExistsLive(ctx context.Context, eventID, requesterID int64) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&ParticipationRequest{}).
		Where("event_id = ? AND requester_id = ? AND status IN ?", eventID, requesterID, liveStatuses).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *RequestDAO) Update(ctx context.Context, request ParticipationRequest) (ParticipationRequest, error) {
	result := d.db.WithContext(ctx).Save(&request)
	if result.Error != nil {
		return ParticipationRequest{}, result.Error
	}

	return request, nil
}

// UpdateAll persists a moderation batch as one write.
func (d *RequestDAO) UpdateAll(ctx context.Context, requests []ParticipationRequest) error {
	if len(requests) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).Save(&requests)
	if result.Error != nil {
		return result.Error
	}

	return nil
}
