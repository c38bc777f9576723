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
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionExists   = errors.New("subscription already exists")
)

type Subscription struct {
	ID           int64 `gorm:"primaryKey"`
	SubscriberID int64 `gorm:"uniqueIndex:uniq_subscriber_author;not null"`
	Subscriber   User  `gorm:"foreignKey:SubscriberID"`
	AuthorID     int64 `gorm:"uniqueIndex:uniq_subscriber_author;not null"`
	Author       User  `gorm:"foreignKey:AuthorID"`
	Created      time.Time
}

type SubscriptionDAO struct {
	db *gorm.DB
}

func NewSubscriptionDAO(db *gorm.DB) *SubscriptionDAO {
	return &SubscriptionDAO{
		db: db,
	}
}

func (d *SubscriptionDAO) Insert(ctx context.Context, subscription Subscription) (Subscription, error) {
	result := d.db.WithContext(ctx).Create(&subscription)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "uniq_subscriber_author") {
			return Subscription{}, ErrSubscriptionExists
		}

		return Subscription{}, result.Error
	}

	return subscription, nil
}

func (d *SubscriptionDAO) Delete(ctx context.Context, subscriberID, authorID int64) error {
	result := d.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (d *SubscriptionDAO) FindBySubscriber(ctx context.Context, subscriberID int64) ([]Subscription, error) {
	var subscriptions []Subscription

	result := d.db.WithContext(ctx).
		Where("subscriber_id = ?", subscriberID).
		Order("id").
		Find(&subscriptions)
	if result.Error != nil {
		return nil, result.Error
	}

	return subscriptions, nil
}

func (d *SubscriptionDAO) FindAuthorIDs(ctx context.Context, subscriberID int64) ([]int64, error) {
	var authorIDs []int64

	result := d.db.WithContext(ctx).Model(&Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Pluck("author_id", &authorIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return authorIDs, nil
}
