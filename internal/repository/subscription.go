package repository

import (
	"context"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
)

var (
	ErrSubscriptionNotFound = dao.ErrSubscriptionNotFound
	ErrSubscriptionExists   = dao.ErrSubscriptionExists
)

type SubscriptionDAO interface {
	Insert(ctx context.Context, subscription dao.Subscription) (dao.Subscription, error)
	Delete(ctx context.Context, subscriberID, authorID int64) error
	FindBySubscriber(ctx context.Context, subscriberID int64) ([]dao.Subscription, error)
	FindAuthorIDs(ctx context.Context, subscriberID int64) ([]int64, error)
}

type SubscriptionRepository struct {
	dao SubscriptionDAO
}

func NewSubscriptionRepository(dao SubscriptionDAO) *SubscriptionRepository {
	return &SubscriptionRepository{
		dao: dao,
	}
}

func subscriptionDaoToDomain(s dao.Subscription) domain.Subscription {
	return domain.Subscription{
		ID:           s.ID,
		SubscriberID: s.SubscriberID,
		AuthorID:     s.AuthorID,
		Created:      s.Created,
	}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error) {
	created, err := r.dao.Insert(ctx, dao.Subscription{
		SubscriberID: subscription.SubscriberID,
		AuthorID:     subscription.AuthorID,
		Created:      subscription.Created,
	})
	if err != nil {
		return domain.Subscription{}, err
	}

	return subscriptionDaoToDomain(created), nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, authorID int64) error {
	return r.dao.Delete(ctx, subscriberID, authorID)
}

func (r *SubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberID int64) ([]domain.Subscription, error) {
	subscriptions, err := r.dao.FindBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBySubscriber -> %w", err)
	}

	out := make([]domain.Subscription, len(subscriptions))
	for i, s := range subscriptions {
		out[i] = subscriptionDaoToDomain(s)
	}

	return out, nil
}

func (r *SubscriptionRepository) ListAuthorIDs(ctx context.Context, subscriberID int64) ([]int64, error) {
	authorIDs, err := r.dao.FindAuthorIDs(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAuthorIDs -> %w", err)
	}

	return authorIDs, nil
}
