package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
)

var (
	ErrSubscriptionNotFound = repository.ErrSubscriptionNotFound
	ErrSubscriptionExists   = repository.ErrSubscriptionExists
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription domain.Subscription) (domain.Subscription, error)
	Delete(ctx context.Context, subscriberID, authorID int64) error
	ListBySubscriber(ctx context.Context, subscriberID int64) ([]domain.Subscription, error)
	ListAuthorIDs(ctx context.Context, subscriberID int64) ([]int64, error)
}

// FeedSource supplies the events a subscriber's feed is built from.
type FeedSource interface {
	GetFeedEvents(ctx context.Context, authorIDs []int64, from, size int) ([]domain.Event, error)
}

type SubscriptionService struct {
	repo  SubscriptionRepository
	users UserChecker
	feed  FeedSource
}

func NewSubscriptionService(repo SubscriptionRepository, users UserChecker, feed FeedSource) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		users: users,
		feed:  feed,
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID int64) (domain.Subscription, error) {
	if subscriberID == authorID {
		return domain.Subscription{}, apperr.Validation("user %d cannot subscribe to themselves", subscriberID)
	}

	for _, id := range []int64{subscriberID, authorID} {
		exists, err := s.users.ExistsByID(ctx, id)
		if err != nil {
			return domain.Subscription{}, fmt.Errorf("s.users.ExistsByID -> %w", err)
		}
		if !exists {
			return domain.Subscription{}, apperr.NotFound("user %d not found", id)
		}
	}

	created, err := s.repo.Create(ctx, domain.Subscription{
		SubscriberID: subscriberID,
		AuthorID:     authorID,
		Created:      time.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionExists) {
			return domain.Subscription{}, apperr.Conflict("user %d is already subscribed to user %d", subscriberID, authorID)
		}

		return domain.Subscription{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID int64) error {
	if err := s.repo.Delete(ctx, subscriberID, authorID); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return apperr.NotFound("user %d is not subscribed to user %d", subscriberID, authorID)
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *SubscriptionService) GetSubscriptions(ctx context.Context, subscriberID int64) ([]domain.Subscription, error) {
	exists, err := s.users.ExistsByID(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("s.users.ExistsByID -> %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("user %d not found", subscriberID)
	}

	subscriptions, err := s.repo.ListBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListBySubscriber -> %w", err)
	}

	return subscriptions, nil
}

// GetFeed returns upcoming published events by the authors the user follows.
func (s *SubscriptionService) GetFeed(ctx context.Context, subscriberID int64, from, size int) ([]domain.Event, error) {
	exists, err := s.users.ExistsByID(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("s.users.ExistsByID -> %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("user %d not found", subscriberID)
	}

	authorIDs, err := s.repo.ListAuthorIDs(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListAuthorIDs -> %w", err)
	}

	events, err := s.feed.GetFeedEvents(ctx, authorIDs, from, size)
	if err != nil {
		return nil, fmt.Errorf("s.feed.GetFeedEvents -> %w", err)
	}

	return events, nil
}
