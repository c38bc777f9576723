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
	ErrRequestNotFound  = repository.ErrRequestNotFound
	ErrDuplicateRequest = repository.ErrDuplicateRequest
)

// RequestStore is the admission engine's storage. InTx scopes a callback to a
// single transaction; every capacity decision runs inside one, behind the
// event row lock taken by GetEventForUpdate.
type RequestStore interface {
	repository.RequestStore
	InTx(ctx context.Context, fn func(store repository.RequestStore) error) error
}

type RequestService struct {
	store RequestStore
	users UserChecker
}

func NewRequestService(store RequestStore, users UserChecker) *RequestService {
	return &RequestService{
		store: store,
		users: users,
	}
}

// initialStatus decides where a fresh request lands: moderated events with a
// real limit queue requests as PENDING, everything else admits immediately.
func initialStatus(event domain.Event) domain.RequestStatus {
	if event.RequestModeration && event.ParticipantLimit > 0 {
		return domain.RequestStatusPending
	}

	return domain.RequestStatusConfirmed
}

func (s *RequestService) CreateRequest(ctx context.Context, userID, eventID int64) (domain.ParticipationRequest, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return domain.ParticipationRequest{}, fmt.Errorf("s.users.ExistsByID -> %w", err)
	}
	if !exists {
		return domain.ParticipationRequest{}, apperr.NotFound("user %d not found", userID)
	}

	var created domain.ParticipationRequest

	err = s.store.InTx(ctx, func(store repository.RequestStore) error {
		event, err := store.GetEventForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return apperr.NotFound("event %d not found", eventID)
			}

			return fmt.Errorf("store.GetEventForUpdate -> %w", err)
		}

		if event.InitiatorID == userID {
			return apperr.Conflict("initiator cannot request participation in own event %d", eventID)
		}
		if event.State != domain.EventStatePublished {
			return apperr.Conflict("cannot participate in an unpublished event")
		}

		duplicate, err := store.HasLiveRequest(ctx, eventID, userID)
		if err != nil {
			return fmt.Errorf("store.HasLiveRequest -> %w", err)
		}
		if duplicate {
			return apperr.Conflict("user %d already has a live request for event %d", userID, eventID)
		}

		if event.ParticipantLimit > 0 {
			confirmed, err := store.CountByStatus(ctx, eventID, domain.RequestStatusConfirmed)
			if err != nil {
				return fmt.Errorf("store.CountByStatus -> %w", err)
			}
			if confirmed >= int64(event.ParticipantLimit) {
				return apperr.Conflict("the participant limit for event %d has been reached", eventID)
			}
		}

		created, err = store.CreateRequest(ctx, domain.ParticipationRequest{
			EventID:     eventID,
			RequesterID: userID,
			Status:      initialStatus(event),
			Created:     time.Now(),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateRequest) {
				return apperr.Conflict("user %d already has a live request for event %d", userID, eventID)
			}

			return fmt.Errorf("store.CreateRequest -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.ParticipationRequest{}, err
	}

	return created, nil
}

// CancelRequest withdraws the caller's own pending request. A foreign request
// id is reported as absent, not as forbidden.
func (s *RequestService) CancelRequest(ctx context.Context, userID, requestID int64) (domain.ParticipationRequest, error) {
	request, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return domain.ParticipationRequest{}, apperr.NotFound("request %d not found", requestID)
		}

		return domain.ParticipationRequest{}, fmt.Errorf("s.store.GetRequest -> %w", err)
	}

	if request.RequesterID != userID {
		return domain.ParticipationRequest{}, apperr.NotFound("request %d not found", requestID)
	}
	if request.Status != domain.RequestStatusPending {
		return domain.ParticipationRequest{}, apperr.Conflict(
			"only pending requests can be canceled, request %d is %s", requestID, request.Status)
	}

	request.Status = domain.RequestStatusCanceled

	canceled, err := s.store.SaveRequest(ctx, request)
	if err != nil {
		return domain.ParticipationRequest{}, fmt.Errorf("s.store.SaveRequest -> %w", err)
	}

	return canceled, nil
}

func (s *RequestService) GetUserRequests(ctx context.Context, userID int64) ([]domain.ParticipationRequest, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.users.ExistsByID -> %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("user %d not found", userID)
	}

	requests, err := s.store.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.store.ListByRequester -> %w", err)
	}

	return requests, nil
}

// GetEventRequests lists all requests targeting an event owned by userID.
func (s *RequestService) GetEventRequests(ctx context.Context, userID, eventID int64) ([]domain.ParticipationRequest, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, apperr.NotFound("event %d not found", eventID)
		}

		return nil, fmt.Errorf("s.store.GetEvent -> %w", err)
	}
	if event.InitiatorID != userID {
		return nil, apperr.NotFound("event %d not found", eventID)
	}

	requests, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.store.ListByEvent -> %w", err)
	}

	return requests, nil
}

// AdjudicateBatch confirms or rejects a batch of pending requests for an event
// the caller initiated. Confirmations run in the caller's id order against a
// capacity snapshot taken under the event lock; once the limit fills, the rest
// of the batch is auto-rejected. The whole batch commits or none of it does.
func (s *RequestService) AdjudicateBatch(
	ctx context.Context,
	userID, eventID int64,
	requestIDs []int64,
	status domain.RequestStatus,
) (domain.AdjudicationResult, error) {
	if status != domain.RequestStatusConfirmed && status != domain.RequestStatusRejected {
		return domain.AdjudicationResult{}, apperr.Validation("status must be CONFIRMED or REJECTED, got %s", status)
	}

	result := domain.AdjudicationResult{
		Confirmed: []domain.ParticipationRequest{},
		Rejected:  []domain.ParticipationRequest{},
	}

	err := s.store.InTx(ctx, func(store repository.RequestStore) error {
		event, err := store.GetEventForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return apperr.NotFound("event %d not found", eventID)
			}

			return fmt.Errorf("store.GetEventForUpdate -> %w", err)
		}
		if event.InitiatorID != userID {
			return apperr.NotFound("event %d not found", eventID)
		}

		// Unmoderated or unlimited events never hold requests in PENDING,
		// so there is nothing to adjudicate.
		if event.ParticipantLimit == 0 || !event.RequestModeration {
			return nil
		}
		if len(requestIDs) == 0 {
			return nil
		}

		batch, err := s.loadBatch(ctx, store, eventID, requestIDs)
		if err != nil {
			return err
		}

		if status == domain.RequestStatusRejected {
			for i := range batch {
				batch[i].Status = domain.RequestStatusRejected
			}
			result.Rejected = batch

			return store.SaveAll(ctx, batch)
		}

		confirmed, err := store.CountByStatus(ctx, eventID, domain.RequestStatusConfirmed)
		if err != nil {
			return fmt.Errorf("store.CountByStatus -> %w", err)
		}

		free := int64(event.ParticipantLimit) - confirmed
		if free <= 0 {
			return apperr.Conflict("the participant limit for event %d has been reached", eventID)
		}

		for i := range batch {
			if free > 0 {
				batch[i].Status = domain.RequestStatusConfirmed
				result.Confirmed = append(result.Confirmed, batch[i])
				free--
			} else {
				batch[i].Status = domain.RequestStatusRejected
				result.Rejected = append(result.Rejected, batch[i])
			}
		}

		return store.SaveAll(ctx, batch)
	})
	if err != nil {
		return domain.AdjudicationResult{}, err
	}

	return result, nil
}

// loadBatch fetches the requests, verifies each one exists, targets the event
// and is still pending, and returns them in the caller's id order. A repeated
// id counts once, at its first position.
func (s *RequestService) loadBatch(
	ctx context.Context,
	store repository.RequestStore,
	eventID int64,
	requestIDs []int64,
) ([]domain.ParticipationRequest, error) {
	found, err := store.GetRequestsByIDs(ctx, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("store.GetRequestsByIDs -> %w", err)
	}

	byID := make(map[int64]domain.ParticipationRequest, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}

	seen := make(map[int64]struct{}, len(requestIDs))
	batch := make([]domain.ParticipationRequest, 0, len(requestIDs))
	for _, id := range requestIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		request, ok := byID[id]
		if !ok {
			return nil, apperr.NotFound("request %d not found", id)
		}
		if request.EventID != eventID {
			return nil, apperr.NotFound("request %d not found", id)
		}
		if request.Status != domain.RequestStatusPending {
			return nil, apperr.Conflict("request %d must have status PENDING, got %s", id, request.Status)
		}
		batch = append(batch, request)
	}

	return batch, nil
}
