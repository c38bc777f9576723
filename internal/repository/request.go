package repository

import (
	"context"
	"fmt"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
)

var (
	ErrRequestNotFound  = dao.ErrRequestNotFound
	ErrDuplicateRequest = dao.ErrDuplicateRequest
)

// RequestStore is the slice of the request repository the admission path works
// against. Inside InTx the same methods run against transaction-bound DAOs, so
// GetEventForUpdate, the count and the writes see one consistent snapshot.
type RequestStore interface {
	GetEventForUpdate(ctx context.Context, eventID int64) (domain.Event, error)
	GetEvent(ctx context.Context, eventID int64) (domain.Event, error)
	CreateRequest(ctx context.Context, request domain.ParticipationRequest) (domain.ParticipationRequest, error)
	GetRequest(ctx context.Context, id int64) (domain.ParticipationRequest, error)
	GetRequestsByIDs(ctx context.Context, ids []int64) ([]domain.ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.ParticipationRequest, error)
	CountByStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int64, error)
	HasLiveRequest(ctx context.Context, eventID, requesterID int64) (bool, error)
	SaveRequest(ctx context.Context, request domain.ParticipationRequest) (domain.ParticipationRequest, error)
	SaveAll(ctx context.Context, requests []domain.ParticipationRequest) error
}

type RequestRepository struct {
	requests *dao.RequestDAO
	events   *dao.EventDAO
}

func NewRequestRepository(requests *dao.RequestDAO, events *dao.EventDAO) *RequestRepository {
	return &RequestRepository{
		requests: requests,
		events:   events,
	}
}

func requestDomainToDao(r domain.ParticipationRequest) dao.ParticipationRequest {
	return dao.ParticipationRequest{
		ID:          r.ID,
		EventID:     r.EventID,
		RequesterID: r.RequesterID,
		Status:      string(r.Status),
		Created:     r.Created,
	}
}

func requestDaoToDomain(r dao.ParticipationRequest) domain.ParticipationRequest {
	return domain.ParticipationRequest{
		ID:          r.ID,
		EventID:     r.EventID,
		RequesterID: r.RequesterID,
		Status:      domain.RequestStatus(r.Status),
		Created:     r.Created,
	}
}

func requestsDaoToDomain(requests []dao.ParticipationRequest) []domain.ParticipationRequest {
	out := make([]domain.ParticipationRequest, len(requests))
	for i, r := range requests {
		out[i] = requestDaoToDomain(r)
	}
	return out
}

// InTx runs fn against a RequestStore bound to a single database transaction.
func (r *RequestRepository) InTx(ctx context.Context, fn func(store RequestStore) error) error {
	return r.requests.Transact(ctx, func(requests *dao.RequestDAO, events *dao.EventDAO) error {
		return fn(NewRequestRepository(requests, events))
	})
}

func (r *RequestRepository) GetEventForUpdate(ctx context.Context, eventID int64) (domain.Event, error) {
	event, err := r.events.FindByIDForUpdate(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(event), nil
}

func (r *RequestRepository) GetEvent(ctx context.Context, eventID int64) (domain.Event, error) {
	event, err := r.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(event), nil
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request domain.ParticipationRequest) (domain.ParticipationRequest, error) {
	created, err := r.requests.Insert(ctx, requestDomainToDao(request))
	if err != nil {
		return domain.ParticipationRequest{}, err
	}

	return requestDaoToDomain(created), nil
}

func (r *RequestRepository) GetRequest(ctx context.Context, id int64) (domain.ParticipationRequest, error) {
	request, err := r.requests.FindByID(ctx, id)
	if err != nil {
		return domain.ParticipationRequest{}, err
	}

	return requestDaoToDomain(request), nil
}

func (r *RequestRepository) GetRequestsByIDs(ctx context.Context, ids []int64) ([]domain.ParticipationRequest, error) {
	requests, err := r.requests.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.requests.FindAllByIDs -> %w", err)
	}

	return requestsDaoToDomain(requests), nil
}

func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.ParticipationRequest, error) {
	requests, err := r.requests.FindByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("r.requests.FindByRequester -> %w", err)
	}

	return requestsDaoToDomain(requests), nil
}

func (r *RequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.ParticipationRequest, error) {
	requests, err := r.requests.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.requests.FindByEvent -> %w", err)
	}

	return requestsDaoToDomain(requests), nil
}

func (r *RequestRepository) CountByStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int64, error) {
	count, err := r.requests.CountByEventAndStatus(ctx, eventID, string(status))
	if err != nil {
		return 0, fmt.Errorf("r.requests.CountByEventAndStatus -> %w", err)
	}

	return count, nil
}

func (r *RequestRepository) HasLiveRequest(ctx context.Context, eventID, requesterID int64) (bool, error) {
	exists, err := r.requests.ExistsLive(ctx, eventID, requesterID)
	if err != nil {
		return false, fmt.Errorf("r.requests.ExistsLive -> %w", err)
	}

	return exists, nil
}

func (r *RequestRepository) SaveRequest(ctx context.Context, request domain.ParticipationRequest) (domain.ParticipationRequest, error) {
	updated, err := r.requests.Update(ctx, requestDomainToDao(request))
	if err != nil {
		return domain.ParticipationRequest{}, fmt.Errorf("r.requests.Update -> %w", err)
	}

	return requestDaoToDomain(updated), nil
}

func (r *RequestRepository) SaveAll(ctx context.Context, requests []domain.ParticipationRequest) error {
	rows := make([]dao.ParticipationRequest, len(requests))
	for i, req := range requests {
		rows[i] = requestDomainToDao(req)
	}

	if err := r.requests.UpdateAll(ctx, rows); err != nil {
		return fmt.Errorf("r.requests.UpdateAll -> %w", err)
	}

	return nil
}
