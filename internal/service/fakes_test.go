package service

import (
	"context"
	"sync"
	"time"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
)

type fakeUsers struct {
	existing map[int64]bool
}

func (f *fakeUsers) ExistsByID(_ context.Context, id int64) (bool, error) {
	return f.existing[id], nil
}

// fakeAdmissionStore is an in-memory RequestStore. InTx serializes callers on
// a mutex the way the row lock serializes real transactions, which lets the
// concurrency tests run the real admission logic unchanged.
type fakeAdmissionStore struct {
	mu       sync.Mutex
	events   map[int64]domain.Event
	requests map[int64]domain.ParticipationRequest
	nextID   int64
}

func newFakeAdmissionStore(events ...domain.Event) *fakeAdmissionStore {
	s := &fakeAdmissionStore{
		events:   make(map[int64]domain.Event),
		requests: make(map[int64]domain.ParticipationRequest),
	}
	for _, e := range events {
		s.events[e.ID] = e
	}

	return s
}

func (s *fakeAdmissionStore) addRequest(eventID, requesterID int64, status domain.RequestStatus) domain.ParticipationRequest {
	s.nextID++
	request := domain.ParticipationRequest{
		ID:          s.nextID,
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Created:     time.Now(),
	}
	s.requests[request.ID] = request

	return request
}

func (s *fakeAdmissionStore) InTx(_ context.Context, fn func(store repository.RequestStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s)
}

func (s *fakeAdmissionStore) GetEventForUpdate(ctx context.Context, eventID int64) (domain.Event, error) {
	return s.GetEvent(ctx, eventID)
}

func (s *fakeAdmissionStore) GetEvent(_ context.Context, eventID int64) (domain.Event, error) {
	event, ok := s.events[eventID]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (s *fakeAdmissionStore) CreateRequest(_ context.Context, request domain.ParticipationRequest) (domain.ParticipationRequest, error) {
	for _, existing := range s.requests {
		if existing.EventID == request.EventID &&
			existing.RequesterID == request.RequesterID &&
			existing.Status.IsLive() {
			return domain.ParticipationRequest{}, repository.ErrDuplicateRequest
		}
	}

	s.nextID++
	request.ID = s.nextID
	s.requests[request.ID] = request

	return request, nil
}

func (s *fakeAdmissionStore) GetRequest(_ context.Context, id int64) (domain.ParticipationRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return domain.ParticipationRequest{}, repository.ErrRequestNotFound
	}

	return request, nil
}

func (s *fakeAdmissionStore) GetRequestsByIDs(_ context.Context, ids []int64) ([]domain.ParticipationRequest, error) {
	var found []domain.ParticipationRequest
	for _, id := range ids {
		if request, ok := s.requests[id]; ok {
			found = append(found, request)
		}
	}

	return found, nil
}

func (s *fakeAdmissionStore) ListByRequester(_ context.Context, requesterID int64) ([]domain.ParticipationRequest, error) {
	var out []domain.ParticipationRequest
	for _, request := range s.requests {
		if request.RequesterID == requesterID {
			out = append(out, request)
		}
	}

	return out, nil
}

func (s *fakeAdmissionStore) ListByEvent(_ context.Context, eventID int64) ([]domain.ParticipationRequest, error) {
	var out []domain.ParticipationRequest
	for _, request := range s.requests {
		if request.EventID == eventID {
			out = append(out, request)
		}
	}

	return out, nil
}

func (s *fakeAdmissionStore) CountByStatus(_ context.Context, eventID int64, status domain.RequestStatus) (int64, error) {
	var count int64
	for _, request := range s.requests {
		if request.EventID == eventID && request.Status == status {
			count++
		}
	}

	return count, nil
}

func (s *fakeAdmissionStore) HasLiveRequest(_ context.Context, eventID, requesterID int64) (bool, error) {
	for _, request := range s.requests {
		if request.EventID == eventID && request.RequesterID == requesterID && request.Status.IsLive() {
			return true, nil
		}
	}

	return false, nil
}

func (s *fakeAdmissionStore) SaveRequest(_ context.Context, request domain.ParticipationRequest) (domain.ParticipationRequest, error) {
	s.requests[request.ID] = request

	return request, nil
}

func (s *fakeAdmissionStore) SaveAll(_ context.Context, requests []domain.ParticipationRequest) error {
	for _, request := range requests {
		s.requests[request.ID] = request
	}

	return nil
}
