package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

// PublicEventFilter mirrors the public search parameters over domain types.
type PublicEventFilter struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    time.Time
	RangeEnd      time.Time
	OnlyAvailable bool
	From          int
	Size          int
}

type AdminEventFilter struct {
	Users      []int64
	States     []domain.EventState
	Categories []int64
	RangeStart time.Time
	RangeEnd   time.Time
	From       int
	Size       int
}

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id int64) (dao.Event, error)
	FindByIDAndInitiator(ctx context.Context, eventID, initiatorID int64) (dao.Event, error)
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByInitiator(ctx context.Context, initiatorID int64, from, size int) ([]dao.Event, error)
	FindAllByIDs(ctx context.Context, ids []int64) ([]dao.Event, error)
	SearchPublic(ctx context.Context, filter dao.PublicEventFilter) ([]dao.Event, error)
	SearchAdmin(ctx context.Context, filter dao.AdminEventFilter) ([]dao.Event, error)
	FindPublishedByInitiators(ctx context.Context, initiatorIDs []int64, after time.Time, from, size int) ([]dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func eventDomainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		CategoryID:        e.CategoryID,
		InitiatorID:       e.InitiatorID,
		Lat:               e.Location.Lat,
		Lon:               e.Location.Lon,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             string(e.State),
		EventDate:         e.EventDate,
		CreatedOn:         e.CreatedOn,
		PublishedOn:       e.PublishedOn,
	}
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		CategoryID:        e.CategoryID,
		InitiatorID:       e.InitiatorID,
		Location:          domain.Location{Lat: e.Lat, Lon: e.Lon},
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             domain.EventState(e.State),
		EventDate:         e.EventDate,
		CreatedOn:         e.CreatedOn,
		PublishedOn:       e.PublishedOn,
	}
}

func eventsDaoToDomain(events []dao.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		out[i] = eventDaoToDomain(e)
	}
	return out
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(event), nil
}

func (r *EventRepository) GetByIDAndInitiator(ctx context.Context, eventID, initiatorID int64) (domain.Event, error) {
	event, err := r.dao.FindByIDAndInitiator(ctx, eventID, initiatorID)
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(event), nil
}

func (r *EventRepository) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	exists, err := r.dao.ExistsByCategory(ctx, categoryID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsByCategory -> %w", err)
	}

	return exists, nil
}

func (r *EventRepository) Save(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventDaoToDomain(updated), nil
}

func (r *EventRepository) ListByInitiator(ctx context.Context, initiatorID int64, from, size int) ([]domain.Event, error) {
	events, err := r.dao.FindByInitiator(ctx, initiatorID, from, size)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByInitiator -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}

func (r *EventRepository) FindAllByIDs(ctx context.Context, ids []int64) ([]domain.Event, error) {
	events, err := r.dao.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllByIDs -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}

func (r *EventRepository) SearchPublic(ctx context.Context, filter PublicEventFilter) ([]domain.Event, error) {
	events, err := r.dao.SearchPublic(ctx, dao.PublicEventFilter{
		Text:          filter.Text,
		Categories:    filter.Categories,
		Paid:          filter.Paid,
		RangeStart:    filter.RangeStart,
		RangeEnd:      filter.RangeEnd,
		OnlyAvailable: filter.OnlyAvailable,
		From:          filter.From,
		Size:          filter.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.SearchPublic -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}

func (r *EventRepository) SearchAdmin(ctx context.Context, filter AdminEventFilter) ([]domain.Event, error) {
	states := make([]string, len(filter.States))
	for i, s := range filter.States {
		states[i] = string(s)
	}

	events, err := r.dao.SearchAdmin(ctx, dao.AdminEventFilter{
		Users:      filter.Users,
		States:     states,
		Categories: filter.Categories,
		RangeStart: filter.RangeStart,
		RangeEnd:   filter.RangeEnd,
		From:       filter.From,
		Size:       filter.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.SearchAdmin -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}

func (r *EventRepository) ListPublishedByInitiators(ctx context.Context, initiatorIDs []int64, after time.Time, from, size int) ([]domain.Event, error) {
	events, err := r.dao.FindPublishedByInitiators(ctx, initiatorIDs, after, from, size)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPublishedByInitiators -> %w", err)
	}

	return eventsDaoToDomain(events), nil
}
