package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
)

var (
	ErrEventNotFound    = repository.ErrEventNotFound
	ErrCategoryNotFound = repository.ErrCategoryNotFound
)

const (
	StateActionSendToReview = "SEND_TO_REVIEW"
	StateActionCancelReview = "CANCEL_REVIEW"
	StateActionPublish      = "PUBLISH_EVENT"
	StateActionReject       = "REJECT_EVENT"
)

const (
	SortEventDate = "EVENT_DATE"
	SortViews     = "VIEWS"
)

const (
	minUserLeadTime  = 2 * time.Hour
	minAdminLeadTime = time.Hour
)

// EventUpdate carries a partial edit; nil fields stay untouched.
type EventUpdate struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *int64
	Location          *domain.Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	EventDate         *time.Time
	StateAction       string
}

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id int64) (domain.Event, error)
	GetByIDAndInitiator(ctx context.Context, eventID, initiatorID int64) (domain.Event, error)
	Save(ctx context.Context, event domain.Event) (domain.Event, error)
	ListByInitiator(ctx context.Context, initiatorID int64, from, size int) ([]domain.Event, error)
	SearchPublic(ctx context.Context, filter repository.PublicEventFilter) ([]domain.Event, error)
	SearchAdmin(ctx context.Context, filter repository.AdminEventFilter) ([]domain.Event, error)
	ListPublishedByInitiators(ctx context.Context, initiatorIDs []int64, after time.Time, from, size int) ([]domain.Event, error)
}

type CategoryChecker interface {
	GetByID(ctx context.Context, id int64) (domain.Category, error)
}

type UserChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type ConfirmedCounter interface {
	CountByStatus(ctx context.Context, eventID int64, status domain.RequestStatus) (int64, error)
}

// ViewCounter reads and records per-event view statistics.
type ViewCounter interface {
	RecordHit(ctx context.Context, uri, ip string)
	CountViews(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
}

type EventService struct {
	repo       EventRepository
	categories CategoryChecker
	users      UserChecker
	requests   ConfirmedCounter
	views      ViewCounter
}

func NewEventService(
	repo EventRepository,
	categories CategoryChecker,
	users UserChecker,
	requests ConfirmedCounter,
	views ViewCounter,
) *EventService {
	return &EventService{
		repo:       repo,
		categories: categories,
		users:      users,
		requests:   requests,
		views:      views,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, initiatorID int64, event domain.Event) (domain.Event, error) {
	if err := s.checkUserExists(ctx, initiatorID); err != nil {
		return domain.Event{}, err
	}

	if _, err := s.categories.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domain.Event{}, apperr.NotFound("category %d not found", event.CategoryID)
		}

		return domain.Event{}, fmt.Errorf("s.categories.GetByID -> %w", err)
	}

	if event.EventDate.Before(time.Now().Add(minUserLeadTime)) {
		return domain.Event{}, apperr.Forbidden(
			"event date must be at least two hours in the future, got %s", event.EventDate)
	}

	event.InitiatorID = initiatorID
	event.State = domain.EventStatePending
	event.CreatedOn = time.Now()
	event.PublishedOn = nil

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetUserEvents(ctx context.Context, userID int64, from, size int) ([]domain.Event, error) {
	events, err := s.repo.ListByInitiator(ctx, userID, from, size)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByInitiator -> %w", err)
	}

	return s.enrich(ctx, events)
}

func (s *EventService) GetUserEvent(ctx context.Context, userID, eventID int64) (domain.Event, error) {
	event, err := s.repo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, apperr.NotFound("event %d not found", eventID)
		}

		return domain.Event{}, fmt.Errorf("s.repo.GetByIDAndInitiator -> %w", err)
	}

	return s.enrichOne(ctx, event)
}

// UpdateEventByUser lets the initiator edit an event that is not published.
func (s *EventService) UpdateEventByUser(ctx context.Context, userID, eventID int64, update EventUpdate) (domain.Event, error) {
	event, err := s.repo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, apperr.NotFound("event %d not found", eventID)
		}

		return domain.Event{}, fmt.Errorf("s.repo.GetByIDAndInitiator -> %w", err)
	}

	if event.State != domain.EventStatePending && event.State != domain.EventStateCanceled {
		return domain.Event{}, apperr.Conflict("only pending or canceled events can be changed")
	}

	if update.EventDate != nil && update.EventDate.Before(time.Now().Add(minUserLeadTime)) {
		return domain.Event{}, apperr.Forbidden(
			"event date must be at least two hours in the future, got %s", *update.EventDate)
	}

	if err := s.applyFields(ctx, &event, update); err != nil {
		return domain.Event{}, err
	}

	switch update.StateAction {
	case StateActionSendToReview:
		event.State = domain.EventStatePending
	case StateActionCancelReview:
		event.State = domain.EventStateCanceled
	case "":
	default:
		return domain.Event{}, apperr.Validation("unknown state action %q", update.StateAction)
	}

	updated, err := s.repo.Save(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return s.enrichOne(ctx, updated)
}

// UpdateEventByAdmin handles moderation: publishing, rejecting and admin edits.
func (s *EventService) UpdateEventByAdmin(ctx context.Context, eventID int64, update EventUpdate) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, apperr.NotFound("event %d not found", eventID)
		}

		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if err := s.applyFields(ctx, &event, update); err != nil {
		return domain.Event{}, err
	}

	switch update.StateAction {
	case StateActionPublish:
		if event.State != domain.EventStatePending {
			return domain.Event{}, apperr.Conflict(
				"cannot publish the event because it is not in the right state: %s", event.State)
		}
		if event.EventDate.Before(time.Now().Add(minAdminLeadTime)) {
			return domain.Event{}, apperr.Forbidden(
				"cannot publish the event because its date is less than one hour ahead")
		}
		now := time.Now()
		event.State = domain.EventStatePublished
		event.PublishedOn = &now
	case StateActionReject:
		if event.State == domain.EventStatePublished {
			return domain.Event{}, apperr.Conflict("cannot reject a published event")
		}
		event.State = domain.EventStateCanceled
	case "":
	default:
		return domain.Event{}, apperr.Validation("unknown state action %q", update.StateAction)
	}

	updated, err := s.repo.Save(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return s.enrichOne(ctx, updated)
}

// GetPublicEvent returns a published event and records the page view.
func (s *EventService) GetPublicEvent(ctx context.Context, eventID int64, uri, ip string) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, apperr.NotFound("event %d not found", eventID)
		}

		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if event.State != domain.EventStatePublished {
		return domain.Event{}, apperr.NotFound("event %d not found", eventID)
	}

	s.views.RecordHit(ctx, uri, ip)

	return s.enrichOne(ctx, event)
}

func (s *EventService) SearchPublicEvents(
	ctx context.Context,
	filter repository.PublicEventFilter,
	sortBy string,
	uri, ip string,
) ([]domain.Event, error) {
	if !filter.RangeStart.IsZero() && !filter.RangeEnd.IsZero() && filter.RangeStart.After(filter.RangeEnd) {
		return nil, apperr.Validation("range start %s is after range end %s", filter.RangeStart, filter.RangeEnd)
	}

	// Without an explicit window the search covers upcoming events only.
	if filter.RangeStart.IsZero() && filter.RangeEnd.IsZero() {
		filter.RangeStart = time.Now()
	}

	events, err := s.repo.SearchPublic(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SearchPublic -> %w", err)
	}

	s.views.RecordHit(ctx, uri, ip)

	enriched, err := s.enrich(ctx, events)
	if err != nil {
		return nil, err
	}

	if sortBy == SortViews {
		sort.SliceStable(enriched, func(i, j int) bool {
			return enriched[i].Views > enriched[j].Views
		})
	}

	return enriched, nil
}

func (s *EventService) SearchAdminEvents(ctx context.Context, filter repository.AdminEventFilter) ([]domain.Event, error) {
	events, err := s.repo.SearchAdmin(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.SearchAdmin -> %w", err)
	}

	return s.enrich(ctx, events)
}

// GetFeedEvents returns upcoming published events by the given authors.
func (s *EventService) GetFeedEvents(ctx context.Context, authorIDs []int64, from, size int) ([]domain.Event, error) {
	if len(authorIDs) == 0 {
		return []domain.Event{}, nil
	}

	events, err := s.repo.ListPublishedByInitiators(ctx, authorIDs, time.Now(), from, size)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPublishedByInitiators -> %w", err)
	}

	return s.enrich(ctx, events)
}

func (s *EventService) checkUserExists(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.users.ExistsByID -> %w", err)
	}
	if !exists {
		return apperr.NotFound("user %d not found", userID)
	}

	return nil
}

func (s *EventService) applyFields(ctx context.Context, event *domain.Event, update EventUpdate) error {
	if update.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *update.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return apperr.NotFound("category %d not found", *update.CategoryID)
			}

			return fmt.Errorf("s.categories.GetByID -> %w", err)
		}
		event.CategoryID = *update.CategoryID
	}
	if update.Title != nil {
		event.Title = *update.Title
	}
	if update.Annotation != nil {
		event.Annotation = *update.Annotation
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Location != nil {
		event.Location = *update.Location
	}
	if update.Paid != nil {
		event.Paid = *update.Paid
	}
	if update.ParticipantLimit != nil {
		event.ParticipantLimit = *update.ParticipantLimit
	}
	if update.RequestModeration != nil {
		event.RequestModeration = *update.RequestModeration
	}
	if update.EventDate != nil {
		event.EventDate = *update.EventDate
	}

	return nil
}

func (s *EventService) enrichOne(ctx context.Context, event domain.Event) (domain.Event, error) {
	enriched, err := s.enrich(ctx, []domain.Event{event})
	if err != nil {
		return domain.Event{}, err
	}

	return enriched[0], nil
}

// enrich attaches confirmed-request counts and view counts. View lookups are
// best effort: a stats outage degrades counts to zero instead of failing the
// read path.
func (s *EventService) enrich(ctx context.Context, events []domain.Event) ([]domain.Event, error) {
	if len(events) == 0 {
		return []domain.Event{}, nil
	}

	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	views, err := s.views.CountViews(ctx, ids)
	if err != nil {
		zap.S().Warnw("count views", "error", err)
		views = map[int64]int64{}
	}

	for i := range events {
		confirmed, err := s.requests.CountByStatus(ctx, events[i].ID, domain.RequestStatusConfirmed)
		if err != nil {
			return nil, fmt.Errorf("s.requests.CountByStatus -> %w", err)
		}

		events[i].ConfirmedRequests = confirmed
		events[i].Views = views[events[i].ID]
	}

	return events, nil
}
