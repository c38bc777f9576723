package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
)

type mockEventRepository struct {
	CreateFn                    func(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByIDFn                   func(ctx context.Context, id int64) (domain.Event, error)
	GetByIDAndInitiatorFn       func(ctx context.Context, eventID, initiatorID int64) (domain.Event, error)
	SaveFn                      func(ctx context.Context, event domain.Event) (domain.Event, error)
	ListByInitiatorFn           func(ctx context.Context, initiatorID int64, from, size int) ([]domain.Event, error)
	SearchPublicFn              func(ctx context.Context, filter repository.PublicEventFilter) ([]domain.Event, error)
	SearchAdminFn               func(ctx context.Context, filter repository.AdminEventFilter) ([]domain.Event, error)
	ListPublishedByInitiatorsFn func(ctx context.Context, initiatorIDs []int64, after time.Time, from, size int) ([]domain.Event, error)
}

func (m *mockEventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.CreateFn(ctx, event)
}

func (m *mockEventRepository) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockEventRepository) GetByIDAndInitiator(ctx context.Context, eventID, initiatorID int64) (domain.Event, error) {
	return m.GetByIDAndInitiatorFn(ctx, eventID, initiatorID)
}

func (m *mockEventRepository) Save(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.SaveFn(ctx, event)
}

func (m *mockEventRepository) ListByInitiator(ctx context.Context, initiatorID int64, from, size int) ([]domain.Event, error) {
	return m.ListByInitiatorFn(ctx, initiatorID, from, size)
}

func (m *mockEventRepository) SearchPublic(ctx context.Context, filter repository.PublicEventFilter) ([]domain.Event, error) {
	return m.SearchPublicFn(ctx, filter)
}

func (m *mockEventRepository) SearchAdmin(ctx context.Context, filter repository.AdminEventFilter) ([]domain.Event, error) {
	return m.SearchAdminFn(ctx, filter)
}

func (m *mockEventRepository) ListPublishedByInitiators(ctx context.Context, initiatorIDs []int64, after time.Time, from, size int) ([]domain.Event, error) {
	return m.ListPublishedByInitiatorsFn(ctx, initiatorIDs, after, from, size)
}

type mockCategories struct {
	GetByIDFn func(ctx context.Context, id int64) (domain.Category, error)
}

func (m *mockCategories) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	return m.GetByIDFn(ctx, id)
}

type mockCounter struct {
	counts map[int64]int64
}

func (m *mockCounter) CountByStatus(_ context.Context, eventID int64, _ domain.RequestStatus) (int64, error) {
	return m.counts[eventID], nil
}

type mockViews struct {
	hits  []string
	views map[int64]int64
}

func (m *mockViews) RecordHit(_ context.Context, uri, _ string) {
	m.hits = append(m.hits, uri)
}

func (m *mockViews) CountViews(_ context.Context, _ []int64) (map[int64]int64, error) {
	return m.views, nil
}

func newEventService(repo *mockEventRepository, categories *mockCategories, views *mockViews, counts map[int64]int64) *EventService {
	if categories == nil {
		categories = &mockCategories{
			GetByIDFn: func(_ context.Context, id int64) (domain.Category, error) {
				return domain.Category{ID: id, Name: "concerts"}, nil
			},
		}
	}
	if views == nil {
		views = &mockViews{views: map[int64]int64{}}
	}

	return NewEventService(repo, categories, usersUpTo(10), &mockCounter{counts: counts}, views)
}

func passthroughSave() func(ctx context.Context, event domain.Event) (domain.Event, error) {
	return func(_ context.Context, event domain.Event) (domain.Event, error) {
		return event, nil
	}
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh events start pending", func(t *testing.T) {
		repo := &mockEventRepository{
			CreateFn: func(_ context.Context, event domain.Event) (domain.Event, error) {
				event.ID = 1
				return event, nil
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		created, err := svc.CreateEvent(ctx, 1, domain.Event{
			CategoryID: 1,
			EventDate:  time.Now().Add(3 * time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, domain.EventStatePending, created.State)
		assert.Nil(t, created.PublishedOn)
		assert.Equal(t, int64(1), created.InitiatorID)
	})

	t.Run("dates closer than two hours are forbidden", func(t *testing.T) {
		svc := newEventService(&mockEventRepository{}, nil, nil, nil)

		_, err := svc.CreateEvent(ctx, 1, domain.Event{
			CategoryID: 1,
			EventDate:  time.Now().Add(time.Hour),
		})

		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		categories := &mockCategories{
			GetByIDFn: func(_ context.Context, _ int64) (domain.Category, error) {
				return domain.Category{}, repository.ErrCategoryNotFound
			},
		}
		svc := newEventService(&mockEventRepository{}, categories, nil, nil)

		_, err := svc.CreateEvent(ctx, 1, domain.Event{
			CategoryID: 42,
			EventDate:  time.Now().Add(3 * time.Hour),
		})

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestUpdateEventByAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes a pending event", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{
					ID:        id,
					State:     domain.EventStatePending,
					EventDate: time.Now().Add(3 * time.Hour),
				}, nil
			},
			SaveFn: passthroughSave(),
		}
		svc := newEventService(repo, nil, nil, nil)

		updated, err := svc.UpdateEventByAdmin(ctx, 1, EventUpdate{StateAction: StateActionPublish})

		require.NoError(t, err)
		assert.Equal(t, domain.EventStatePublished, updated.State)
		require.NotNil(t, updated.PublishedOn)
		assert.WithinDuration(t, time.Now(), *updated.PublishedOn, time.Minute)
	})

	t.Run("publishing twice conflicts", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{ID: id, State: domain.EventStatePublished}, nil
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		_, err := svc.UpdateEventByAdmin(ctx, 1, EventUpdate{StateAction: StateActionPublish})

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("publishing a canceled event conflicts", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{ID: id, State: domain.EventStateCanceled}, nil
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		_, err := svc.UpdateEventByAdmin(ctx, 1, EventUpdate{StateAction: StateActionPublish})

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("publishing too close to the event date is forbidden", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{
					ID:        id,
					State:     domain.EventStatePending,
					EventDate: time.Now().Add(30 * time.Minute),
				}, nil
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		_, err := svc.UpdateEventByAdmin(ctx, 1, EventUpdate{StateAction: StateActionPublish})

		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("applies a date edit without checking it", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{ID: id, State: domain.EventStatePending}, nil
			},
			SaveFn: passthroughSave(),
		}
		svc := newEventService(repo, nil, nil, nil)

		past := time.Now().Add(-24 * time.Hour)
		updated, err := svc.UpdateEventByAdmin(ctx, 1, EventUpdate{EventDate: &past})

		require.NoError(t, err)
		assert.Equal(t, past, updated.EventDate)
	})

	t.Run("rejecting a pending event cancels it", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{ID: id, State: domain.EventStatePending}, nil
			},
			SaveFn: passthroughSave(),
		}
		svc := newEventService(repo, nil, nil, nil)

		updated, err := svc.UpdateEventByAdmin(ctx, 1, EventUpdate{StateAction: StateActionReject})

		require.NoError(t, err)
		assert.Equal(t, domain.EventStateCanceled, updated.State)
	})

	t.Run("rejecting a published event conflicts", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{ID: id, State: domain.EventStatePublished}, nil
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		_, err := svc.UpdateEventByAdmin(ctx, 1, EventUpdate{StateAction: StateActionReject})

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})
}

func TestUpdateEventByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("published events cannot be edited", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDAndInitiatorFn: func(_ context.Context, eventID, _ int64) (domain.Event, error) {
				return domain.Event{ID: eventID, State: domain.EventStatePublished}, nil
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		_, err := svc.UpdateEventByUser(ctx, 1, 1, EventUpdate{})

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("canceled events can be sent back to review", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDAndInitiatorFn: func(_ context.Context, eventID, _ int64) (domain.Event, error) {
				return domain.Event{ID: eventID, State: domain.EventStateCanceled}, nil
			},
			SaveFn: passthroughSave(),
		}
		svc := newEventService(repo, nil, nil, nil)

		updated, err := svc.UpdateEventByUser(ctx, 1, 1, EventUpdate{StateAction: StateActionSendToReview})

		require.NoError(t, err)
		assert.Equal(t, domain.EventStatePending, updated.State)
	})

	t.Run("pending events can be withdrawn", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDAndInitiatorFn: func(_ context.Context, eventID, _ int64) (domain.Event, error) {
				return domain.Event{ID: eventID, State: domain.EventStatePending}, nil
			},
			SaveFn: passthroughSave(),
		}
		svc := newEventService(repo, nil, nil, nil)

		updated, err := svc.UpdateEventByUser(ctx, 1, 1, EventUpdate{StateAction: StateActionCancelReview})

		require.NoError(t, err)
		assert.Equal(t, domain.EventStateCanceled, updated.State)
	})

	t.Run("dates closer than two hours are forbidden", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDAndInitiatorFn: func(_ context.Context, eventID, _ int64) (domain.Event, error) {
				return domain.Event{ID: eventID, State: domain.EventStatePending}, nil
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		tooSoon := time.Now().Add(time.Hour)
		_, err := svc.UpdateEventByUser(ctx, 1, 1, EventUpdate{EventDate: &tooSoon})

		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("a foreign event is reported as absent", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDAndInitiatorFn: func(_ context.Context, _, _ int64) (domain.Event, error) {
				return domain.Event{}, repository.ErrEventNotFound
			},
		}
		svc := newEventService(repo, nil, nil, nil)

		_, err := svc.UpdateEventByUser(ctx, 1, 1, EventUpdate{})

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestGetPublicEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a published event with counts and records the hit", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{ID: id, State: domain.EventStatePublished}, nil
			},
		}
		views := &mockViews{views: map[int64]int64{1: 7}}
		svc := newEventService(repo, nil, views, map[int64]int64{1: 3})

		event, err := svc.GetPublicEvent(ctx, 1, "/events/1", "10.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, int64(7), event.Views)
		assert.Equal(t, int64(3), event.ConfirmedRequests)
		assert.Equal(t, []string{"/events/1"}, views.hits)
	})

	t.Run("an unpublished event is absent for the public", func(t *testing.T) {
		repo := &mockEventRepository{
			GetByIDFn: func(_ context.Context, id int64) (domain.Event, error) {
				return domain.Event{ID: id, State: domain.EventStatePending}, nil
			},
		}
		views := &mockViews{views: map[int64]int64{}}
		svc := newEventService(repo, nil, views, nil)

		_, err := svc.GetPublicEvent(ctx, 1, "/events/1", "10.0.0.1")

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.Empty(t, views.hits)
	})
}

func TestSearchPublicEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("sorts by views when asked", func(t *testing.T) {
		repo := &mockEventRepository{
			SearchPublicFn: func(_ context.Context, _ repository.PublicEventFilter) ([]domain.Event, error) {
				return []domain.Event{
					{ID: 1, State: domain.EventStatePublished},
					{ID: 2, State: domain.EventStatePublished},
				}, nil
			},
		}
		views := &mockViews{views: map[int64]int64{1: 2, 2: 9}}
		svc := newEventService(repo, nil, views, nil)

		events, err := svc.SearchPublicEvents(ctx, repository.PublicEventFilter{}, SortViews, "/events", "10.0.0.1")

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, int64(2), events[0].ID)
		assert.Equal(t, []string{"/events"}, views.hits)
	})

	t.Run("an inverted window is rejected", func(t *testing.T) {
		svc := newEventService(&mockEventRepository{}, nil, nil, nil)

		_, err := svc.SearchPublicEvents(ctx, repository.PublicEventFilter{
			RangeStart: time.Now().Add(time.Hour),
			RangeEnd:   time.Now(),
		}, SortEventDate, "/events", "10.0.0.1")

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
