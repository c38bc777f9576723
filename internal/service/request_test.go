package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventboard/eventboard-api/internal/apperr"
	"github.com/eventboard/eventboard-api/internal/domain"
)

func publishedEvent(id, initiatorID int64, limit int, moderation bool) domain.Event {
	now := time.Now()

	return domain.Event{
		ID:                id,
		InitiatorID:       initiatorID,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             domain.EventStatePublished,
		EventDate:         now.Add(24 * time.Hour),
		PublishedOn:       &now,
	}
}

func usersUpTo(n int64) *fakeUsers {
	existing := make(map[int64]bool)
	for id := int64(1); id <= n; id++ {
		existing[id] = true
	}

	return &fakeUsers{existing: existing}
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms immediately when moderation is off", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, false))
		svc := NewRequestService(store, usersUpTo(5))

		created, err := svc.CreateRequest(ctx, 2, 1)

		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusConfirmed, created.Status)
	})

	t.Run("confirms immediately when the limit is zero", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 0, true))
		svc := NewRequestService(store, usersUpTo(5))

		created, err := svc.CreateRequest(ctx, 2, 1)

		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusConfirmed, created.Status)
	})

	t.Run("queues as pending when moderated with a limit", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		svc := NewRequestService(store, usersUpTo(5))

		created, err := svc.CreateRequest(ctx, 2, 1)

		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, created.Status)
	})

	t.Run("rejects the initiator's own request", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CreateRequest(ctx, 1, 1)

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("rejects requests against unpublished events", func(t *testing.T) {
		event := publishedEvent(1, 1, 10, true)
		event.State = domain.EventStatePending
		store := newFakeAdmissionStore(event)
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CreateRequest(ctx, 2, 1)

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("rejects a duplicate live request", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CreateRequest(ctx, 2, 1)
		require.NoError(t, err)

		_, err = svc.CreateRequest(ctx, 2, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("allows a new request after cancellation", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		svc := NewRequestService(store, usersUpTo(5))

		first, err := svc.CreateRequest(ctx, 2, 1)
		require.NoError(t, err)

		_, err = svc.CancelRequest(ctx, 2, first.ID)
		require.NoError(t, err)

		second, err := svc.CreateRequest(ctx, 2, 1)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("rejects when the limit is already reached", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 1, false))
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CreateRequest(ctx, 2, 1)
		require.NoError(t, err)

		_, err = svc.CreateRequest(ctx, 3, 1)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("unknown event is not found", func(t *testing.T) {
		store := newFakeAdmissionStore()
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CreateRequest(ctx, 2, 99)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CreateRequest(ctx, 42, 1)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestCreateRequestConcurrent(t *testing.T) {
	const (
		limit      = 5
		requesters = 20
	)

	ctx := context.Background()
	store := newFakeAdmissionStore(publishedEvent(1, 1, limit, false))
	svc := NewRequestService(store, usersUpTo(requesters+1))

	var wg sync.WaitGroup
	for userID := int64(2); userID <= requesters+1; userID++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, _ = svc.CreateRequest(ctx, id, 1)
		}(userID)
	}
	wg.Wait()

	confirmed, err := store.CountByStatus(ctx, 1, domain.RequestStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(limit), confirmed)
}

func TestCancelRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels an own pending request", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		request := store.addRequest(1, 2, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(5))

		canceled, err := svc.CancelRequest(ctx, 2, request.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusCanceled, canceled.Status)
	})

	t.Run("a foreign request is reported as absent", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		request := store.addRequest(1, 2, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CancelRequest(ctx, 3, request.ID)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("a confirmed request cannot be canceled", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 10, true))
		request := store.addRequest(1, 2, domain.RequestStatusConfirmed)
		svc := NewRequestService(store, usersUpTo(5))

		_, err := svc.CancelRequest(ctx, 2, request.ID)

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})
}

func TestAdjudicateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms in the submitted order and auto-rejects the overflow", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 3, true))
		store.addRequest(1, 9, domain.RequestStatusConfirmed)
		r1 := store.addRequest(1, 2, domain.RequestStatusPending)
		r2 := store.addRequest(1, 3, domain.RequestStatusPending)
		r3 := store.addRequest(1, 4, domain.RequestStatusPending)
		r4 := store.addRequest(1, 5, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(10))

		// Submitted out of creation order on purpose.
		ids := []int64{r3.ID, r1.ID, r4.ID, r2.ID}
		result, err := svc.AdjudicateBatch(ctx, 1, 1, ids, domain.RequestStatusConfirmed)

		require.NoError(t, err)
		require.Len(t, result.Confirmed, 2)
		require.Len(t, result.Rejected, 2)
		assert.Equal(t, []int64{r3.ID, r1.ID}, []int64{result.Confirmed[0].ID, result.Confirmed[1].ID})
		assert.Equal(t, []int64{r4.ID, r2.ID}, []int64{result.Rejected[0].ID, result.Rejected[1].ID})

		for _, id := range []int64{r3.ID, r1.ID} {
			persisted, err := store.GetRequest(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, domain.RequestStatusConfirmed, persisted.Status)
		}
		for _, id := range []int64{r4.ID, r2.ID} {
			persisted, err := store.GetRequest(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, domain.RequestStatusRejected, persisted.Status)
		}
	})

	t.Run("a repeated id takes one slot", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 2, true))
		store.addRequest(1, 9, domain.RequestStatusConfirmed)
		r1 := store.addRequest(1, 2, domain.RequestStatusPending)
		r2 := store.addRequest(1, 3, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(10))

		ids := []int64{r1.ID, r1.ID, r2.ID}
		result, err := svc.AdjudicateBatch(ctx, 1, 1, ids, domain.RequestStatusConfirmed)

		require.NoError(t, err)
		require.Len(t, result.Confirmed, 1)
		require.Len(t, result.Rejected, 1)
		assert.Equal(t, r1.ID, result.Confirmed[0].ID)
		assert.Equal(t, r2.ID, result.Rejected[0].ID)

		persisted, err := store.GetRequest(ctx, r1.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusConfirmed, persisted.Status)
	})

	t.Run("rejects the whole batch", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 3, true))
		r1 := store.addRequest(1, 2, domain.RequestStatusPending)
		r2 := store.addRequest(1, 3, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(10))

		result, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{r1.ID, r2.ID}, domain.RequestStatusRejected)

		require.NoError(t, err)
		assert.Empty(t, result.Confirmed)
		assert.Len(t, result.Rejected, 2)
	})

	t.Run("no-op for unlimited events", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 0, true))
		r1 := store.addRequest(1, 2, domain.RequestStatusConfirmed)
		svc := NewRequestService(store, usersUpTo(10))

		result, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{r1.ID}, domain.RequestStatusRejected)

		require.NoError(t, err)
		assert.Empty(t, result.Confirmed)
		assert.Empty(t, result.Rejected)

		persisted, err := store.GetRequest(ctx, r1.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusConfirmed, persisted.Status)
	})

	t.Run("no-op for unmoderated events", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 5, false))
		svc := NewRequestService(store, usersUpTo(10))

		result, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{1, 2, 3}, domain.RequestStatusConfirmed)

		require.NoError(t, err)
		assert.Empty(t, result.Confirmed)
		assert.Empty(t, result.Rejected)
	})

	t.Run("conflict when the limit is already reached", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 1, true))
		store.addRequest(1, 9, domain.RequestStatusConfirmed)
		r1 := store.addRequest(1, 2, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(10))

		_, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{r1.ID}, domain.RequestStatusConfirmed)

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("batch with a non-pending request fails whole", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 5, true))
		r1 := store.addRequest(1, 2, domain.RequestStatusPending)
		r2 := store.addRequest(1, 3, domain.RequestStatusRejected)
		svc := NewRequestService(store, usersUpTo(10))

		_, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{r1.ID, r2.ID}, domain.RequestStatusConfirmed)

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))

		persisted, err := store.GetRequest(ctx, r1.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, persisted.Status)
	})

	t.Run("batch with an unknown id fails whole", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 5, true))
		r1 := store.addRequest(1, 2, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(10))

		_, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{r1.ID, 999}, domain.RequestStatusConfirmed)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("batch with a request of another event fails whole", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 5, true), publishedEvent(2, 1, 5, true))
		foreign := store.addRequest(2, 3, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(10))

		_, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{foreign.ID}, domain.RequestStatusConfirmed)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("foreign initiator cannot adjudicate", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 5, true))
		r1 := store.addRequest(1, 2, domain.RequestStatusPending)
		svc := NewRequestService(store, usersUpTo(10))

		_, err := svc.AdjudicateBatch(ctx, 3, 1, []int64{r1.ID}, domain.RequestStatusConfirmed)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("invalid verdict status", func(t *testing.T) {
		store := newFakeAdmissionStore(publishedEvent(1, 1, 5, true))
		svc := NewRequestService(store, usersUpTo(10))

		_, err := svc.AdjudicateBatch(ctx, 1, 1, []int64{1}, domain.RequestStatusCanceled)

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
