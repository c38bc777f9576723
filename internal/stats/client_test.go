package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHit(t *testing.T) {
	received := make(chan hitPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/hit", r.URL.Path)

		var payload hitPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		received <- payload
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "eventboard-api")
	client.RecordHit(context.Background(), "/events/7", "10.0.0.1")

	select {
	case got := <-received:
		assert.Equal(t, "eventboard-api", got.App)
		assert.Equal(t, "/events/7", got.URI)
		assert.Equal(t, "10.0.0.1", got.IP)
		assert.NotEmpty(t, got.Timestamp)
	case <-time.After(2 * time.Second):
		t.Fatal("hit was never delivered")
	}
}

func TestRecordHitOutlivesCaller(t *testing.T) {
	received := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received <- struct{}{}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "eventboard-api")
	client.RecordHit(ctx, "/events/7", "10.0.0.1")

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("hit was never delivered")
	}
}

func TestCountViews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("unique"))
		require.ElementsMatch(t, []string{"/events/1", "/events/2"}, r.URL.Query()["uris"])

		_ = json.NewEncoder(w).Encode([]statsRow{
			{App: "eventboard-api", URI: "/events/1", Hits: 12},
			{App: "eventboard-api", URI: "/events/2", Hits: 4},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "eventboard-api")
	views, err := client.CountViews(context.Background(), []int64{1, 2})

	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 12, 2: 4}, views)
}

func TestCountViewsEmpty(t *testing.T) {
	client := NewClient("http://localhost:0", "eventboard-api")

	views, err := client.CountViews(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetStatsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "eventboard-api")
	_, err := client.CountViews(context.Background(), []int64{1})

	assert.Error(t, err)
}
