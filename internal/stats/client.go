package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eventboard/eventboard-api/internal/domain"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// The view counter is queried over the whole tracked history; hits outside
// this window are never recorded anyway.
var (
	viewWindowStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	viewWindowEnd   = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type statsRow struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Client talks to the hit-counting endpoints. Recording is best effort: a
// failed hit must never fail the page view that triggered it.
type Client struct {
	baseURL string
	app     string
	client  *http.Client
}

func NewClient(serverURL, appName string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		app:     appName,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// RecordHit posts one endpoint hit on a background goroutine, detached from
// the caller's context, and only logs on failure.
func (c *Client) RecordHit(ctx context.Context, uri, ip string) {
	payload := hitPayload{
		App:       c.app,
		URI:       uri,
		IP:        ip,
		Timestamp: time.Now().Format(dateTimeLayout),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		zap.S().Errorw("marshal endpoint hit", "uri", uri, "error", err)
		return
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
		if err != nil {
			zap.S().Errorw("build hit request", "uri", uri, "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			zap.S().Errorw("record endpoint hit", "uri", uri, "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			zap.S().Errorw("record endpoint hit", "uri", uri, "status", resp.StatusCode)
		}
	}()
}

// GetStats queries aggregated hit counts for the given uris within the window.
func (c *Client) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error) {
	params := url.Values{}
	params.Set("start", start.Format(dateTimeLayout))
	params.Set("end", end.Format(dateTimeLayout))
	params.Set("unique", strconv.FormatBool(unique))
	for _, u := range uris {
		params.Add("uris", u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("c.client.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats server returned %d", resp.StatusCode)
	}

	var rows []statsRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode stats response -> %w", err)
	}

	out := make([]domain.ViewStats, len(rows))
	for i, row := range rows {
		out[i] = domain.ViewStats{App: row.App, URI: row.URI, Hits: row.Hits}
	}

	return out, nil
}

// CountViews returns unique view counts keyed by event id. Events with no
// recorded hits are absent from the map.
func (c *Client) CountViews(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	if len(eventIDs) == 0 {
		return map[int64]int64{}, nil
	}

	uris := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		uris[i] = "/events/" + strconv.FormatInt(id, 10)
	}

	rows, err := c.GetStats(ctx, viewWindowStart, viewWindowEnd, uris, true)
	if err != nil {
		return nil, fmt.Errorf("c.GetStats -> %w", err)
	}

	views := make(map[int64]int64, len(rows))
	for _, row := range rows {
		idPart := strings.TrimPrefix(row.URI, "/events/")
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			continue
		}
		views[id] = row.Hits
	}

	return views, nil
}
