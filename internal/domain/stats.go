package domain

import "time"

// EndpointHit is one recorded visit to a tracked URI.
type EndpointHit struct {
	ID        int64     `json:"id"`
	App       string    `json:"app"`
	URI       string    `json:"uri"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// ViewStats is the aggregated hit count for one URI.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}
