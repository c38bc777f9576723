package domain

import "time"

type Subscription struct {
	ID           int64     `json:"id"`
	SubscriberID int64     `json:"subscriber"`
	AuthorID     int64     `json:"author"`
	Created      time.Time `json:"created"`
}
