package domain

type Compilation struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Pinned bool    `json:"pinned"`
	Events []Event `json:"events"`
}
