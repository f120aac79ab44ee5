package storage

import "time"

// PostRecord is one channel delivery made by the auto-post pipeline.
type PostRecord struct {
	ContentID string    `json:"content_id"`
	Kind      string    `json:"kind"` // "shows" or "movies"
	Title     string    `json:"title"`
	Year      *int      `json:"year,omitempty"`
	Rating    *string   `json:"rating,omitempty"`
	PostedAt  time.Time `json:"posted_at"`
}
