package models

import "time"

// ReviewTask tracks a collection's position in the spaced-repetition
// interval sequence. Exactly one task exists per collection; it is
// removed together with the collection.
type ReviewTask struct {
	ID            int64     `json:"id" db:"id"`
	CollectionID  int64     `json:"collection_id" db:"collection_id"`
	IntervalIndex int       `json:"interval_index" db:"interval_index"`
	NextReview    time.Time `json:"next_review" db:"next_review"`
	LastReviewed  time.Time `json:"last_reviewed" db:"last_reviewed"`
	ReviewCount   int       `json:"review_count" db:"review_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
