package models

import "time"

// Word represents a vocabulary entry inside a collection
type Word struct {
	ID           int64     `json:"id" db:"id"`
	CollectionID int64     `json:"collection_id" db:"collection_id"`
	Word         string    `json:"word" db:"word"`
	Translation  string    `json:"translation" db:"translation"`
	Example      string    `json:"example" db:"example"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
