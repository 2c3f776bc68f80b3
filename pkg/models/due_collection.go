package models

// DueCollection is a read-only projection of a collection whose review
// task has come due, joined with the schedule state and the owning
// user's contact identity. It is never persisted.
type DueCollection struct {
	Collection Collection `json:"collection"`
	Task       ReviewTask `json:"task"`
	User       User       `json:"user"`
	Words      []Word     `json:"words"` // loaded only by the global due query
}
