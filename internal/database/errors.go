package database

import "errors"

// ErrNotFound is returned when an operation references a record that
// does not exist. Malformed ids fall out the same way.
var ErrNotFound = errors.New("record not found")
