package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the store.
// Malformed ids are reported the same way.
var ErrNotFound = errors.New("not found")
