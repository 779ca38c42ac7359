package task

import "errors"

// ErrNotFound is returned when no task in the collection matches the
// requested id.
var ErrNotFound = errors.New("task not found")

// ErrPersist is returned when the collection could not be written back to
// the store. The in-memory mutation is discarded from the caller's point of
// view; nothing was durably saved.
var ErrPersist = errors.New("failed to persist tasks")
