package task

import "time"

// Task is a single to-do record. The JSON field names match the on-disk
// store layout and both transport surfaces.
type Task struct {
	// ID uniquely identifies the task within the collection.
	ID string `json:"id"`

	// Title is the caller-supplied description. Immutable after creation.
	Title string `json:"title"`

	// Completed reports whether the task has been marked done.
	Completed bool `json:"completed"`

	// CreatedAt is the creation timestamp (RFC 3339 in JSON).
	CreatedAt time.Time `json:"createdAt"`
}
