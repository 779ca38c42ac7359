// Package task implements the task store and the five-operation task service
// shared by every transport adapter.
//
// The persisted state is a single JSON file holding the whole task collection.
// Every operation performs its own complete load-(mutate)-save cycle against
// that file; there is no long-lived in-memory cache. The Service serializes
// these cycles with a mutex, so concurrent mutations within one process cannot
// lose updates. Access to the same file from multiple processes remains
// uncoordinated.
//
// Load failures are fail-soft: a missing file is the first-run case and yields
// an empty collection, and malformed contents are logged and also treated as
// empty. Save failures are logged and surfaced to the caller as ErrPersist.
package task
