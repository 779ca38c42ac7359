package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/taskfewer/internal/instrumentation"
)

// Store is the persistence unit the Service operates on: whole-collection
// load and save, nothing else.
type Store interface {
	Load() []Task
	Save(tasks []Task) error
}

// Service implements the five task operations shared by all transport
// adapters. Each call loads the full collection from the store, applies its
// change to an in-memory copy and writes the whole collection back. The
// mutex serializes these load-mutate-save cycles so concurrent mutations
// within one process cannot overwrite each other.
//
// Validation of caller input (for example a non-empty title) is a transport
// concern; the Service itself performs none.
type Service struct {
	store Store

	// serializes load-mutate-save cycles
	mu sync.Mutex

	// injectable for tests
	now   func() time.Time
	newID func() string

	metrics *instrumentation.Metrics
}

// NewService creates a Service over store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// SetMetrics attaches a metrics recorder. Safe to leave unset.
func (s *Service) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

func (s *Service) record(ctx context.Context, op, status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordStoreOperation(ctx, op, status, time.Since(start))
}

// Create appends a new uncompleted task with the given title and persists
// the collection. The id is a freshly generated UUID and CreatedAt is the
// current time.
func (s *Service) Create(ctx context.Context, title string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	tasks := s.store.Load()
	t := Task{
		ID:        s.newID(),
		Title:     title,
		Completed: false,
		CreatedAt: s.now(),
	}
	tasks = append(tasks, t)
	if err := s.store.Save(tasks); err != nil {
		s.record(ctx, instrumentation.OperationCreate, instrumentation.StatusError, start)
		return Task{}, err
	}
	s.record(ctx, instrumentation.OperationCreate, instrumentation.StatusSuccess, start)
	return t, nil
}

// List returns the persisted collection verbatim, in storage order.
func (s *Service) List(ctx context.Context) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	tasks := s.store.Load()
	s.record(ctx, instrumentation.OperationList, instrumentation.StatusSuccess, start)
	return tasks
}

// Get returns the first task whose id matches exactly, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	for _, t := range s.store.Load() {
		if t.ID == id {
			s.record(ctx, instrumentation.OperationGet, instrumentation.StatusSuccess, start)
			return t, nil
		}
	}
	s.record(ctx, instrumentation.OperationGet, instrumentation.StatusError, start)
	return Task{}, ErrNotFound
}

// Complete marks the task with the given id as completed and persists the
// collection. Completing an already-completed task is a no-op success; a
// missing id returns ErrNotFound without writing.
func (s *Service) Complete(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	tasks := s.store.Load()
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Completed = true
		if err := s.store.Save(tasks); err != nil {
			s.record(ctx, instrumentation.OperationComplete, instrumentation.StatusError, start)
			return Task{}, err
		}
		s.record(ctx, instrumentation.OperationComplete, instrumentation.StatusSuccess, start)
		return tasks[i], nil
	}
	s.record(ctx, instrumentation.OperationComplete, instrumentation.StatusError, start)
	return Task{}, ErrNotFound
}

// Delete removes the task with the given id, persists the remaining
// collection and returns the removed record. A missing id returns
// ErrNotFound without writing.
func (s *Service) Delete(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	tasks := s.store.Load()
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		removed := tasks[i]
		tasks = append(tasks[:i], tasks[i+1:]...)
		if err := s.store.Save(tasks); err != nil {
			s.record(ctx, instrumentation.OperationDelete, instrumentation.StatusError, start)
			return Task{}, err
		}
		s.record(ctx, instrumentation.OperationDelete, instrumentation.StatusSuccess, start)
		return removed, nil
	}
	s.record(ctx, instrumentation.OperationDelete, instrumentation.StatusError, start)
	return Task{}, ErrNotFound
}
