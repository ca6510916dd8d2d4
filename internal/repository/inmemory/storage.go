package inmemory

import (
	"context"
	"sync"
	"time"

	"jobTracker/internal/logger"
	"jobTracker/internal/models"
	repo "jobTracker/internal/repository"

	"github.com/google/uuid"
)

// table keeps rows by id plus their insertion order.
type table[T any] struct {
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[uuid.UUID]T)}
}

func (t *table[T]) put(id uuid.UUID, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) delete(id uuid.UUID) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	for i, val := range t.order {
		if val == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *table[T]) each(fn func(T)) {
	for _, id := range t.order {
		fn(t.rows[id])
	}
}

func (t table[T]) clone() table[T] {
	out := table[T]{
		rows:  make(map[uuid.UUID]T, len(t.rows)),
		order: append([]uuid.UUID(nil), t.order...),
	}
	for id, row := range t.rows {
		out.rows[id] = row
	}
	return out
}

type state struct {
	jobs          table[models.Job]
	phases        table[models.Phase]
	tasks         table[models.Task]
	materials     table[models.Material]
	notes         table[models.Note]
	notifications table[models.Notification]
	keys          map[string]uuid.UUID
}

func newState() *state {
	return &state{
		jobs:          newTable[models.Job](),
		phases:        newTable[models.Phase](),
		tasks:         newTable[models.Task](),
		materials:     newTable[models.Material](),
		notes:         newTable[models.Note](),
		notifications: newTable[models.Notification](),
		keys:          make(map[string]uuid.UUID),
	}
}

func (s *state) clone() *state {
	keys := make(map[string]uuid.UUID, len(s.keys))
	for k, v := range s.keys {
		keys[k] = v
	}
	return &state{
		jobs:          s.jobs.clone(),
		phases:        s.phases.clone(),
		tasks:         s.tasks.clone(),
		materials:     s.materials.clone(),
		notes:         s.notes.clone(),
		notifications: s.notifications.clone(),
		keys:          keys,
	}
}

// Storage keeps rows as values, so callers never share memory with the store.
type Storage struct {
	mtx  *sync.RWMutex
	st   *state
	inTx bool
}

func NewStorage() *Storage {
	return &Storage{
		mtx: &sync.RWMutex{},
		st:  newState(),
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: in-memory storage is healthy")
	return nil
}

func (s *Storage) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mtx.Lock()
	return s.mtx.Unlock
}

func (s *Storage) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mtx.RLock()
	return s.mtx.RUnlock
}

// WithinTx runs fn on a private copy of the data and publishes it only when fn
// succeeds. Other writers wait until the transaction ends. Every transaction copies
// the whole store, so a write costs time proportional to the total row count; this
// backend is meant for development and tests, not large data sets.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repo.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	tx := &Storage{mtx: s.mtx, st: s.st.clone(), inTx: true}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func copyUsers(users []uuid.UUID) []uuid.UUID {
	if users == nil {
		return []uuid.UUID{}
	}
	return append([]uuid.UUID(nil), users...)
}

func now() *time.Time {
	t := time.Now()
	return &t
}
