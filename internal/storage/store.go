package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"liftlog/internal/workout"
)

// ErrClosed is returned by Flush after Shutdown.
var ErrClosed = errors.New("store is closed")

// Change describes one committed mutation.
type Change struct {
	Operation  string // "add", "delete", "rename", "update", "weight", "restore"
	ItemType   string // "group" or "exercise"
	ItemName   string
	Collection workout.Collection // the state after the change
}

// SaveEvent reports the outcome of persisting a change.
type SaveEvent struct {
	Change
	Err error
}

// Store owns the current collection. Its mutators are the only way to change
// it; each one swaps the collection in a single step and then commits: the new
// state is queued for the background writer and subscribers are notified.
// Writes happen in mutation order.
type Store struct {
	kv      KV
	factory *workout.Factory

	mu      sync.Mutex
	current workout.Collection
	loaded  LoadResult
	closed  bool
	// commits counts mutations, so Reload can tell whether one raced it.
	commits uint64

	// notifyMu is taken before mu is released so subscribers see changes in
	// commit order.
	notifyMu sync.Mutex
	subs     map[int]func(Change)
	nextSub  int

	w *writer
}

// Option configures a Store.
type Option func(*Store)

// WithFactory sets the factory used for ids and dates.
func WithFactory(f *workout.Factory) Option {
	return func(s *Store) {
		if f != nil {
			s.factory = f
		}
	}
}

// Open loads the collection from kv and starts the writer. The initial load is
// never written back and does not notify anyone.
func Open(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		factory: workout.NewFactory(),
		subs:    make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current, s.loaded = Load(kv, s.factory)
	s.w = newWriter(kv)
	slog.Debug("Workouts loaded", "groups", len(s.current), "result", s.loaded.String())
	return s
}

// Factory returns the factory used for ids and dates.
func (s *Store) Factory() *workout.Factory {
	return s.factory
}

// SetNowFunc overrides the clock used for history dates.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.factory.SetNowFunc(now)
}

// LoadResult reports how the collection was obtained at Open.
func (s *Store) LoadResult() LoadResult {
	return s.loaded
}

// Seeded reports whether the example groups were loaded on first run.
func (s *Store) Seeded() bool {
	return s.loaded == LoadSeeded
}

// Reload replaces the current collection with what is stored, so changes
// written by another process become visible before this one writes again.
// Pending writes are flushed first; when a mutation happens meanwhile the
// in-memory collection is newer and is kept. An absent key keeps the current
// collection. Subscribers are not notified.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	seen := s.commits
	s.mu.Unlock()

	if err := s.Flush(ctx); err != nil {
		return err
	}

	raw, ok, err := s.kv.Get(CollectionKey)
	if err != nil {
		return fmt.Errorf("failed to read workouts: %w", err)
	}
	if !ok {
		return nil
	}
	c, err := Decode([]byte(raw))
	if err != nil {
		return fmt.Errorf("stored workouts are invalid: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.commits != seen {
		return nil
	}
	s.current = c
	return nil
}

// Snapshot returns the current collection. Callers must not modify it.
func (s *Store) Snapshot() workout.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for every committed change and returns a function
// that removes it. fn runs on the mutating goroutine and must not call Store
// mutators.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.notifyMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.subs, id)
		s.notifyMu.Unlock()
	}
}

// SetOnSaved registers a callback run by the writer after every write
// attempt. It replaces any previous callback.
func (s *Store) SetOnSaved(fn func(SaveEvent)) {
	s.w.setOnSaved(fn)
}

// Flush blocks until every change committed so far has been written.
func (s *Store) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Shutdown drains pending writes and stops the writer. Mutators called
// afterwards change nothing and report false.
func (s *Store) Shutdown() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.w.close()
	return nil
}

// =============================================================================
// Mutators
// =============================================================================

// AddGroup creates a group with the given initial exercises and returns its id.
func (s *Store) AddGroup(name string, initial []workout.ExerciseSpec) string {
	var id string
	s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		var next workout.Collection
		next, id = s.factory.AddGroup(c, name, initial)
		return next, &Change{Operation: "add", ItemType: "group", ItemName: name}
	})
	return id
}

// DeleteGroup removes a group. It reports whether the group existed.
func (s *Store) DeleteGroup(groupID string) bool {
	return s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		g, _ := workout.Find(c, groupID)
		next, ok := workout.DeleteGroup(c, groupID)
		if !ok {
			return c, nil
		}
		return next, &Change{Operation: "delete", ItemType: "group", ItemName: g.Name}
	})
}

// RenameGroup renames a group.
func (s *Store) RenameGroup(groupID, name string) bool {
	return s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		next, ok := workout.RenameGroup(c, groupID, name)
		if !ok {
			return c, nil
		}
		return next, &Change{Operation: "rename", ItemType: "group", ItemName: name}
	})
}

// RestoreGroup re-inserts a deleted group at index.
func (s *Store) RestoreGroup(index int, g workout.Group) bool {
	return s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		next, ok := workout.InsertGroup(c, index, g)
		if !ok {
			return c, nil
		}
		return next, &Change{Operation: "restore", ItemType: "group", ItemName: g.Name}
	})
}

// AddExercise adds an exercise to a group and returns its id, or "" when the
// group does not exist.
func (s *Store) AddExercise(groupID string, spec workout.ExerciseSpec) string {
	var id string
	s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		var next workout.Collection
		next, id = s.factory.AddExercise(c, groupID, spec)
		if id == "" {
			return c, nil
		}
		return next, &Change{Operation: "add", ItemType: "exercise", ItemName: spec.Name}
	})
	return id
}

// DeleteExercise removes an exercise from a group.
func (s *Store) DeleteExercise(groupID, exerciseID string) bool {
	return s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		ex, _ := workout.FindExercise(c, groupID, exerciseID)
		next, ok := workout.DeleteExercise(c, groupID, exerciseID)
		if !ok {
			return c, nil
		}
		return next, &Change{Operation: "delete", ItemType: "exercise", ItemName: ex.Name}
	})
}

// UpdateExercise replaces an exercise's editable fields.
func (s *Store) UpdateExercise(groupID string, updated workout.Exercise) bool {
	return s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		next, ok := workout.UpdateExercise(c, groupID, updated)
		if !ok {
			return c, nil
		}
		return next, &Change{Operation: "update", ItemType: "exercise", ItemName: updated.Name}
	})
}

// AppendWeight registers a weight for today.
func (s *Store) AppendWeight(groupID, exerciseID, weight string) bool {
	return s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		next, ok := s.factory.AppendWeight(c, groupID, exerciseID, weight)
		if !ok {
			return c, nil
		}
		ex, _ := workout.FindExercise(next, groupID, exerciseID)
		return next, &Change{Operation: "weight", ItemType: "exercise", ItemName: ex.Name}
	})
}

// RestoreExercise re-inserts a deleted exercise at index within its group.
func (s *Store) RestoreExercise(groupID string, index int, ex workout.Exercise) bool {
	return s.mutate(func(c workout.Collection) (workout.Collection, *Change) {
		next, ok := workout.InsertExercise(c, groupID, index, ex)
		if !ok {
			return c, nil
		}
		return next, &Change{Operation: "restore", ItemType: "exercise", ItemName: ex.Name}
	})
}

// mutate applies fn to the current collection. A nil change means no-op:
// nothing is written and nobody is notified.
func (s *Store) mutate(fn func(workout.Collection) (workout.Collection, *Change)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		slog.Warn("Store closed, change ignored")
		return false
	}
	next, change := fn(s.current)
	if change == nil {
		s.mu.Unlock()
		return false
	}
	s.current = next
	s.commits++
	change.Collection = next
	s.commit(*change)
	return true
}

// commit is the on-commit hook. It runs with mu held and releases it.
func (s *Store) commit(change Change) {
	if !s.w.enqueue(change) {
		slog.Warn("Store closed, change not persisted", "op", change.Operation, "item", change.ItemName)
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range s.subs {
		fn(change)
	}
}
