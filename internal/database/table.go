package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/stemsi/academia-backend/internal/model"
)

// Record is a value stored in a Table. UniqueKey returns "" for records
// without a uniqueness constraint.
type Record[T any] interface {
	GetID() int
	WithID(id int) T
	UniqueKey() string
}

// Table is an in-memory keyed collection with an optional unique index.
// IDs are assigned on insert, increase monotonically and are never reused.
// Every operation waits the table latency first, then runs as one critical
// section, so a uniqueness check and the write that follows are atomic.
type Table[T Record[T]] struct {
	name    string
	latency Latency

	mu     sync.RWMutex
	nextID int
	rows   map[int]T
	order  []int
	byKey  map[string]int
}

// NewTable creates an empty table. name is used in error messages.
func NewTable[T Record[T]](name string, latency Latency) *Table[T] {
	if latency == nil {
		latency = NoLatency
	}
	return &Table[T]{
		name:    name,
		latency: latency,
		rows:    make(map[int]T),
		byKey:   make(map[string]int),
	}
}

// Insert stores rec under a fresh id.
func (t *Table[T]) Insert(ctx context.Context, rec T) (T, error) {
	return t.InsertChecked(ctx, func([]T) (T, error) { return rec, nil })
}

// InsertChecked builds the record to insert from a snapshot of all rows,
// inside the same critical section as the insert. build returning an error
// aborts the insert.
func (t *Table[T]) InsertChecked(ctx context.Context, build func(all []T) (T, error)) (T, error) {
	var zero T
	if err := t.latency.Wait(ctx); err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := build(t.snapshot(0))
	if err != nil {
		return zero, err
	}
	if key := rec.UniqueKey(); key != "" {
		if _, taken := t.byKey[key]; taken {
			return zero, fmt.Errorf("%s %q: %w", t.name, key, model.ErrDuplicateName)
		}
	}
	return t.insertLocked(rec), nil
}

// FirstOrCreate returns the row holding rec's unique key, or inserts rec when
// there is none. created reports which happened.
func (t *Table[T]) FirstOrCreate(ctx context.Context, rec T) (out T, created bool, err error) {
	if err := t.latency.Wait(ctx); err != nil {
		return out, false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if key := rec.UniqueKey(); key != "" {
		if id, ok := t.byKey[key]; ok {
			return t.rows[id], false, nil
		}
	}
	return t.insertLocked(rec), true, nil
}

func (t *Table[T]) insertLocked(rec T) T {
	t.nextID++
	rec = rec.WithID(t.nextID)
	t.rows[rec.GetID()] = rec
	t.order = append(t.order, rec.GetID())
	if key := rec.UniqueKey(); key != "" {
		t.byKey[key] = rec.GetID()
	}
	return rec
}

// Get returns the row with the given id.
func (t *Table[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	if err := t.latency.Wait(ctx); err != nil {
		return zero, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.rows[id]
	if !ok {
		return zero, fmt.Errorf("%s %d: %w", t.name, id, model.ErrNotFound)
	}
	return rec, nil
}

// GetByKey returns the row whose unique key equals key.
func (t *Table[T]) GetByKey(ctx context.Context, key string) (T, error) {
	var zero T
	if err := t.latency.Wait(ctx); err != nil {
		return zero, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	id, ok := t.byKey[key]
	if !ok || key == "" {
		return zero, fmt.Errorf("%s %q: %w", t.name, key, model.ErrNotFound)
	}
	return t.rows[id], nil
}

// List returns all rows in insertion order.
func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	if err := t.latency.Wait(ctx); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.snapshot(0), nil
}

// Update replaces the row with the value returned by fn, which receives the
// current row and a snapshot of every other row. The id is preserved. A new
// unique key that belongs to another row is rejected.
func (t *Table[T]) Update(ctx context.Context, id int, fn func(current T, others []T) (T, error)) (T, error) {
	var zero T
	if err := t.latency.Wait(ctx); err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current, ok := t.rows[id]
	if !ok {
		return zero, fmt.Errorf("%s %d: %w", t.name, id, model.ErrNotFound)
	}

	next, err := fn(current, t.snapshot(id))
	if err != nil {
		return zero, err
	}
	next = next.WithID(id)

	oldKey, newKey := current.UniqueKey(), next.UniqueKey()
	if newKey != oldKey {
		if owner, taken := t.byKey[newKey]; taken && owner != id && newKey != "" {
			return zero, fmt.Errorf("%s %q: %w", t.name, newKey, model.ErrDuplicateName)
		}
		if oldKey != "" {
			delete(t.byKey, oldKey)
		}
		if newKey != "" {
			t.byKey[newKey] = id
		}
	}
	t.rows[id] = next
	return next, nil
}

// Delete removes the row with the given id.
func (t *Table[T]) Delete(ctx context.Context, id int) error {
	if err := t.latency.Wait(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %d: %w", t.name, id, model.ErrNotFound)
	}
	t.deleteLocked(id)
	return nil
}

// DeleteWhere removes every row matching pred and returns how many went.
func (t *Table[T]) DeleteWhere(ctx context.Context, pred func(T) bool) (int, error) {
	if err := t.latency.Wait(ctx); err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var doomed []int
	for _, id := range t.order {
		if pred(t.rows[id]) {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		t.deleteLocked(id)
	}
	return len(doomed), nil
}

func (t *Table[T]) deleteLocked(id int) {
	if key := t.rows[id].UniqueKey(); key != "" {
		delete(t.byKey, key)
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// snapshot copies the rows in insertion order, skipping id exclude.
func (t *Table[T]) snapshot(exclude int) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if id == exclude {
			continue
		}
		out = append(out, t.rows[id])
	}
	return out
}
