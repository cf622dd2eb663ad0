package database

import (
	"context"
	"sync"
)

// KeyedMutex serializes callers per integer key. Slots exist only while a
// key has a holder or a waiter.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[int]*keySlot
}

type keySlot struct {
	held chan struct{}
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[int]*keySlot)}
}

// Lock blocks until key is free or ctx is done. The returned func releases
// the key and is safe to call more than once.
func (m *KeyedMutex) Lock(ctx context.Context, key int) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	s, ok := m.slots[key]
	if !ok {
		s = &keySlot{held: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	m.mu.Unlock()

	select {
	case s.held <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.held
				m.release(key, s)
			})
		}, nil
	case <-ctx.Done():
		m.release(key, s)
		return nil, ctx.Err()
	}
}

func (m *KeyedMutex) release(key int, s *keySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
}

// size reports the number of live slots.
func (m *KeyedMutex) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}
