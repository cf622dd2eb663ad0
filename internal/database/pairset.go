package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/stemsi/academia-backend/internal/model"
)

// Pair is one row of a many-to-many relation.
type Pair struct {
	Left  int
	Right int
}

// PairSet is an in-memory relation store. Each pair appears at most once and
// listing preserves insertion order.
type PairSet struct {
	name    string
	latency Latency

	mu    sync.RWMutex
	pairs []Pair
	index map[Pair]struct{}
}

// NewPairSet creates an empty relation store.
func NewPairSet(name string, latency Latency) *PairSet {
	if latency == nil {
		latency = NoLatency
	}
	return &PairSet{name: name, latency: latency, index: make(map[Pair]struct{})}
}

// Add inserts the pair, rejecting duplicates.
func (s *PairSet) Add(ctx context.Context, left, right int) error {
	if err := s.latency.Wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Pair{Left: left, Right: right}
	if _, ok := s.index[p]; ok {
		return fmt.Errorf("%s (%d, %d): %w", s.name, left, right, model.ErrDuplicateRelation)
	}
	s.index[p] = struct{}{}
	s.pairs = append(s.pairs, p)
	return nil
}

// Remove deletes the pair.
func (s *PairSet) Remove(ctx context.Context, left, right int) error {
	if err := s.latency.Wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Pair{Left: left, Right: right}
	if _, ok := s.index[p]; !ok {
		return fmt.Errorf("%s (%d, %d): %w", s.name, left, right, model.ErrNotFound)
	}
	s.removeLocked(func(q Pair) bool { return q == p })
	return nil
}

// ByLeft lists the pairs whose left side is left.
func (s *PairSet) ByLeft(ctx context.Context, left int) ([]Pair, error) {
	return s.filter(ctx, func(p Pair) bool { return p.Left == left })
}

// ByRight lists the pairs whose right side is right.
func (s *PairSet) ByRight(ctx context.Context, right int) ([]Pair, error) {
	return s.filter(ctx, func(p Pair) bool { return p.Right == right })
}

// RemoveLeft deletes every pair whose left side is left.
func (s *PairSet) RemoveLeft(ctx context.Context, left int) (int, error) {
	return s.removeWhere(ctx, func(p Pair) bool { return p.Left == left })
}

// RemoveRight deletes every pair whose right side is right.
func (s *PairSet) RemoveRight(ctx context.Context, right int) (int, error) {
	return s.removeWhere(ctx, func(p Pair) bool { return p.Right == right })
}

func (s *PairSet) filter(ctx context.Context, keep func(Pair) bool) ([]Pair, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Pair
	for _, p := range s.pairs {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PairSet) removeWhere(ctx context.Context, drop func(Pair) bool) (int, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(drop), nil
}

func (s *PairSet) removeLocked(drop func(Pair) bool) int {
	kept := s.pairs[:0]
	removed := 0
	for _, p := range s.pairs {
		if drop(p) {
			delete(s.index, p)
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.pairs = kept
	return removed
}
