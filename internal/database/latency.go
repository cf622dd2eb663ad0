package database

import (
	"context"
	"time"
)

// Latency simulates the network round trip in front of every store
// operation. It is a test seam, not a behavioral contract.
type Latency interface {
	Wait(ctx context.Context) error
}

// FixedLatency waits the same duration before each operation.
type FixedLatency time.Duration

// NoLatency is used by tests.
const NoLatency FixedLatency = 0

// Wait blocks for the configured delay or until ctx is done.
func (l FixedLatency) Wait(ctx context.Context) error {
	if l <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(l))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
