// Package store implements the in-memory entity stores backing the API.
//
// Every store hands out snapshot copies, assigns integer IDs as
// max(existing)+1, and simulates backend I/O latency before resolving.
// State lives only for the lifetime of the process.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get/Update when no entity has the given ID.
// Delete reports a missing ID as (false, nil) instead.
var ErrNotFound = errors.New("store: entity not found")

// latency models the artificial delay of the mocked backend. A zero
// duration resolves immediately, which is what tests use.
type latency struct {
	d time.Duration
}

func (l latency) wait(ctx context.Context) error {
	if l.d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(l.d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// nextID returns max(ids)+1, or 1 for an empty store.
func nextID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}
