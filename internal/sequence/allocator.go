// Package sequence assigns order identifiers for a single interactive
// session. The counter lives in process memory and is seeded once from the
// database; it is not safe to share a database with concurrent writers.
// Serving multiple sessions would need a database sequence instead.
package sequence

import (
	"context"
	"fmt"
)

// MaxIDSource is the one query seeding needs; satisfied by the orders
// repository.
type MaxIDSource interface {
	MaxOrderID(ctx context.Context) (int64, error)
}

type Allocator struct {
	next int64
}

// Seed reads the current maximum stored order id and positions the counter
// at max+1. An empty table seeds to 1. A failed seed query is returned as an
// error so startup can abort; handing out ids after a failed seed would risk
// collisions.
func Seed(ctx context.Context, src MaxIDSource) (*Allocator, error) {
	max, err := src.MaxOrderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed order id allocator: %w", err)
	}
	return &Allocator{next: max + 1}, nil
}

// Next returns the id the next order will use. It does not advance the
// counter; repeated calls between commits return the same value.
func (a *Allocator) Next() int64 {
	return a.next
}

// Advance moves to the following id. Called only after the order that used
// Next() has committed.
func (a *Allocator) Advance() {
	a.next++
}
