package repositories

import "context"

// CounterRepository issues monotonically increasing values per sequence name.
//
// Next must be atomic: concurrent callers for the same name never observe the
// same value. A name with no counter yet starts at 1.
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
