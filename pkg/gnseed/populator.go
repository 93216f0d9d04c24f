package gnseed

import "context"

// Populator fills tables of a catalog with fake rows.
type Populator interface {
	// Populate inserts amount rows into each named table, or into every
	// table of the catalog when no names are given. Tables are processed
	// in dependency order, rows they reference are created on the way.
	Populate(ctx context.Context, amount int, names ...string) error

	// Reset deletes all rows of the named tables and returns the number
	// of deleted rows. Nothing happens unless confirm is true.
	Reset(ctx context.Context, confirm bool, names ...string) (int64, error)
}
