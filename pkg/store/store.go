// Package store defines the persistence contract used by the seeder.
package store

import (
	"context"

	"github.com/gnames/gnseed/pkg/schema"
)

// Store is a transactional session over a database. The first write
// opens a transaction, Commit and Rollback close it. Reads issued while a
// transaction is open see its uncommitted rows.
//
// A Store is not safe for concurrent use.
type Store interface {
	// InsertNew inserts one row of an entity table and returns the row as
	// stored, including generated keys when the database reports them.
	InsertNew(ctx context.Context, t *schema.Table, row schema.Row) (schema.Row, error)

	// BulkInsert inserts rows of an association table in one statement.
	BulkInsert(ctx context.Context, t *schema.Table, rows []schema.Row) error

	// QueryFirst returns the first row of a table ordered by primary key.
	// It returns nil without an error when the table is empty.
	QueryFirst(ctx context.Context, t *schema.Table) (schema.Row, error)

	// DeleteAll removes all rows of a table and returns their number.
	DeleteAll(ctx context.Context, t *schema.Table) (int64, error)

	// Count returns the number of rows of a table.
	Count(ctx context.Context, t *schema.Table) (int64, error)

	// Commit makes pending writes durable. Without pending writes it
	// does nothing.
	Commit(ctx context.Context) error

	// Rollback discards pending writes. Without pending writes it does
	// nothing.
	Rollback(ctx context.Context) error
}
