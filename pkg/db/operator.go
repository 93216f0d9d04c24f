package db

import (
	"context"

	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/schema"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes gorm.DB for
// high-level components (SchemaManager, Store, Populator) to execute their
// statements.
type Operator interface {
	// Connect opens a PostgreSQL pool or a SQLite file, according to
	// the driver of the configuration.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection.
	Close() error

	// DB returns the gorm handle of the connection. It is nil before
	// Connect.
	DB() *gorm.DB

	// Dialect returns the SQL flavour of the connected database.
	Dialect() schema.Dialect

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if any of the given tables exists.
	// Used to determine if table creation should prompt for confirmation.
	HasTables(ctx context.Context, tableNames ...string) (bool, error)

	// DropTables drops the given tables if they exist.
	DropTables(ctx context.Context, tables ...*schema.Table) error
}
