package gnseed

import (
	"context"

	"github.com/gnames/gnseed/pkg/schema"
)

// SchemaManager creates and drops the tables of a catalog.
// Config and database operator are provided during construction via
// NewManager.
type SchemaManager interface {
	// Create creates tables of the catalog in dependency order. Tables
	// that carry a gorm model are created with AutoMigrate, others from
	// their DDL. Existing tables are left untouched.
	Create(ctx context.Context, cat *schema.Catalog) error

	// Drop drops tables of the catalog, dependent tables first.
	Drop(ctx context.Context, cat *schema.Catalog) error
}
