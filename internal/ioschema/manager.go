// Package ioschema implements SchemaManager interface for table
// management. This is an impure I/O package that runs DDL and gorm
// AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"
	"slices"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/pkg/db"
	"github.com/gnames/gnseed/pkg/gnseed"
	"github.com/gnames/gnseed/pkg/schema"
)

// manager implements the gnseed.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) gnseed.SchemaManager {
	return &manager{operator: op}
}

// Create creates tables of the catalog in dependency order.
func (m *manager) Create(
	ctx context.Context,
	cat *schema.Catalog,
) error {
	gormDB := m.operator.DB()
	if gormDB == nil {
		return NotConnectedError()
	}

	names, err := cat.Order()
	if err != nil {
		return err
	}

	var created int
	for _, name := range names {
		tbl, _ := cat.Table(name)

		if tbl.Model != nil {
			if err = gormDB.WithContext(ctx).AutoMigrate(tbl.Model); err != nil {
				return CreateTableError(name, err)
			}
			created++
			slog.Info("Migrated model", "table", name)
			continue
		}

		exists, err := m.operator.TableExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			slog.Info("Table exists, skipping", "table", name)
			continue
		}

		ddl := tbl.TableDDL(m.operator.Dialect())
		if err = gormDB.WithContext(ctx).Exec(ddl).Error; err != nil {
			return CreateTableError(name, err)
		}
		created++
		slog.Info("Created table", "table", name)
	}

	gn.Info("Created <em>%d</em> of %d tables", created, len(names))
	return nil
}

// Drop drops tables of the catalog in reverse dependency order.
func (m *manager) Drop(
	ctx context.Context,
	cat *schema.Catalog,
) error {
	if m.operator.DB() == nil {
		return NotConnectedError()
	}

	names, err := cat.Order()
	if err != nil {
		return err
	}
	slices.Reverse(names)

	tables := make([]*schema.Table, len(names))
	for i, name := range names {
		tables[i], _ = cat.Table(name)
	}
	return m.operator.DropTables(ctx, tables...)
}
