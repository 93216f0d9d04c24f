// Package iodb implements database operations using gorm over a pgx pool
// (PostgreSQL) or a pure Go SQLite driver. This is an impure I/O package
// that implements contracts defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/db"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// operator implements db.Operator interface.
type operator struct {
	db      *gorm.DB
	pool    *pgxpool.Pool
	dialect schema.Dialect
}

// NewOperator creates a new database operator (without connecting).
func NewOperator() db.Operator {
	return &operator{}
}

// Connect opens the database described by the configuration.
func (o *operator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	if cfg.Driver == string(schema.SQLite) {
		return o.connectSQLite(ctx, cfg)
	}
	return o.connectPostgres(ctx, cfg)
}

// connectPostgres establishes a connection pool to PostgreSQL.
// Uses sensible hardcoded pool settings that work well for
// most use cases.
func (o *operator) connectPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg, err)
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}),
		gormConfig(),
	)
	if err != nil {
		pool.Close()
		return ConnectionError(cfg, err)
	}

	o.pool = pool
	o.db = gormDB
	o.dialect = schema.Postgres
	slog.Info("Connected to PostgreSQL",
		"host", cfg.Host, "database", cfg.Database)
	return nil
}

// connectSQLite opens a SQLite file with foreign keys enforced.
// SQLite allows one writer, so the pool keeps a single connection.
func (o *operator) connectSQLite(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := cfg.Path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	gormDB, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),
		gormConfig(),
	)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return ConnectionError(cfg, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return ConnectionError(cfg, err)
	}

	o.db = gormDB
	o.dialect = schema.SQLite
	slog.Info("Opened SQLite database", "path", cfg.Path)
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}

// Close releases all database connections.
func (o *operator) Close() error {
	if o.db == nil {
		return nil
	}
	sqlDB, err := o.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if o.pool != nil {
		o.pool.Close()
	}
	o.db = nil
	o.pool = nil
	return err
}

// DB returns the gorm handle of the connection.
func (o *operator) DB() *gorm.DB {
	return o.db
}

// Dialect returns the SQL flavour of the connected database.
func (o *operator) Dialect() schema.Dialect {
	return o.dialect
}

// TableExists checks if a table exists in the current database.
func (o *operator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}

	var query string
	switch o.dialect {
	case schema.SQLite:
		query = `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table' AND name = ?
		)`
	default:
		query = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_name = ?
		)`
	}

	var exists bool
	err := o.db.WithContext(ctx).Raw(query, tableName).Scan(&exists).Error
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// HasTables checks if any of the given tables exists.
func (o *operator) HasTables(
	ctx context.Context,
	tableNames ...string,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}

	for _, name := range tableNames {
		exists, err := o.TableExists(ctx, name)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

// DropTables drops tables in the given order.
func (o *operator) DropTables(
	ctx context.Context,
	tables ...*schema.Table,
) error {
	if o.db == nil {
		return NotConnectedError()
	}

	for _, t := range tables {
		q := t.DropDDL(o.dialect)
		if err := o.db.WithContext(ctx).Exec(q).Error; err != nil {
			return DropTableError(t.Name, err)
		}
		slog.Debug("Dropped table", "table", t.Name)
	}
	return nil
}
