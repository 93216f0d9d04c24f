// Package iostore implements store.Store with gorm. This is an impure
// I/O package that implements contracts defined in pkg/.
package iostore

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gnseed/pkg/db"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/gnames/gnseed/pkg/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore keeps one transaction open between the first write and
// Commit or Rollback.
type gormStore struct {
	db      *gorm.DB
	dialect schema.Dialect
	tx      *gorm.DB
}

// New creates a store over a connected operator.
func New(op db.Operator) store.Store {
	return &gormStore{db: op.DB(), dialect: op.Dialect()}
}

// conn returns the open transaction, or the database when there is none.
func (s *gormStore) conn(ctx context.Context) (*gorm.DB, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}
	if s.tx != nil {
		return s.tx.WithContext(ctx), nil
	}
	return s.db.WithContext(ctx), nil
}

// session returns the open transaction, starting one if needed.
func (s *gormStore) session(ctx context.Context) (*gorm.DB, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}
	if s.tx == nil {
		tx := s.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return nil, BeginError(tx.Error)
		}
		s.tx = tx
		slog.Debug("Transaction started")
	}
	return s.tx.WithContext(ctx), nil
}

// InsertNew inserts one row. Gorm does not report generated keys of rows
// created from maps, so an autoincrement key the row lacks is read back
// from the connection.
func (s *gormStore) InsertNew(
	ctx context.Context,
	t *schema.Table,
	row schema.Row,
) (schema.Row, error) {
	tx, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	values := s.values(row)
	if err = tx.Table(t.Name).Create(values).Error; err != nil {
		return nil, InsertError(t.Name, err)
	}

	res := make(schema.Row, len(row)+1)
	for k, v := range row {
		res[k] = v
	}

	pk, ok := serialKey(t)
	if !ok || res[pk] != nil {
		return res, nil
	}

	q := "SELECT lastval()"
	if s.dialect == schema.SQLite {
		q = "SELECT last_insert_rowid()"
	}
	var id int64
	if err = tx.Raw(q).Scan(&id).Error; err != nil {
		return nil, InsertError(t.Name, err)
	}
	res[pk] = id
	return res, nil
}

// BulkInsert inserts rows in one statement.
func (s *gormStore) BulkInsert(
	ctx context.Context,
	t *schema.Table,
	rows []schema.Row,
) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.session(ctx)
	if err != nil {
		return err
	}

	values := make([]map[string]any, len(rows))
	for i, v := range rows {
		values[i] = s.values(v)
	}
	if err = tx.Table(t.Name).Create(&values).Error; err != nil {
		return InsertError(t.Name, err)
	}
	return nil
}

// QueryFirst returns the row with the smallest primary key.
func (s *gormStore) QueryFirst(
	ctx context.Context,
	t *schema.Table,
) (schema.Row, error) {
	tx, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	q := tx.Table(t.Name).Limit(1)
	for _, pk := range t.PrimaryKeys() {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: pk}})
	}

	var rows []map[string]any
	if err = q.Find(&rows).Error; err != nil {
		return nil, QueryError(t.Name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return schema.Row(rows[0]), nil
}

// DeleteAll removes all rows of a table.
func (s *gormStore) DeleteAll(
	ctx context.Context,
	t *schema.Table,
) (int64, error) {
	tx, err := s.session(ctx)
	if err != nil {
		return 0, err
	}

	res := tx.Exec("DELETE FROM ?", clause.Table{Name: t.Name})
	if res.Error != nil {
		return 0, DeleteError(t.Name, res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns the number of rows of a table.
func (s *gormStore) Count(
	ctx context.Context,
	t *schema.Table,
) (int64, error) {
	tx, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	var res int64
	if err = tx.Table(t.Name).Count(&res).Error; err != nil {
		return 0, QueryError(t.Name, err)
	}
	return res, nil
}

// Commit commits the open transaction.
func (s *gormStore) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit().Error; err != nil {
		return CommitError(err)
	}
	slog.Debug("Transaction committed")
	return nil
}

// Rollback discards the open transaction.
func (s *gormStore) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback().Error; err != nil {
		return RollbackError(err)
	}
	slog.Debug("Transaction rolled back")
	return nil
}

// values converts a row into arguments the driver accepts. SQLite keeps
// intervals as a number of seconds.
func (s *gormStore) values(row schema.Row) map[string]any {
	res := make(map[string]any, len(row))
	for k, v := range row {
		if d, ok := v.(time.Duration); ok && s.dialect == schema.SQLite {
			v = int64(d / time.Second)
		}
		res[k] = v
	}
	return res
}

// serialKey returns the generated integer primary key of a table.
func serialKey(t *schema.Table) (string, bool) {
	pks := t.PrimaryKeys()
	if len(pks) != 1 {
		return "", false
	}
	c, ok := t.Column(pks[0])
	if !ok || !c.AutoIncrement || c.Type == nil ||
		c.Type.Kind() != schema.KindInteger {
		return "", false
	}
	return c.Name, true
}
