// Package seeder synthesizes fake rows for database tables and inserts
// them through a store.
//
// A Seeder is created for one table. For every column it decides whether
// the column is left to the database (auto-increment keys, defaults,
// nullable columns) and otherwise picks the first matching value source:
//
//  1. field override
//  2. JSON template from the column documentation
//  3. enumeration value
//  4. foreign key, a referenced row is created first
//  5. primary key primitive
//  6. value inferred from the column name (email, phone, price...)
//  7. value of the declared type
//
// Rows are inserted in batches, every batch is committed. A failure rolls
// back the transaction and is returned as one error.
package seeder

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/gnames/gnseed/pkg/store"
)

// maxDepth limits the chain of referenced tables created for one row.
const maxDepth = 32

// Seeder creates fake rows of one table.
type Seeder struct {
	cfg     *config.Config
	store   store.Store
	catalog *schema.Catalog
	table   *schema.Table

	faker  *gofakeit.Faker
	detect *detector

	// path holds tables of the current chain of foreign keys,
	// the last one is the table of this seeder.
	path []string

	// scoped seeders never commit or roll back, the owner of the scope does.
	scoped bool
}

// New creates a Seeder for the table. Foreign keys are resolved against
// the catalog, a nil catalog contains only the table itself. A nil config
// means default configuration.
func New(
	cfg *config.Config,
	st store.Store,
	cat *schema.Catalog,
	tbl *schema.Table,
) *Seeder {
	if cfg == nil {
		cfg = config.New()
	}
	if cat == nil {
		cat = schema.NewCatalog(tbl)
	}
	f := newFaker(cfg.Faker)
	return &Seeder{
		cfg:     cfg,
		store:   st,
		catalog: cat,
		table:   tbl,
		faker:   f,
		detect:  newDetector(f, newLocale(cfg.Faker.Locale), today()),
		path:    []string{tbl.Name},
	}
}

func newFaker(cfg config.FakerConfig) *gofakeit.Faker {
	if cfg.Source != nil {
		return cfg.Source
	}
	if cfg.Seed != nil {
		seed := uint64(*cfg.Seed)
		return gofakeit.NewFaker(rand.NewPCG(seed, seed), true)
	}
	return gofakeit.New(0)
}

// today is the reference point of relative dates. It changes once a day,
// so equally seeded seeders produce equal dates.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// Table returns the table of the seeder.
func (s *Seeder) Table() *schema.Table {
	return s.table
}

// ParseAmount converts a textual amount of rows, rejecting anything that
// is not a non-negative integer.
func ParseAmount(s string) (int, error) {
	res, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || res < 0 {
		return 0, InvalidAmountError(s)
	}
	return res, nil
}

// Create inserts amount rows committing every batch.
func (s *Seeder) Create(ctx context.Context, amount int) error {
	_, err := s.create(ctx, amount, true, nil)
	return err
}

// CreateBatch inserts amount rows and returns them. When commit is false
// rows stay in the open transaction of the store.
func (s *Seeder) CreateBatch(
	ctx context.Context,
	amount int,
	commit bool,
) ([]schema.Row, error) {
	return s.create(ctx, amount, commit, nil)
}

// CreateWith inserts amount rows using overrides for the named columns.
// They win over configured overrides and every other value source.
// Overrides for unknown columns are ignored.
func (s *Seeder) CreateWith(
	ctx context.Context,
	overrides map[string]config.FieldOverride,
	amount int,
) error {
	_, err := s.create(ctx, amount, true, overrides)
	return err
}

// Reset deletes all rows of the table and returns their number. It
// refuses to do anything unless confirm is true.
func (s *Seeder) Reset(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, ConfirmationRequiredError(s.table.Name)
	}

	res, err := s.store.DeleteAll(ctx, s.table)
	if err != nil {
		err = StoreError("delete", s.table.Name, err)
		s.rollback(ctx)
		return 0, err
	}
	if !s.scoped {
		if err = s.store.Commit(ctx); err != nil {
			err = StoreError("commit", s.table.Name, err)
			s.rollback(ctx)
			return 0, err
		}
	}
	slog.Info("Table reset", "table", s.table.Name, "deleted", res)
	return res, nil
}

// Transaction runs fn in one transaction. Seeding inside fn does not
// commit. The transaction is committed when fn succeeds and rolled back
// when it returns an error or panics.
func (s *Seeder) Transaction(
	ctx context.Context,
	fn func(ctx context.Context, s *Seeder) error,
) (err error) {
	if s.scoped {
		return fn(ctx, s)
	}

	s.scoped = true
	defer func() {
		s.scoped = false
		if r := recover(); r != nil {
			s.rollback(ctx)
			panic(r)
		}
		if err != nil {
			s.rollback(ctx)
			return
		}
		if cerr := s.store.Commit(ctx); cerr != nil {
			s.rollback(ctx)
			err = StoreError("commit", s.table.Name, cerr)
		}
	}()

	return fn(ctx, s)
}

func (s *Seeder) create(
	ctx context.Context,
	amount int,
	commit bool,
	overrides map[string]config.FieldOverride,
) (res []schema.Row, err error) {
	if amount < 0 {
		return nil, InvalidAmountError(amount)
	}
	if amount == 0 {
		return nil, nil
	}

	if !s.scoped {
		defer func() {
			if r := recover(); r != nil {
				s.rollback(ctx)
				panic(r)
			}
		}()
	}

	bulk := max(s.cfg.Faker.BulkSize, 1)
	commit = commit && !s.scoped
	res = make([]schema.Row, 0, amount)
	for start, batch := 0, 1; start < amount; start, batch = start+bulk, batch+1 {
		n := min(bulk, amount-start)
		rows, err := s.batch(ctx, n, overrides)
		if err == nil && commit {
			if cerr := s.store.Commit(ctx); cerr != nil {
				err = StoreError("commit", s.table.Name, cerr)
			}
		}
		if err != nil {
			s.rollback(ctx)
			return nil, BatchError(s.table.Name, batch, err)
		}
		slog.Debug("Seeded batch",
			"table", s.table.Name,
			"batch", batch,
			"rows", n,
		)
		res = append(res, rows...)
	}
	return res, nil
}

func (s *Seeder) batch(
	ctx context.Context,
	n int,
	overrides map[string]config.FieldOverride,
) ([]schema.Row, error) {
	res := make([]schema.Row, 0, n)
	for range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := s.row(ctx, overrides)
		if err != nil {
			return nil, err
		}
		if s.table.Association {
			res = append(res, row)
			continue
		}
		stored, err := s.store.InsertNew(ctx, s.table, row)
		if err != nil {
			return nil, StoreError("insert", s.table.Name, err)
		}
		res = append(res, stored)
	}

	if s.table.Association {
		if err := s.store.BulkInsert(ctx, s.table, res); err != nil {
			return nil, StoreError("bulk insert", s.table.Name, err)
		}
	}
	return res, nil
}

// row synthesizes one row. Skipped columns are absent from it.
func (s *Seeder) row(
	ctx context.Context,
	overrides map[string]config.FieldOverride,
) (schema.Row, error) {
	res := make(schema.Row, len(s.table.Columns))
	for _, c := range s.table.Columns {
		v, ok, err := s.resolve(ctx, c, overrides)
		if err != nil {
			return nil, err
		}
		if ok {
			res[c.Name] = v
		}
	}
	return res, nil
}

func (s *Seeder) rollback(ctx context.Context) {
	if s.scoped {
		return
	}
	if err := s.store.Rollback(ctx); err != nil {
		slog.Error("Rollback failed", "table", s.table.Name, "error", err)
	}
}

// nested creates a seeder for a referenced table that shares the store,
// the configuration and the random source.
func (s *Seeder) nested(tbl *schema.Table) *Seeder {
	return &Seeder{
		cfg:     s.cfg,
		store:   s.store,
		catalog: s.catalog,
		table:   tbl,
		faker:   s.faker,
		detect:  s.detect,
		path:    append(slices.Clone(s.path), tbl.Name),
		scoped:  true,
	}
}

func (s *Seeder) isNested() bool {
	return len(s.path) > 1
}
