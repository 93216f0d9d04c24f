package seeder

import (
	"context"
	"slices"

	"github.com/gnames/gnseed/pkg/schema"
)

// reference creates one row of the table the foreign key points to and
// returns its referenced value. When the store does not report the value
// for the new row, the first row of the table is used.
//
// A foreign key leading back to a table of the current chain is left
// unset when it is nullable, otherwise it is an error. A nullable key is
// also left unset when its table requires a table of the chain.
func (s *Seeder) reference(ctx context.Context, c schema.Column) (any, bool, error) {
	name := s.table.Target(c)
	tbl, ok := s.catalog.Table(name)
	if !ok {
		return nil, false, schema.UnknownTableError(name)
	}

	if slices.Contains(s.path, tbl.Name) || len(s.path) >= maxDepth {
		if c.Nullable {
			return nil, false, nil
		}
		return nil, false, CyclicRelationError(append(slices.Clone(s.path), tbl.Name))
	}
	if c.Nullable && slices.ContainsFunc(s.path, func(name string) bool {
		return s.catalog.Requires(tbl.Name, name)
	}) {
		return nil, false, nil
	}

	col := c.ForeignKey.Column
	if col == "" {
		if pks := tbl.PrimaryKeys(); len(pks) > 0 {
			col = pks[0]
		}
	}

	rows, err := s.nested(tbl).batch(ctx, 1, nil)
	if err != nil {
		return nil, false, err
	}
	if len(rows) > 0 && rows[0][col] != nil {
		return rows[0][col], true, nil
	}

	row, err := s.store.QueryFirst(ctx, tbl)
	if err != nil {
		return nil, false, StoreError("query", tbl.Name, err)
	}
	res := row[col]
	if res == nil {
		return nil, false, MissingReferenceError(tbl.Name, col)
	}
	return res, true, nil
}
