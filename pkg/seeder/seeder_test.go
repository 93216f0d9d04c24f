package seeder

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gnames/gn"
	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/errcode"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/gnames/gnseed/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ store.Store = (*memStore)(nil)

func teams() *schema.Table {
	return &schema.Table{
		Name: "teams",
		Columns: []schema.Column{
			{Name: "id", Type: schema.Integer{}, PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Type: schema.String{MaxLength: 60}},
			{Name: "motto", Type: schema.String{}, Nullable: true},
			{Name: "rating", Type: schema.Integer{}},
		},
	}
}

func users() *schema.Table {
	return &schema.Table{
		Name: "users",
		Columns: []schema.Column{
			{Name: "id", Type: schema.Integer{}, PrimaryKey: true, AutoIncrement: true},
			{Name: "email", Type: schema.String{MaxLength: 120}},
			{Name: "status", Type: schema.Enum{Values: []string{"new", "active"}}},
			{Name: "created_at", Type: schema.DateTime{}},
			{Name: "score", Type: schema.Float{Precision: 4, Scale: 1}},
			{
				Name:       "team_id",
				Type:       schema.Integer{},
				ForeignKey: &schema.ForeignKey{Table: "teams", Column: "id"},
			},
		},
		Relations: map[string]string{"team_id": "teams"},
	}
}

func userTeams() *schema.Table {
	return &schema.Table{
		Name:        "user_teams",
		Association: true,
		Columns: []schema.Column{
			{
				Name: "user_id", Type: schema.Integer{}, PrimaryKey: true,
				ForeignKey: &schema.ForeignKey{Table: "users", Column: "id"},
			},
			{
				Name: "team_id", Type: schema.Integer{}, PrimaryKey: true,
				ForeignKey: &schema.ForeignKey{Table: "teams", Column: "id"},
			},
		},
	}
}

func catalog() *schema.Catalog {
	return schema.NewCatalog(teams(), users(), userTeams())
}

func seeded(seed int64, opts ...config.Option) *config.Config {
	cfg := config.New()
	cfg.Update(append([]config.Option{config.OptFakerSeed(seed)}, opts...))
	return cfg
}

func code(err error) gn.ErrorCode {
	if ge, ok := err.(*gn.Error); ok {
		return ge.Code
	}
	return errcode.UnknownError
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	cfg := seeded(1, config.OptFakerBulkSize(100))
	s := New(cfg, st, nil, teams())

	err := s.Create(ctx, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, st.committedCount("teams"))
	assert.Equal(t, 3, st.commits, "one commit per batch")
	assert.Equal(t, 250, st.inserts)
	assert.Zero(t, st.bulks)

	for _, row := range st.committed["teams"] {
		assert.NotContains(t, row, "motto", "nullable column is skipped")
		assert.NotNil(t, row["id"])
		assert.LessOrEqual(t, len(row["name"].(string)), 60)
	}
}

func TestCreateAmount(t *testing.T) {
	ctx := context.Background()

	t.Run("zero is a no-op", func(t *testing.T) {
		st := newMemStore()
		s := New(nil, st, nil, teams())
		require.NoError(t, s.Create(ctx, 0))
		rows, err := s.CreateBatch(ctx, 0, true)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Zero(t, st.txOpened)
		assert.Zero(t, st.writeOps())
	})

	t.Run("negative is rejected", func(t *testing.T) {
		st := newMemStore()
		s := New(nil, st, nil, teams())
		err := s.Create(ctx, -1)
		require.Error(t, err)
		assert.Equal(t, errcode.SeedInvalidAmountError, code(err))
		assert.Zero(t, st.txOpened)
		assert.Zero(t, st.writeOps())
	})

	t.Run("text amount", func(t *testing.T) {
		tests := []struct {
			input string
			res   int
			err   bool
		}{
			{"5", 5, false},
			{" 12 ", 12, false},
			{"0", 0, false},
			{"5x", 0, true},
			{"-2", 0, true},
			{"", 0, true},
			{"2.5", 0, true},
		}
		for _, v := range tests {
			res, err := ParseAmount(v.input)
			if v.err {
				assert.Equal(t, errcode.SeedInvalidAmountError, code(err), v.input)
				continue
			}
			require.NoError(t, err, v.input)
			assert.Equal(t, v.res, res, v.input)
		}
	})
}

// writeOps counts operations that change the state of the store.
func (m *memStore) writeOps() int {
	return m.inserts + m.bulks + m.commits + m.rollbacks
}

func TestCreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("without commit", func(t *testing.T) {
		st := newMemStore()
		s := New(seeded(2), st, nil, teams())
		rows, err := s.CreateBatch(ctx, 5, false)
		require.NoError(t, err)
		assert.Len(t, rows, 5)
		assert.Zero(t, st.committedCount("teams"))
		assert.Zero(t, st.commits)
		n, err := st.Count(ctx, teams())
		require.NoError(t, err)
		assert.Equal(t, int64(5), n, "rows are in the open transaction")
	})

	t.Run("with commit", func(t *testing.T) {
		st := newMemStore()
		s := New(seeded(2), st, nil, teams())
		rows, err := s.CreateBatch(ctx, 5, true)
		require.NoError(t, err)
		assert.Len(t, rows, 5)
		assert.Equal(t, 5, st.committedCount("teams"))
		for i, row := range rows {
			assert.Equal(t, i+1, row["id"], "generated keys are returned")
		}
	})
}

func TestCreateWith(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := New(seeded(3), st, catalog(), users())

	err := s.CreateWith(ctx, map[string]config.FieldOverride{
		"status":  func() (any, error) { return "ACTIVE", nil },
		"missing": func() (any, error) { return "ignored", nil },
	}, 10)
	require.NoError(t, err)

	require.Equal(t, 10, st.committedCount("users"))
	for _, row := range st.committed["users"] {
		assert.Equal(t, "ACTIVE", row["status"])
		assert.NotContains(t, row, "missing")
	}
}

func TestConfiguredOverrides(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	cfg := seeded(3, config.OptFakerFieldOverrides(map[string]config.FieldOverride{
		"name": func() (any, error) { return "fixed", nil },
	}))
	s := New(cfg, st, catalog(), users())

	require.NoError(t, s.Create(ctx, 3))
	for _, row := range st.committed["teams"] {
		assert.NotEqual(t, "fixed", row["name"], "referenced tables ignore overrides")
	}

	st2 := newMemStore()
	s2 := New(cfg, st2, nil, teams())
	require.NoError(t, s2.Create(ctx, 3))
	for _, row := range st2.committed["teams"] {
		assert.Equal(t, "fixed", row["name"])
	}
}

func TestAssociation(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	cfg := seeded(4, config.OptFakerBulkSize(4))
	s := New(cfg, st, catalog(), userTeams())

	require.NoError(t, s.Create(ctx, 10))
	assert.Equal(t, 3, st.bulks, "one bulk insert per batch")
	assert.Equal(t, 10, st.committedCount("user_teams"))
	assert.Equal(t, 10, st.committedCount("users"))
	assert.Equal(t, 20, st.committedCount("teams"),
		"a team for every association and every user")

	pairs := make(map[[2]any]bool)
	for _, row := range st.committed["user_teams"] {
		assert.NotNil(t, row["user_id"])
		assert.NotNil(t, row["team_id"])
		pairs[[2]any{row["user_id"], row["team_id"]}] = true
	}
	assert.Len(t, pairs, 10, "every association points to new rows")
}

func TestRelationFirstRow(t *testing.T) {
	ctx := context.Background()
	parent := &schema.Table{
		Name:    "parent",
		Columns: []schema.Column{{Name: "code", Type: schema.String{}, HasDefault: true, Default: "x"}},
	}
	child := &schema.Table{
		Name: "child",
		Columns: []schema.Column{{
			Name:       "parent_code",
			Type:       schema.String{},
			ForeignKey: &schema.ForeignKey{Table: "parent", Column: "code"},
		}},
	}
	st := newMemStore()
	st.committed["parent"] = []schema.Row{{"code": "first"}}
	s := New(nil, st, schema.NewCatalog(parent, child), child)

	require.NoError(t, s.Create(ctx, 1))
	assert.Equal(t, "first", st.committed["child"][0]["parent_code"],
		"value the database fills in is read from the first row")
	assert.Equal(t, 1, st.queries)
	assert.Len(t, st.committed["parent"], 2)
}

func TestRelation(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := New(seeded(5), st, catalog(), users())

	require.Zero(t, st.committedCount("teams"))
	require.NoError(t, s.Create(ctx, 1))

	assert.Equal(t, 1, st.committedCount("teams"))
	assert.Equal(t, 1, st.committedCount("users"))
	team := st.committed["teams"][0]
	user := st.committed["users"][0]
	assert.Equal(t, team["id"], user["team_id"])
	assert.Equal(t, 1, st.commits, "parent row is committed with the child")
}

func TestRelationCycle(t *testing.T) {
	ctx := context.Background()
	fk := func(table string, nullable bool) schema.Column {
		return schema.Column{
			Name:       table + "_id",
			Type:       schema.Integer{},
			Nullable:   nullable,
			ForeignKey: &schema.ForeignKey{Table: table, Column: "id"},
		}
	}
	id := schema.Column{
		Name: "id", Type: schema.Integer{}, PrimaryKey: true, AutoIncrement: true,
	}

	t.Run("required cycle fails", func(t *testing.T) {
		a := &schema.Table{Name: "a", Columns: []schema.Column{id, fk("b", false)}}
		b := &schema.Table{Name: "b", Columns: []schema.Column{id, fk("a", false)}}
		st := newMemStore()
		s := New(nil, st, schema.NewCatalog(a, b), a)

		err := s.Create(ctx, 1)
		require.Error(t, err)
		assert.Equal(t, errcode.SeedBatchError, code(err))
		assert.True(t, hasCode(err, errcode.SeedCyclicRelationError))
		assert.Zero(t, st.committedCount("a"))
		assert.Zero(t, st.committedCount("b"))
	})

	t.Run("nullable cycle is left empty", func(t *testing.T) {
		a := &schema.Table{Name: "a", Columns: []schema.Column{id, fk("b", false)}}
		b := &schema.Table{Name: "b", Columns: []schema.Column{id, fk("a", true)}}
		st := newMemStore()
		cfg := seeded(6, config.OptFakerFillNullable(true))
		s := New(cfg, st, schema.NewCatalog(a, b), a)

		require.NoError(t, s.Create(ctx, 1))
		require.Equal(t, 1, st.committedCount("b"))
		assert.NotContains(t, st.committed["b"][0], "a_id")
		assert.Equal(t, st.committed["b"][0]["id"], st.committed["a"][0]["b_id"])
	})

	t.Run("nullable key into a required cycle", func(t *testing.T) {
		a := &schema.Table{Name: "a", Columns: []schema.Column{id, fk("b", true)}}
		b := &schema.Table{Name: "b", Columns: []schema.Column{id, fk("a", false)}}
		cat := schema.NewCatalog(a, b)
		levels, err := cat.Levels()
		require.NoError(t, err)
		require.Equal(t, [][]string{{"a"}, {"b"}}, levels)

		st := newMemStore()
		cfg := seeded(6, config.OptFakerFillNullable(true))
		require.NoError(t, New(cfg, st, cat, a).Create(ctx, 2))
		assert.Equal(t, 2, st.committedCount("a"))
		assert.Zero(t, st.committedCount("b"))
		for _, row := range st.committed["a"] {
			assert.NotContains(t, row, "b_id")
		}

		require.NoError(t, New(cfg, st, cat, b).Create(ctx, 2))
		// each b row creates its own a row
		assert.Equal(t, 4, st.committedCount("a"))
		assert.Equal(t, 2, st.committedCount("b"))
	})

	t.Run("nullable self reference", func(t *testing.T) {
		node := &schema.Table{Name: "node", Columns: []schema.Column{id, fk("node", true)}}
		st := newMemStore()
		cfg := seeded(7, config.OptFakerFillNullable(true))
		s := New(cfg, st, nil, node)

		require.NoError(t, s.Create(ctx, 2))
		assert.Equal(t, 2, st.committedCount("node"))
	})
}

func TestMissingReference(t *testing.T) {
	ctx := context.Background()
	parent := &schema.Table{
		Name:    "parent",
		Columns: []schema.Column{{Name: "code", Type: schema.String{}, Nullable: true}},
	}
	child := &schema.Table{
		Name: "child",
		Columns: []schema.Column{{
			Name:       "parent_code",
			Type:       schema.String{},
			ForeignKey: &schema.ForeignKey{Table: "parent", Column: "code"},
		}},
	}
	st := newMemStore()
	s := New(nil, st, schema.NewCatalog(parent, child), child)

	err := s.Create(ctx, 1)
	require.Error(t, err)
	assert.True(t, hasCode(err, errcode.SeedMissingReferenceError))
}

func TestRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("store failure", func(t *testing.T) {
		st := newMemStore()
		st.failInsert = 7
		cfg := seeded(8, config.OptFakerBulkSize(5))
		s := New(cfg, st, nil, teams())

		err := s.Create(ctx, 10)
		require.Error(t, err)
		assert.Equal(t, errcode.SeedBatchError, code(err))
		assert.True(t, hasCode(err, errcode.SeedStoreError))
		ge := err.(*gn.Error)
		assert.Equal(t, []any{"teams", 2}, ge.Vars)
		assert.Contains(t, ge.Msg, "changes of this batch are rolled back")
		assert.Equal(t, 5, st.committedCount("teams"), "first batch stays")
		assert.Equal(t, 1, st.rollbacks)
		assert.Nil(t, st.working)
	})

	t.Run("template failure", func(t *testing.T) {
		tbl := teams()
		tbl.Columns = append(tbl.Columns, schema.Column{
			Name: "meta", Type: schema.JSON{}, Doc: "not json",
		})
		st := newMemStore()
		s := New(seeded(8), st, nil, tbl)

		err := s.Create(ctx, 3)
		require.Error(t, err)
		assert.True(t, hasCode(err, errcode.SeedTemplateParseError))
		assert.Zero(t, st.committedCount("teams"))
	})

	t.Run("panic in store", func(t *testing.T) {
		st := newMemStore()
		s := New(seeded(8), st, nil, teams())
		require.NoError(t, s.Create(ctx, 1))

		st.panicInsert = true
		assert.Panics(t, func() { _ = s.Create(ctx, 1) })
		assert.Nil(t, st.working)
		assert.Equal(t, 1, st.committedCount("teams"))
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := New(seeded(9), st, nil, teams())
	require.NoError(t, s.Create(ctx, 4))

	n, err := s.Reset(ctx, false)
	require.Error(t, err)
	assert.Equal(t, errcode.SeedConfirmationRequiredError, code(err))
	assert.Zero(t, n)
	assert.Equal(t, 4, st.committedCount("teams"))

	n, err = s.Reset(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Zero(t, st.committedCount("teams"))
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		st := newMemStore()
		s := New(seeded(10, config.OptFakerBulkSize(2)), st, nil, teams())
		err := s.Transaction(ctx, func(ctx context.Context, s *Seeder) error {
			if err := s.Create(ctx, 5); err != nil {
				return err
			}
			assert.Zero(t, st.commits, "no commits inside the scope")
			return s.Create(ctx, 1)
		})
		require.NoError(t, err)
		assert.Equal(t, 6, st.committedCount("teams"))
		assert.Equal(t, 1, st.commits)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		st := newMemStore()
		s := New(seeded(10), st, nil, teams())
		err := s.Transaction(ctx, func(ctx context.Context, s *Seeder) error {
			if err := s.Create(ctx, 5); err != nil {
				return err
			}
			return s.Create(ctx, -1)
		})
		require.Error(t, err)
		assert.Zero(t, st.committedCount("teams"))
		assert.Equal(t, 1, st.rollbacks)
	})

	t.Run("rolls back on override panic", func(t *testing.T) {
		st := newMemStore()
		s := New(seeded(10), st, nil, teams())
		err := s.Transaction(ctx, func(ctx context.Context, s *Seeder) error {
			if err := s.Create(ctx, 2); err != nil {
				return err
			}
			return s.CreateWith(ctx, map[string]config.FieldOverride{
				"name": func() (any, error) { panic("broken override") },
			}, 1)
		})
		require.Error(t, err)
		assert.True(t, hasCode(err, errcode.SeedOverrideError))
		assert.Zero(t, st.committedCount("teams"))
		assert.Nil(t, st.working)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		st := newMemStore()
		s := New(seeded(10), st, nil, teams())
		assert.PanicsWithValue(t, "body panic", func() {
			_ = s.Transaction(ctx, func(ctx context.Context, s *Seeder) error {
				_ = s.Create(ctx, 2)
				panic("body panic")
			})
		})
		assert.Zero(t, st.committedCount("teams"))
		assert.Nil(t, st.working)

		require.NoError(t, s.Create(ctx, 1), "seeder is usable after the scope")
		assert.Equal(t, 1, st.committedCount("teams"))
	})
}

func TestDeterminism(t *testing.T) {
	ctx := context.Background()
	run := func(cfg *config.Config) []schema.Row {
		st := newMemStore()
		s := New(cfg, st, catalog(), users())
		rows, err := s.CreateBatch(ctx, 20, true)
		require.NoError(t, err)
		rows = append(rows, st.committed["teams"]...)
		return rows
	}

	t.Run("same seed", func(t *testing.T) {
		assert.Equal(t, run(seeded(42)), run(seeded(42)))
	})

	t.Run("zero seed", func(t *testing.T) {
		assert.Equal(t, run(seeded(0)), run(seeded(0)))
	})

	t.Run("different seeds", func(t *testing.T) {
		assert.NotEqual(t, run(seeded(42)), run(seeded(43)))
	})

	t.Run("shared source", func(t *testing.T) {
		a := run(seeded(0, config.OptFakerSource(gofakeit.New(9))))
		b := run(seeded(0, config.OptFakerSource(gofakeit.New(9))))
		assert.Equal(t, a, b)
	})
}

func TestSmartColumns(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := New(seeded(11), st, catalog(), users())
	require.NoError(t, s.Create(ctx, 20))

	for _, row := range st.committed["users"] {
		assert.Contains(t, row["email"], "@")
		assert.Contains(t, []string{"new", "active"}, row["status"])
		score := row["score"].(float64)
		assert.GreaterOrEqual(t, score, 1.0)
		assert.LessOrEqual(t, score, 10.0)
	}
}
