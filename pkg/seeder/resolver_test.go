package seeder

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/errcode"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

func testSeeder(t *testing.T, tbl *schema.Table, opts ...config.Option) *Seeder {
	t.Helper()
	cfg := config.New()
	cfg.Update(append([]config.Option{config.OptFakerSeed(1)}, opts...))
	return New(cfg, newMemStore(), nil, tbl)
}

func TestSkip(t *testing.T) {
	tests := []struct {
		msg  string
		col  schema.Column
		opts []config.Option
		skip bool
	}{
		{
			msg:  "integer autoincrement key",
			col:  schema.Column{Name: "id", Type: schema.Integer{}, PrimaryKey: true, AutoIncrement: true},
			skip: true,
		},
		{
			msg: "string key is generated",
			col: schema.Column{Name: "id", Type: schema.String{}, PrimaryKey: true, AutoIncrement: true},
		},
		{
			msg:  "default kept",
			col:  schema.Column{Name: "status", Type: schema.String{}, HasDefault: true, Default: "new"},
			skip: true,
		},
		{
			msg:  "default replaced",
			col:  schema.Column{Name: "status", Type: schema.String{}, HasDefault: true, Default: "new"},
			opts: []config.Option{config.OptFakerFillDefault(true)},
		},
		{
			msg: "null default is no default",
			col: schema.Column{Name: "status", Type: schema.String{}, HasDefault: true},
		},
		{
			msg:  "nullable left empty",
			col:  schema.Column{Name: "note", Type: schema.String{}, Nullable: true},
			skip: true,
		},
		{
			msg:  "nullable filled",
			col:  schema.Column{Name: "note", Type: schema.String{}, Nullable: true},
			opts: []config.Option{config.OptFakerFillNullable(true)},
		},
		{
			msg: "plain column",
			col: schema.Column{Name: "note", Type: schema.String{}},
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			tbl := &schema.Table{Name: "items", Columns: []schema.Column{v.col}}
			s := testSeeder(t, tbl, v.opts...)
			res, ok, err := s.resolve(context.Background(), v.col, nil)
			require.NoError(t, err)
			assert.Equal(t, !v.skip, ok)
			if v.skip {
				assert.Nil(t, res)
			} else {
				assert.NotNil(t, res)
			}
		})
	}
}

func TestDefaultReplaced(t *testing.T) {
	col := schema.Column{
		Name:       "code",
		Type:       schema.String{MaxLength: 40},
		HasDefault: true,
		Default:    "DEFAULT-CODE",
	}
	tbl := &schema.Table{Name: "items", Columns: []schema.Column{col}}
	s := testSeeder(t, tbl, config.OptFakerFillDefault(true))
	for range 20 {
		res, ok, err := s.resolve(context.Background(), col, nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotEqual(t, "DEFAULT-CODE", res)
	}
}

func TestPrecedence(t *testing.T) {
	ctx := context.Background()
	enum := schema.Enum{Values: []string{"red", "green"}}
	fk := &schema.ForeignKey{Table: "missing", Column: "id"}

	t.Run("override beats everything and skip rules", func(t *testing.T) {
		col := schema.Column{
			Name: "status", Type: enum, Nullable: true,
			Doc: `{"a":"string"}`, ForeignKey: fk,
		}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})
		res, ok, err := s.resolve(ctx, col, map[string]config.FieldOverride{
			"status": func() (any, error) { return "ACTIVE", nil },
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "ACTIVE", res)
	})

	t.Run("call override beats configured one", func(t *testing.T) {
		col := schema.Column{Name: "status", Type: schema.String{}}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}},
			config.OptFakerFieldOverrides(map[string]config.FieldOverride{
				"status": func() (any, error) { return "config", nil },
			}),
		)
		res, _, err := s.resolve(ctx, col, nil)
		require.NoError(t, err)
		assert.Equal(t, "config", res)

		res, _, err = s.resolve(ctx, col, map[string]config.FieldOverride{
			"status": func() (any, error) { return "call", nil },
		})
		require.NoError(t, err)
		assert.Equal(t, "call", res)
	})

	t.Run("template beats enum", func(t *testing.T) {
		col := schema.Column{Name: "color", Type: enum, Doc: `["string"]`}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})
		res, _, err := s.resolve(ctx, col, nil)
		require.NoError(t, err)
		assert.Regexp(t, `^\[".+"\]$`, res)
	})

	t.Run("enum beats foreign key", func(t *testing.T) {
		col := schema.Column{Name: "color", Type: enum, ForeignKey: fk}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})
		res, _, err := s.resolve(ctx, col, nil)
		require.NoError(t, err)
		assert.Contains(t, enum.Values, res)
	})

	t.Run("foreign key beats primary key", func(t *testing.T) {
		col := schema.Column{
			Name: "color_id", Type: schema.Integer{}, PrimaryKey: true, ForeignKey: fk,
		}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})
		_, _, err := s.resolve(ctx, col, nil)
		require.Error(t, err)
		assert.True(t, hasCode(err, errcode.SchemaUnknownTableError))
	})

	t.Run("primary key beats smart detection", func(t *testing.T) {
		col := schema.Column{Name: "email", Type: schema.String{}, PrimaryKey: true}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})
		res, _, err := s.resolve(ctx, col, nil)
		require.NoError(t, err)
		_, err = uuid.Parse(res.(string))
		assert.NoError(t, err)
	})

	t.Run("smart detection can be disabled", func(t *testing.T) {
		col := schema.Column{Name: "age", Type: schema.Integer{}}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}},
			config.OptFakerSmartDetection(false),
		)
		res, _, err := s.resolve(ctx, col, nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.(int), defaultIntMax)
	})
}

func TestOverrideFailure(t *testing.T) {
	ctx := context.Background()
	col := schema.Column{Name: "status", Type: schema.String{}}
	s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})

	_, _, err := s.resolve(ctx, col, map[string]config.FieldOverride{
		"status": func() (any, error) { return nil, errors.New("no status") },
	})
	assert.True(t, hasCode(err, errcode.SeedOverrideError))

	_, _, err = s.resolve(ctx, col, map[string]config.FieldOverride{
		"status": func() (any, error) { panic("boom") },
	})
	assert.True(t, hasCode(err, errcode.SeedOverrideError))
}

func TestIntegerBounds(t *testing.T) {
	col := schema.Column{
		Name:   "quantity",
		Type:   schema.Integer{},
		Bounds: &schema.Bounds{Min: intp(5), Max: intp(8)},
	}
	s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})
	seen := make(map[int]bool)
	for range 300 {
		res, _, err := s.resolve(context.Background(), col, nil)
		require.NoError(t, err)
		v := res.(int)
		assert.GreaterOrEqual(t, v, 5)
		assert.LessOrEqual(t, v, 8)
		seen[v] = true
	}
	assert.Len(t, seen, 4, "both ends are reachable")

	t.Run("explicit bounds win over detection", func(t *testing.T) {
		col := schema.Column{
			Name:   "age",
			Type:   schema.Integer{},
			Bounds: &schema.Bounds{Min: intp(200), Max: intp(210)},
		}
		for range 50 {
			res, _, err := s.resolve(context.Background(), col, nil)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.(int), 200)
		}
	})

	t.Run("max below the default minimum", func(t *testing.T) {
		for _, limit := range []int{0, -1} {
			col := schema.Column{
				Name:   "offset",
				Type:   schema.Integer{},
				Bounds: &schema.Bounds{Max: intp(limit)},
			}
			for range 50 {
				res, _, err := s.resolve(context.Background(), col, nil)
				require.NoError(t, err)
				assert.Equal(t, limit, res.(int))
			}
		}
	})

	t.Run("max only above the default minimum", func(t *testing.T) {
		col := schema.Column{
			Name:   "offset",
			Type:   schema.Integer{},
			Bounds: &schema.Bounds{Max: intp(3)},
		}
		for range 50 {
			res, _, err := s.resolve(context.Background(), col, nil)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.(int), 1)
			assert.LessOrEqual(t, res.(int), 3)
		}
	})
}

func TestFloatPrecision(t *testing.T) {
	tests := []struct {
		precision, scale int
		below            float64
	}{
		{5, 2, 1000},
		{3, 0, 1000},
		{2, 2, 1},
		{8, 4, 10000},
	}
	for _, v := range tests {
		col := schema.Column{
			Name: "measure",
			Type: schema.Float{Precision: v.precision, Scale: v.scale},
		}
		s := testSeeder(t, &schema.Table{Name: "t", Columns: []schema.Column{col}})
		for range 200 {
			res, _, err := s.resolve(context.Background(), col, nil)
			require.NoError(t, err)
			f := res.(float64)
			assert.GreaterOrEqual(t, f, 0.0)
			assert.Less(t, f, v.below)
			p := math.Pow10(v.scale)
			assert.InDelta(t, math.Round(f*p)/p, f, 1e-9)
		}
	}
}

func TestTyped(t *testing.T) {
	s := testSeeder(t, &schema.Table{Name: "t"})
	tests := []struct {
		msg   string
		typ   schema.ColumnType
		check func(t *testing.T, v any)
	}{
		{"string capped", schema.String{MaxLength: 12}, func(t *testing.T, v any) {
			assert.LessOrEqual(t, len(v.(string)), 12)
			assert.NotEmpty(t, v)
		}},
		{"short string", schema.String{MaxLength: 2}, func(t *testing.T, v any) {
			assert.Len(t, v, 2)
		}},
		{"default length", schema.String{}, func(t *testing.T, v any) {
			assert.LessOrEqual(t, len(v.(string)), defaultTextLength)
		}},
		{"integer", schema.Integer{}, func(t *testing.T, v any) {
			assert.GreaterOrEqual(t, v.(int), defaultIntMin)
			assert.LessOrEqual(t, v.(int), defaultIntMax)
		}},
		{"boolean", schema.Boolean{}, func(t *testing.T, v any) {
			assert.IsType(t, true, v)
		}},
		{"date", schema.Date{}, func(t *testing.T, v any) {
			tm := v.(time.Time)
			assert.Equal(t, tm.Truncate(24*time.Hour), tm)
		}},
		{"datetime", schema.DateTime{}, func(t *testing.T, v any) {
			assert.False(t, v.(time.Time).After(today()))
		}},
		{"decimal", schema.Decimal{Precision: 6, Scale: 3}, func(t *testing.T, v any) {
			d := v.(decimal.Decimal)
			assert.True(t, d.LessThan(decimal.NewFromInt(1000)))
			assert.False(t, d.IsNegative())
		}},
		{"decimal without precision", schema.Decimal{}, func(t *testing.T, v any) {
			assert.IsType(t, decimal.Decimal{}, v)
		}},
		{"time", schema.Time{}, func(t *testing.T, v any) {
			assert.Regexp(t, `^\d\d:\d\d:\d\d$`, v)
		}},
		{"interval", schema.Interval{}, func(t *testing.T, v any) {
			assert.Positive(t, v.(time.Duration))
		}},
		{"binary", schema.LargeBinary{}, func(t *testing.T, v any) {
			assert.Len(t, v, 16)
		}},
		{"json", schema.JSON{}, func(t *testing.T, v any) {
			assert.JSONEq(t, v.(string), v.(string))
			assert.Contains(t, v, `"label":`)
		}},
		{"uuid", schema.UUID{}, func(t *testing.T, v any) {
			assert.IsType(t, uuid.UUID{}, v)
		}},
		{"enum without values", schema.Enum{}, func(t *testing.T, v any) {
			assert.NotEmpty(t, v)
		}},
		{"other", schema.Other{Name: "geometry"}, func(t *testing.T, v any) {
			assert.NotEmpty(t, v)
		}},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			col := schema.Column{Name: "qwerty", Type: v.typ}
			for range 10 {
				v.check(t, s.typed(col))
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("ab cd", 3))
	assert.Equal(t, "é", truncate("éé", 3))
}
