package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultTextLength = 255
	defaultIntMin     = 1
	defaultIntMax     = 100
)

// jsonColumn is the template of values for JSON columns.
var jsonColumn = map[string]any{
	"id":      leafInteger,
	"label":   leafString,
	"active":  leafBoolean,
	"updated": leafDateTime,
}

// resolve returns a value for the column. The second result is false
// when the column is left to the database.
func (s *Seeder) resolve(
	ctx context.Context,
	c schema.Column,
	overrides map[string]config.FieldOverride,
) (any, bool, error) {
	if fn, ok := s.override(c.Name, overrides); ok {
		res, err := s.callOverride(c, fn)
		if err != nil {
			return nil, false, err
		}
		return res, true, nil
	}

	if s.skip(c) {
		return nil, false, nil
	}

	if c.Doc != "" {
		res, err := s.template(c)
		if err != nil {
			return nil, false, err
		}
		return res, true, nil
	}

	if e, ok := c.Type.(schema.Enum); ok && len(e.Values) > 0 {
		return s.faker.RandomString(e.Values), true, nil
	}

	if c.ForeignKey != nil {
		return s.reference(ctx, c)
	}

	if c.PrimaryKey {
		return s.primaryKey(c), true, nil
	}

	if s.cfg.Faker.SmartDetection && smart(c) {
		if res, ok := s.detect.detect(c.Name, c.Type); ok {
			return res, true, nil
		}
	}
	return s.typed(c), true, nil
}

// override finds a producer for the column. Overrides given to a call
// win over configured ones. Configured overrides apply only to the table
// of the seeder, not to referenced tables.
func (s *Seeder) override(
	name string,
	overrides map[string]config.FieldOverride,
) (config.FieldOverride, bool) {
	if fn, ok := overrides[name]; ok && fn != nil {
		return fn, true
	}
	if s.isNested() {
		return nil, false
	}
	fn, ok := s.cfg.Faker.FieldOverrides[name]
	return fn, ok && fn != nil
}

func (s *Seeder) callOverride(
	c schema.Column,
	fn config.FieldOverride,
) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = OverrideError(s.table.Name, c.Name, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err = fn()
	if err != nil {
		return nil, OverrideError(s.table.Name, c.Name, err)
	}
	return res, nil
}

// skip reports whether the database provides the value of the column.
func (s *Seeder) skip(c schema.Column) bool {
	if c.PrimaryKey && c.AutoIncrement && isInteger(c.Type) {
		return true
	}
	if c.HasNonNullDefault() && !s.cfg.Faker.FillDefault {
		return true
	}
	return c.Nullable && !s.cfg.Faker.FillNullable
}

// template fills a JSON template of the column documentation and returns
// the JSON text of the result.
func (s *Seeder) template(c schema.Column) (string, error) {
	var tree any
	err := gnfmt.GNjson{}.Decode([]byte(c.Doc), &tree)
	if err != nil {
		return "", TemplateParseError(s.table.Name, c.Name, err)
	}
	res, err := encodeJSON(populate(s.faker, s.detect.now, tree))
	if err != nil {
		return "", TemplateParseError(s.table.Name, c.Name, err)
	}
	return res, nil
}

// encodeJSON writes maps with sorted keys.
func encodeJSON(v any) (string, error) {
	res, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(res), nil
}

func (s *Seeder) primaryKey(c schema.Column) any {
	switch t := c.Type.(type) {
	case schema.Integer:
		return s.faker.Number(1, math.MaxInt32)
	case schema.String:
		if t.MaxLength > 0 && t.MaxLength < 36 {
			return strings.ToLower(s.faker.LetterN(uint(t.MaxLength)))
		}
		return s.uuid().String()
	}
	return s.typed(c)
}

// smart reports whether the name of the column may select its values.
// Integer columns with explicit bounds keep them.
func smart(c schema.Column) bool {
	if c.Type == nil {
		return false
	}
	switch c.Type.Kind() {
	case schema.KindString, schema.KindFloat, schema.KindDecimal,
		schema.KindDate, schema.KindDateTime:
		return true
	case schema.KindInteger:
		return c.Bounds == nil
	}
	return false
}

// typed generates a value from the declared type alone.
func (s *Seeder) typed(c schema.Column) any {
	f := s.faker
	switch t := c.Type.(type) {
	case schema.String:
		return s.text(t.MaxLength)
	case schema.Integer:
		lo, hi := intBounds(c.Bounds)
		return f.Number(lo, hi)
	case schema.Float:
		return s.float(t.Precision, t.Scale)
	case schema.Boolean:
		return f.Bool()
	case schema.Date:
		return moment(pastTime(f, s.detect.now, 10), t)
	case schema.DateTime:
		return pastTime(f, s.detect.now, 10)
	case schema.Decimal:
		p, sc := t.Precision, t.Scale
		if p == 0 {
			p, sc = 10, 2
		}
		return decimal.NewFromFloat(s.float(p, sc)).Round(int32(sc))
	case schema.Time:
		tm := time.Date(0, 1, 1, f.Hour(), f.Minute(), f.Second(), 0, time.UTC)
		return tm.Format("15:04:05")
	case schema.Interval:
		return time.Duration(f.Number(1, 30*24*3600)) * time.Second
	case schema.LargeBinary:
		res := make([]byte, 16)
		for i := range res {
			res[i] = byte(f.Number(0, 255))
		}
		return res
	case schema.JSON:
		res, err := encodeJSON(populate(f, s.detect.now, jsonColumn))
		if err != nil {
			return "{}"
		}
		return res
	case schema.UUID:
		return s.uuid()
	case schema.Enum, schema.Other:
		return f.Word()
	}
	return f.Word()
}

// text returns fake text no longer than size bytes.
func (s *Seeder) text(size int) string {
	if size <= 0 {
		size = defaultTextLength
	}
	if size < 5 {
		return strings.ToLower(s.faker.LetterN(uint(size)))
	}
	return truncate(s.faker.Sentence(s.faker.Number(3, 10)), size)
}

// float returns a non-negative value with at most scale digits after the
// point that is below 10^(precision-scale). Without precision the value
// is unbounded.
func (s *Seeder) float(precision, scale int) float64 {
	if precision <= 0 {
		return s.faker.Float64Range(-10000, 10000)
	}
	scale = max(scale, 0)
	hi := math.Pow10(precision-scale) - 1
	if precision-scale <= 0 {
		hi = 1 - math.Pow10(-scale)
	}
	return round(s.faker.Float64Range(0, hi), scale)
}

func (s *Seeder) uuid() uuid.UUID {
	return gnuuid.New(s.faker.HexUint(128))
}

func isInteger(t schema.ColumnType) bool {
	_, ok := t.(schema.Integer)
	return ok
}

func intBounds(b *schema.Bounds) (int, int) {
	lo, hi := defaultIntMin, defaultIntMax
	if b == nil {
		return lo, hi
	}
	if b.Max != nil {
		hi = *b.Max
	}
	switch {
	case b.Min != nil:
		lo = *b.Min
		if hi < lo {
			hi = lo
		}
	case hi < lo:
		lo = hi
	}
	return lo, hi
}

func round(v float64, scale int) float64 {
	p := math.Pow10(scale)
	return math.Round(v*p) / p
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	res := strings.TrimSpace(s[:n])
	if res == "" {
		return s[:n]
	}
	return res
}
