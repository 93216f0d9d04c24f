package seeder

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Leaves of a JSON template that are replaced by generated values.
const (
	leafString   = "string"
	leafInteger  = "integer"
	leafFloat    = "float"
	leafBoolean  = "boolean"
	leafDate     = "date"
	leafDateTime = "datetime"
)

// primitive generates a value for a template leaf. The second result is
// false for leaves that do not name a kind.
func primitive(f *gofakeit.Faker, now time.Time, kind string) (any, bool) {
	switch kind {
	case leafString:
		return f.Word(), true
	case leafInteger:
		return f.Number(0, 9999), true
	case leafFloat:
		v := math.Round(f.Float64Range(0, 1000)*100) / 100
		if v == math.Trunc(v) {
			// keeps the value a float after JSON encoding
			v += 0.5
		}
		return v, true
	case leafBoolean:
		return f.Bool(), true
	case leafDate:
		return pastTime(f, now, 10).Format(dateLayout), true
	case leafDateTime:
		return pastTime(f, now, 10).Format(dateTimeLayout), true
	}
	return nil, false
}

// populate walks a decoded JSON template and replaces leaves naming a
// kind with generated values. Other leaves are kept as they are.
func populate(f *gofakeit.Faker, now time.Time, tree any) any {
	switch v := tree.(type) {
	case map[string]any:
		res := make(map[string]any, len(v))
		// sorted keys keep the order of random draws stable
		for _, k := range slices.Sorted(maps.Keys(v)) {
			res[k] = populate(f, now, v[k])
		}
		return res
	case []any:
		res := make([]any, len(v))
		for i := range v {
			res[i] = populate(f, now, v[i])
		}
		return res
	case string:
		if val, ok := primitive(f, now, v); ok {
			return val
		}
	}
	return tree
}

// pastTime returns a moment within the given number of years before now,
// truncated to seconds.
func pastTime(f *gofakeit.Faker, now time.Time, years int) time.Time {
	return f.DateRange(now.AddDate(-years, 0, 0), now).UTC().Truncate(time.Second)
}
