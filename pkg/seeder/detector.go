package seeder

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gnames/gnseed/pkg/schema"
	"github.com/shopspring/decimal"
)

// category generates values for columns whose names contain one of its
// keywords, or have one of its tokens as a separate word.
type category struct {
	name     string
	keywords []string
	tokens   []string
	kinds    []schema.Kind

	// text values are cut to the column length, other strings that do
	// not fit are rejected.
	text bool

	gen func(d *detector, t schema.ColumnType) (any, bool)
}

var (
	stringKind = []schema.Kind{schema.KindString}
	dateKinds  = []schema.Kind{schema.KindDate, schema.KindDateTime}
	numKinds   = []schema.Kind{
		schema.KindInteger, schema.KindFloat, schema.KindDecimal,
	}
)

// categories are checked in order, the first match wins.
var categories = []category{
	{
		name:     "email",
		keywords: []string{"email", "e_mail"},
		kinds:    stringKind,
		gen:      str((*detector).email),
	},
	{
		name:     "password",
		keywords: []string{"password", "passwd"},
		kinds:    stringKind,
		gen:      str((*detector).password),
	},
	{
		name:     "username",
		keywords: []string{"username", "user_name", "login"},
		kinds:    stringKind,
		gen:      str(func(d *detector) string { return d.f.Username() }),
	},
	{
		name:     "phone",
		keywords: []string{"phone", "mobile"},
		tokens:   []string{"tel", "fax"},
		kinds:    stringKind,
		gen:      str(func(d *detector) string { return d.loc.phone(d.f) }),
	},
	{
		name:     "url",
		keywords: []string{"url", "website", "homepage"},
		tokens:   []string{"link"},
		kinds:    stringKind,
		gen:      str(func(d *detector) string { return d.f.URL() }),
	},
	{
		name:     "company",
		keywords: []string{"company", "organization", "organisation", "employer"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.f.Company() }),
	},
	{
		name:     "first name",
		keywords: []string{"first_name", "firstname", "given_name"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.f.FirstName() }),
	},
	{
		name:     "last name",
		keywords: []string{"last_name", "lastname", "surname", "family_name"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.f.LastName() }),
	},
	{
		name:     "full name",
		keywords: []string{"full_name", "fullname", "name"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.f.Name() }),
	},
	{
		name:     "address",
		keywords: []string{"address", "street"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.f.Street() }),
	},
	{
		name:     "city",
		keywords: []string{"city"},
		tokens:   []string{"town"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.f.City() }),
	},
	{
		name:   "state",
		tokens: []string{"state", "province", "region"},
		kinds:  stringKind,
		text:   true,
		gen:    str(func(d *detector) string { return d.f.State() }),
	},
	{
		name:     "zip",
		keywords: []string{"zip", "postal", "postcode"},
		kinds:    stringKind,
		gen:      str(func(d *detector) string { return d.loc.postcode(d.f) }),
	},
	{
		name:     "country",
		keywords: []string{"country"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.loc.country(d.f) }),
	},
	{
		name:     "job title",
		keywords: []string{"job", "title", "position", "occupation"},
		kinds:    stringKind,
		text:     true,
		gen:      str(func(d *detector) string { return d.f.JobTitle() }),
	},
	{
		name:     "description",
		keywords: []string{"description", "bio", "about", "summary"},
		kinds:    stringKind,
		text:     true,
		gen: str(func(d *detector) string {
			return d.f.Paragraph(1, 3, 10, " ")
		}),
	},
	{
		name:     "birth",
		keywords: []string{"birth", "born"},
		tokens:   []string{"dob"},
		kinds:    dateKinds,
		gen: func(d *detector, t schema.ColumnType) (any, bool) {
			from := d.now.AddDate(-90, 0, 0)
			to := d.now.AddDate(-18, 0, 0)
			return moment(d.f.DateRange(from, to), t), true
		},
	},
	{
		name:     "created",
		keywords: []string{"created"},
		kinds:    dateKinds,
		gen: func(d *detector, t schema.ColumnType) (any, bool) {
			return moment(d.f.DateRange(d.now.AddDate(-2, 0, 0), d.now), t), true
		},
	},
	{
		name:     "updated",
		keywords: []string{"updated", "modified"},
		kinds:    dateKinds,
		gen: func(d *detector, t schema.ColumnType) (any, bool) {
			return moment(d.f.DateRange(d.now.AddDate(0, 0, -30), d.now), t), true
		},
	},
	{
		name:     "price",
		keywords: []string{"price", "cost", "amount", "fee", "salary"},
		kinds:    numKinds,
		gen:      (*detector).price,
	},
	{
		name:   "age",
		tokens: []string{"age"},
		kinds:  []schema.Kind{schema.KindInteger},
		gen: func(d *detector, _ schema.ColumnType) (any, bool) {
			return d.f.Number(1, 100), true
		},
	},
	{
		name:     "score",
		keywords: []string{"score", "rating"},
		kinds:    numKinds,
		gen:      (*detector).score,
	},
}

func str(fn func(d *detector) string) func(*detector, schema.ColumnType) (any, bool) {
	return func(d *detector, _ schema.ColumnType) (any, bool) {
		return fn(d), true
	}
}

// detector infers a generator from a column name.
type detector struct {
	f   *gofakeit.Faker
	loc *locale
	now time.Time
}

func newDetector(f *gofakeit.Faker, loc *locale, now time.Time) *detector {
	return &detector{f: f, loc: loc, now: now}
}

// detect returns a value for the column if its name belongs to a known
// category that can produce the declared type.
func (d *detector) detect(name string, t schema.ColumnType) (any, bool) {
	if t == nil || !validName(name) {
		return nil, false
	}
	lower := strings.ToLower(name)
	var toks []string
	kind := t.Kind()
	for i := range categories {
		c := &categories[i]
		if !slices.Contains(c.kinds, kind) {
			continue
		}
		if !containsAny(lower, c.keywords) {
			if len(c.tokens) == 0 {
				continue
			}
			if toks == nil {
				toks = tokens(name)
			}
			if !hasToken(toks, c.tokens) {
				continue
			}
		}
		res, ok := c.gen(d, t)
		if !ok {
			return nil, false
		}
		return fit(res, t, c.text)
	}
	return nil, false
}

func (d *detector) email() string {
	local, domain, _ := strings.Cut(d.f.Email(), "@")
	local = strings.Trim(cleanEmail(local), ".")
	domain = strings.Trim(cleanEmail(domain), ".")
	if local == "" {
		local = strings.ToLower(d.f.LetterN(8))
	}
	if !strings.Contains(domain, ".") {
		domain = "example.com"
	}
	return local + "@" + domain
}

func cleanEmail(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			return r
		case r >= 'A' && r <= 'Z':
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// password returns a SHA-256 hex digest of a random password.
func (d *detector) password() string {
	sum := sha256.Sum256([]byte(d.f.Password(true, true, true, true, false, 16)))
	return hex.EncodeToString(sum[:])
}

func (d *detector) price(t schema.ColumnType) (any, bool) {
	hi := 1000.0
	scale := 2
	switch v := t.(type) {
	case schema.Decimal:
		if v.Precision > 0 {
			scale = v.Scale
			hi = math.Min(hi, math.Pow10(v.Precision-v.Scale)-1)
		}
	case schema.Float:
		if v.Precision > 0 {
			scale = v.Scale
			hi = math.Min(hi, math.Pow10(v.Precision-v.Scale)-1)
		}
	case schema.Integer:
		return d.f.Number(1, 1000), true
	}
	if hi < 1 {
		return nil, false
	}
	p := d.f.Price(1, hi)
	if _, ok := t.(schema.Decimal); ok {
		return decimal.NewFromFloat(p).Round(int32(scale)), true
	}
	return round(p, scale), true
}

// score returns a rating between 1 and 10 that fits the precision of
// a numeric column.
func (d *detector) score(t schema.ColumnType) (any, bool) {
	var precision, scale int
	switch v := t.(type) {
	case schema.Decimal:
		precision, scale = v.Precision, v.Scale
	case schema.Float:
		precision, scale = v.Precision, v.Scale
	}
	if precision <= 0 {
		return number(d.f.Number(1, 10), t), true
	}
	hi := math.Min(10, math.Pow10(precision-scale)-math.Pow10(-scale))
	if hi < 1 {
		return nil, false
	}
	s := math.Min(round(d.f.Float64Range(1, hi), scale), hi)
	if _, ok := t.(schema.Decimal); ok {
		return decimal.NewFromFloat(s).Round(int32(scale)), true
	}
	return s, true
}

func number(n int, t schema.ColumnType) any {
	switch t.(type) {
	case schema.Float:
		return float64(n)
	case schema.Decimal:
		return decimal.NewFromInt(int64(n))
	}
	return n
}

// moment converts a time to the precision of a date or a timestamp.
func moment(tm time.Time, t schema.ColumnType) time.Time {
	tm = tm.UTC()
	if t.Kind() == schema.KindDate {
		return tm.Truncate(24 * time.Hour)
	}
	return tm.Truncate(time.Second)
}

// fit makes a string value respect the column length.
func fit(v any, t schema.ColumnType, text bool) (any, bool) {
	s, ok := v.(string)
	st, isStr := t.(schema.String)
	if !ok || !isStr || st.MaxLength <= 0 || len(s) <= st.MaxLength {
		return v, true
	}
	if !text {
		return nil, false
	}
	return truncate(s, st.MaxLength), true
}

// validName accepts identifiers of letters, digits and underscores with
// at least one letter.
func validName(name string) bool {
	var letter bool
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
			letter = true
		case b >= '0' && b <= '9', b == '_':
		default:
			return false
		}
	}
	return letter
}

// tokens splits snake_case and camelCase names into lowercase words.
func tokens(name string) []string {
	var res []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			res = append(res, strings.ToLower(sb.String()))
			sb.Reset()
		}
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b == '_':
			flush()
			continue
		case b >= 'A' && b <= 'Z' && i > 0:
			prev := name[i-1]
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				flush()
			}
		}
		sb.WriteByte(b)
	}
	flush()
	return res
}

func containsAny(s string, subs []string) bool {
	for _, v := range subs {
		if strings.Contains(s, v) {
			return true
		}
	}
	return false
}

func hasToken(toks, want []string) bool {
	for _, t := range toks {
		if slices.Contains(want, t) {
			return true
		}
	}
	return false
}

