// Package schema describes tables for fake data synthesis: declared column
// types, nullability, defaults, keys, foreign keys and documentation
// templates. Descriptions come from gorm models or from YAML definitions.
package schema

import (
	"slices"
	"strconv"
)

// Kind enumerates declared column types.
type Kind int

const (
	KindOther Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindDateTime
	KindEnum
	KindDecimal
	KindTime
	KindInterval
	KindLargeBinary
	KindJSON
	KindUUID
)

var kindNames = map[Kind]string{
	KindOther:       "other",
	KindString:      "string",
	KindInteger:     "integer",
	KindFloat:       "float",
	KindBoolean:     "boolean",
	KindDate:        "date",
	KindDateTime:    "datetime",
	KindEnum:        "enum",
	KindDecimal:     "decimal",
	KindTime:        "time",
	KindInterval:    "interval",
	KindLargeBinary: "binary",
	KindJSON:        "json",
	KindUUID:        "uuid",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ColumnType is a declared column type. The set of implementations is
// closed, only types of this package satisfy it.
type ColumnType interface {
	Kind() Kind
	columnType()
}

// String is a text column. MaxLength 0 means unspecified.
type String struct{ MaxLength int }

// Integer is a whole number column.
type Integer struct{}

// Float is a floating point column. Precision 0 means unspecified.
type Float struct{ Precision, Scale int }

// Boolean is a true/false column.
type Boolean struct{}

// Date is a calendar date column.
type Date struct{}

// DateTime is a timestamp column.
type DateTime struct{}

// Enum restricts a column to a list of values.
type Enum struct{ Values []string }

// Decimal is a fixed-point column. Precision 0 means unspecified.
type Decimal struct{ Precision, Scale int }

// Time is a time-of-day column.
type Time struct{}

// Interval is a duration column.
type Interval struct{}

// LargeBinary is a binary blob column.
type LargeBinary struct{}

// JSON is a column holding JSON documents.
type JSON struct{}

// UUID is a column holding universally unique identifiers.
type UUID struct{}

// Other is a column of a type unknown to the synthesizer.
type Other struct{ Name string }

func (String) Kind() Kind      { return KindString }
func (Integer) Kind() Kind     { return KindInteger }
func (Float) Kind() Kind       { return KindFloat }
func (Boolean) Kind() Kind     { return KindBoolean }
func (Date) Kind() Kind        { return KindDate }
func (DateTime) Kind() Kind    { return KindDateTime }
func (Enum) Kind() Kind        { return KindEnum }
func (Decimal) Kind() Kind     { return KindDecimal }
func (Time) Kind() Kind        { return KindTime }
func (Interval) Kind() Kind    { return KindInterval }
func (LargeBinary) Kind() Kind { return KindLargeBinary }
func (JSON) Kind() Kind        { return KindJSON }
func (UUID) Kind() Kind        { return KindUUID }
func (Other) Kind() Kind       { return KindOther }

func (String) columnType()      {}
func (Integer) columnType()     {}
func (Float) columnType()       {}
func (Boolean) columnType()     {}
func (Date) columnType()        {}
func (DateTime) columnType()    {}
func (Enum) columnType()        {}
func (Decimal) columnType()     {}
func (Time) columnType()        {}
func (Interval) columnType()    {}
func (LargeBinary) columnType() {}
func (JSON) columnType()        {}
func (UUID) columnType()        {}
func (Other) columnType()       {}

// ForeignKey points to a column of another table.
type ForeignKey struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

// Bounds limit generated integers. Nil ends are unbounded.
type Bounds struct {
	Min *int
	Max *int
}

// Column describes one column of a table.
type Column struct {
	Name string
	Type ColumnType

	Nullable bool

	// HasDefault is true when the column declares a default. Default keeps
	// the literal or the SQL expression of it.
	HasDefault bool
	Default    any

	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool

	ForeignKey *ForeignKey

	// Doc is a JSON template whose leaves are kind names
	// ("string", "integer", "float", "boolean", "date", "datetime").
	Doc string

	Bounds *Bounds
}

// HasNonNullDefault reports whether the column declares a default other
// than NULL.
func (c Column) HasNonNullDefault() bool {
	return c.HasDefault && c.Default != nil
}

// Table describes a table and its columns in declaration order.
type Table struct {
	Name    string
	Columns []Column

	// Relations maps foreign key columns to the table of the declared
	// navigational relationship.
	Relations map[string]string

	// Association marks join tables that have no entity model. Rows of such
	// tables are inserted in bulk.
	Association bool

	// Model is a gorm model of the table, if any.
	Model any
}

// Column returns a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKeys returns names of primary key columns.
func (t *Table) PrimaryKeys() []string {
	var res []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			res = append(res, c.Name)
		}
	}
	return res
}

// Dependencies returns names of tables referenced by foreign keys,
// without duplicates and in column order.
func (t *Table) Dependencies() []string {
	var res []string
	for _, c := range t.Columns {
		dep := t.Target(c)
		if dep == "" || slices.Contains(res, dep) {
			continue
		}
		res = append(res, dep)
	}
	return res
}

// Target returns the table a foreign key column points to. The declared
// relationship wins over the foreign key table.
func (t *Table) Target(c Column) string {
	if c.ForeignKey == nil {
		return ""
	}
	if rel, ok := t.Relations[c.Name]; ok && rel != "" {
		return rel
	}
	return c.ForeignKey.Table
}

// Row is a synthesized row, column names map to values.
type Row map[string]any
