package schema

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	gschema "gorm.io/gorm/schema"
)

var (
	parseCache   = &sync.Map{}
	durationType = reflect.TypeOf(time.Duration(0))
	decimalType  = reflect.TypeOf(decimal.Decimal{})
)

// FromModel reads a table description from a gorm model.
//
// Besides gorm tags, these struct tags are recognized:
//
//	doc:"{\"a\": \"string\"}"   JSON template for the column value
//	enum:"new,active,closed"   allowed values
//	fake:"min=1,max=10"        bounds of generated integers
//	fk:"teams.id"              foreign key without a relationship field
func FromModel(model any) (*Table, error) {
	s, err := gschema.Parse(model, parseCache, gschema.NamingStrategy{})
	if err != nil {
		return nil, ParseModelError(model, err)
	}

	res := &Table{
		Name:      s.Table,
		Model:     model,
		Relations: make(map[string]string),
	}

	fks := make(map[string]*ForeignKey)
	for _, rel := range s.Relationships.BelongsTo {
		for _, ref := range rel.References {
			if ref.ForeignKey == nil || ref.PrimaryKey == nil {
				continue
			}
			fks[ref.ForeignKey.DBName] = &ForeignKey{
				Table:  rel.FieldSchema.Table,
				Column: ref.PrimaryKey.DBName,
			}
			res.Relations[ref.ForeignKey.DBName] = rel.FieldSchema.Table
		}
	}

	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		col := fieldColumn(f)
		if fk, ok := fks[f.DBName]; ok {
			col.ForeignKey = fk
		}
		res.Columns = append(res.Columns, col)
	}
	return res, nil
}

// FromModels builds a catalog from gorm models. Join tables of
// many-to-many relationships are added as association tables.
func FromModels(models ...any) (*Catalog, error) {
	res := NewCatalog()
	for _, m := range models {
		t, err := FromModel(m)
		if err != nil {
			return nil, err
		}
		res.Add(t)

		s, err := gschema.Parse(m, parseCache, gschema.NamingStrategy{})
		if err != nil {
			return nil, ParseModelError(m, err)
		}
		for _, rel := range s.Relationships.Many2Many {
			if rel.JoinTable == nil {
				continue
			}
			if _, ok := res.Table(rel.JoinTable.Table); ok {
				continue
			}
			res.Add(joinTable(rel))
		}
	}
	return res, nil
}

// AssociationFromModel reads a join table from a gorm model. Rows of it
// are inserted in bulk by table name.
func AssociationFromModel(model any) (*Table, error) {
	res, err := FromModel(model)
	if err != nil {
		return nil, err
	}
	res.Association = true
	res.Model = nil
	return res, nil
}

func joinTable(rel *gschema.Relationship) *Table {
	res := &Table{
		Name:        rel.JoinTable.Table,
		Association: true,
	}
	for _, ref := range rel.References {
		if ref.ForeignKey == nil || ref.PrimaryKey == nil {
			continue
		}
		res.Columns = append(res.Columns, Column{
			Name:       ref.ForeignKey.DBName,
			Type:       fieldType(ref.PrimaryKey),
			PrimaryKey: true,
			ForeignKey: &ForeignKey{
				Table:  ref.PrimaryKey.Schema.Table,
				Column: ref.PrimaryKey.DBName,
			},
		})
	}
	return res
}

func fieldColumn(f *gschema.Field) Column {
	res := Column{
		Name:          f.DBName,
		Type:          fieldType(f),
		PrimaryKey:    f.PrimaryKey,
		AutoIncrement: f.AutoIncrement,
		Unique:        f.Unique,
		Nullable:      isNullable(f),
		Doc:           f.Tag.Get("doc"),
		Bounds:        parseBounds(f.Tag.Get("fake")),
	}

	if f.HasDefaultValue {
		res.HasDefault = true
		res.Default = f.DefaultValueInterface
		dv := strings.TrimSpace(f.DefaultValue)
		if res.Default == nil && dv != "" && !strings.EqualFold(dv, "null") {
			res.Default = dv
		}
	}

	if fk := f.Tag.Get("fk"); fk != "" && res.ForeignKey == nil {
		tbl, col, ok := strings.Cut(fk, ".")
		if ok {
			res.ForeignKey = &ForeignKey{Table: tbl, Column: col}
		}
	}
	return res
}

// isNullable treats pointers and sql.Null* wrappers as nullable,
// plain Go values never hold NULL.
func isNullable(f *gschema.Field) bool {
	if f.NotNull || f.PrimaryKey {
		return false
	}
	if f.FieldType.Kind() == reflect.Ptr {
		return true
	}
	name := f.IndirectFieldType.Name()
	return strings.HasPrefix(name, "Null") || name == "DeletedAt"
}

func fieldType(f *gschema.Field) ColumnType {
	if vals := f.Tag.Get("enum"); vals != "" {
		var values []string
		for _, v := range strings.Split(vals, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		return Enum{Values: values}
	}

	switch f.IndirectFieldType {
	case durationType:
		return Interval{}
	case decimalType:
		if t, ok := ParseSQLType(string(f.DataType)); ok {
			return t
		}
		return Decimal{Precision: f.Precision, Scale: f.Scale}
	}

	switch f.DataType {
	case gschema.Bool:
		return Boolean{}
	case gschema.Int, gschema.Uint:
		return Integer{}
	case gschema.Float:
		return Float{Precision: f.Precision, Scale: f.Scale}
	case gschema.String:
		return String{MaxLength: f.Size}
	case gschema.Time:
		return DateTime{}
	case gschema.Bytes:
		return LargeBinary{}
	}

	if t, ok := ParseSQLType(string(f.DataType)); ok {
		if d, ok := t.(Decimal); ok && d.Precision == 0 {
			return Decimal{Precision: f.Precision, Scale: f.Scale}
		}
		return t
	}
	return Other{Name: string(f.DataType)}
}

// ParseSQLType maps an SQL type name such as "varchar(40)" or
// "numeric(10,2)" to a column type.
func ParseSQLType(s string) (ColumnType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, false
	}
	name, args := s, ""
	if i := strings.Index(s, "("); i > 0 && strings.HasSuffix(s, ")") {
		name, args = strings.TrimSpace(s[:i]), s[i+1:len(s)-1]
	}
	nums := parseArgs(args)
	arg := func(i int) int {
		if i < len(nums) {
			return nums[i]
		}
		return 0
	}

	switch name {
	case "string", "varchar", "character varying", "char", "character",
		"nvarchar", "text":
		return String{MaxLength: arg(0)}, true
	case "int", "integer", "smallint", "bigint", "tinyint", "mediumint",
		"int2", "int4", "int8", "serial", "bigserial", "smallserial", "uint":
		return Integer{}, true
	case "float", "real", "double", "double precision", "float4", "float8":
		return Float{Precision: arg(0), Scale: arg(1)}, true
	case "decimal", "numeric", "money":
		return Decimal{Precision: arg(0), Scale: arg(1)}, true
	case "bool", "boolean":
		return Boolean{}, true
	case "date":
		return Date{}, true
	case "datetime", "timestamp", "timestamptz",
		"timestamp with time zone", "timestamp without time zone":
		return DateTime{}, true
	case "time", "timetz":
		return Time{}, true
	case "interval":
		return Interval{}, true
	case "bytea", "blob", "binary", "varbinary", "bytes":
		return LargeBinary{}, true
	case "json", "jsonb":
		return JSON{}, true
	case "uuid":
		return UUID{}, true
	}
	return nil, false
}

func parseArgs(s string) []int {
	if s == "" {
		return nil
	}
	var res []int
	for _, v := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return res
		}
		res = append(res, i)
	}
	return res
}

// parseBounds reads "min=1,max=10".
func parseBounds(s string) *Bounds {
	if s == "" {
		return nil
	}
	var res Bounds
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "min":
			res.Min = &i
		case "max":
			res.Max = &i
		}
	}
	if res.Min == nil && res.Max == nil {
		return nil
	}
	return &res
}
