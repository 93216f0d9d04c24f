package schema

import (
	"fmt"
	"strings"
)

// Dialect selects SQL flavour of generated DDL.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// TableDDL creates a CREATE TABLE statement for the table.
func (t *Table) TableDDL(d Dialect) string {
	pks := t.PrimaryKeys()
	inlinePK := len(pks) == 1

	var columns []string
	for _, c := range t.Columns {
		columns = append(columns, "    "+columnDDL(c, d, inlinePK))
	}
	if len(pks) > 1 {
		quoted := make([]string, len(pks))
		for i, v := range pks {
			quoted[i] = quote(v)
		}
		columns = append(columns,
			fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		quote(t.Name),
		strings.Join(columns, ",\n"))
}

// DropDDL creates a DROP TABLE statement for the table.
func (t *Table) DropDDL(d Dialect) string {
	if d == Postgres {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", quote(t.Name))
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", quote(t.Name))
}

func columnDDL(c Column, d Dialect, inlinePK bool) string {
	var sb strings.Builder
	sb.WriteString(quote(c.Name))
	sb.WriteString(" ")

	serial := c.PrimaryKey && c.AutoIncrement && c.Type.Kind() == KindInteger
	switch {
	case serial && inlinePK && d == SQLite:
		sb.WriteString("INTEGER PRIMARY KEY AUTOINCREMENT")
	case serial && d == Postgres:
		sb.WriteString("BIGSERIAL")
	default:
		sb.WriteString(sqlType(c.Type, d))
	}
	if serial && inlinePK && d == SQLite {
		return refDDL(&sb, c)
	}

	if c.PrimaryKey && inlinePK {
		sb.WriteString(" PRIMARY KEY")
	} else if !c.Nullable && !c.PrimaryKey {
		sb.WriteString(" NOT NULL")
	}
	if c.Unique && !c.PrimaryKey {
		sb.WriteString(" UNIQUE")
	}
	if c.HasNonNullDefault() {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(literal(c.Default))
	}
	if e, ok := c.Type.(Enum); ok {
		vals := make([]string, len(e.Values))
		for i, v := range e.Values {
			vals[i] = literal(v)
		}
		fmt.Fprintf(&sb, " CHECK (%s IN (%s))",
			quote(c.Name), strings.Join(vals, ", "))
	}
	return refDDL(&sb, c)
}

func refDDL(sb *strings.Builder, c Column) string {
	if c.ForeignKey != nil {
		fmt.Fprintf(sb, " REFERENCES %s(%s)",
			quote(c.ForeignKey.Table), quote(c.ForeignKey.Column))
	}
	return sb.String()
}

func sqlType(t ColumnType, d Dialect) string {
	pg := d == Postgres
	switch v := t.(type) {
	case String:
		if v.MaxLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", v.MaxLength)
		}
		return "TEXT"
	case Integer:
		if pg {
			return "BIGINT"
		}
		return "INTEGER"
	case Float:
		if pg {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case Decimal:
		if v.Precision > 0 {
			return fmt.Sprintf("NUMERIC(%d,%d)", v.Precision, v.Scale)
		}
		return "NUMERIC"
	case Boolean:
		return "BOOLEAN"
	case Date:
		return "DATE"
	case DateTime:
		return "TIMESTAMP"
	case Time:
		return "TIME"
	case Interval:
		if pg {
			return "INTERVAL"
		}
		return "INTEGER"
	case LargeBinary:
		if pg {
			return "BYTEA"
		}
		return "BLOB"
	case JSON:
		if pg {
			return "JSONB"
		}
		return "TEXT"
	case UUID:
		if pg {
			return "UUID"
		}
		return "TEXT"
	case Enum:
		size := 1
		for _, s := range v.Values {
			size = max(size, len(s))
		}
		return fmt.Sprintf("VARCHAR(%d)", size)
	case Other:
		if v.Name != "" && pg {
			return strings.ToUpper(v.Name)
		}
		return "TEXT"
	}
	return "TEXT"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func literal(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprint(v)
}
