package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a YAML description of tables.
//
//	tables:
//	  - name: users
//	    columns:
//	      - name: id
//	        type: integer
//	        primary_key: true
//	        autoincrement: true
//	      - name: email
//	        type: varchar(120)
//	      - name: team_id
//	        type: integer
//	        references: teams.id
type Definition struct {
	Tables []TableDef `yaml:"tables"`
}

// TableDef describes one table.
type TableDef struct {
	Name        string            `yaml:"name"`
	Association bool              `yaml:"association,omitempty"`
	Columns     []ColumnDef       `yaml:"columns"`
	Relations   map[string]string `yaml:"relations,omitempty"`
}

// ColumnDef describes one column. Type is a kind name ("string",
// "integer", "enum"...) or an SQL type ("varchar(40)", "numeric(10,2)").
type ColumnDef struct {
	Name          string   `yaml:"name"`
	Type          string   `yaml:"type"`
	Size          int      `yaml:"size,omitempty"`
	Precision     int      `yaml:"precision,omitempty"`
	Scale         int      `yaml:"scale,omitempty"`
	Values        []string `yaml:"values,omitempty"`
	Nullable      bool     `yaml:"nullable,omitempty"`
	Default       any      `yaml:"default,omitempty"`
	PrimaryKey    bool     `yaml:"primary_key,omitempty"`
	AutoIncrement bool     `yaml:"autoincrement,omitempty"`
	Unique        bool     `yaml:"unique,omitempty"`
	References    string   `yaml:"references,omitempty"`
	Doc           string   `yaml:"doc,omitempty"`
	Min           *int     `yaml:"min,omitempty"`
	Max           *int     `yaml:"max,omitempty"`
}

// ParseDefinition reads YAML table definitions into a catalog.
func ParseDefinition(data []byte) (*Catalog, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, DefinitionError("", "cannot parse YAML", err)
	}
	res := NewCatalog()
	for _, td := range def.Tables {
		t, err := td.Table()
		if err != nil {
			return nil, err
		}
		if _, ok := res.Table(t.Name); ok {
			return nil, DefinitionError(t.Name, "table is defined twice", nil)
		}
		res.Add(t)
	}
	return res, nil
}

// Table converts the definition to a table description.
func (td TableDef) Table() (*Table, error) {
	if td.Name == "" {
		return nil, DefinitionError("", "table name is empty", nil)
	}
	res := &Table{
		Name:        td.Name,
		Association: td.Association,
		Relations:   make(map[string]string),
	}
	for k, v := range td.Relations {
		res.Relations[k] = v
	}

	seen := make(map[string]struct{})
	for _, cd := range td.Columns {
		if cd.Name == "" {
			return nil, DefinitionError(td.Name, "column name is empty", nil)
		}
		if _, ok := seen[cd.Name]; ok {
			return nil, DefinitionError(td.Name,
				fmt.Sprintf("column %s is defined twice", cd.Name), nil)
		}
		seen[cd.Name] = struct{}{}

		col, err := cd.column()
		if err != nil {
			return nil, DefinitionError(td.Name, err.Error(), nil)
		}
		res.Columns = append(res.Columns, col)
	}
	if len(res.Columns) == 0 {
		return nil, DefinitionError(td.Name, "table has no columns", nil)
	}
	return res, nil
}

func (cd ColumnDef) column() (Column, error) {
	typ, err := cd.columnType()
	if err != nil {
		return Column{}, err
	}
	res := Column{
		Name:          cd.Name,
		Type:          typ,
		Nullable:      cd.Nullable && !cd.PrimaryKey,
		HasDefault:    cd.Default != nil,
		Default:       cd.Default,
		PrimaryKey:    cd.PrimaryKey,
		AutoIncrement: cd.AutoIncrement,
		Unique:        cd.Unique,
		Doc:           cd.Doc,
	}
	if cd.Min != nil || cd.Max != nil {
		res.Bounds = &Bounds{Min: cd.Min, Max: cd.Max}
	}
	if cd.References != "" {
		tbl, col, ok := strings.Cut(cd.References, ".")
		if !ok || tbl == "" || col == "" {
			return Column{}, fmt.Errorf(
				"column %s: reference '%s' is not in 'table.column' form",
				cd.Name, cd.References)
		}
		res.ForeignKey = &ForeignKey{Table: tbl, Column: col}
	}
	return res, nil
}

func (cd ColumnDef) columnType() (ColumnType, error) {
	typ := strings.ToLower(strings.TrimSpace(cd.Type))
	switch typ {
	case "":
		return nil, fmt.Errorf("column %s: type is empty", cd.Name)
	case "enum":
		if len(cd.Values) == 0 {
			return nil, fmt.Errorf("column %s: enum has no values", cd.Name)
		}
		return Enum{Values: cd.Values}, nil
	}

	res, ok := ParseSQLType(typ)
	if !ok {
		return Other{Name: cd.Type}, nil
	}
	switch t := res.(type) {
	case String:
		if t.MaxLength == 0 {
			t.MaxLength = cd.Size
		}
		return t, nil
	case Float:
		if t.Precision == 0 {
			t = Float{Precision: cd.Precision, Scale: cd.Scale}
		}
		return t, nil
	case Decimal:
		if t.Precision == 0 {
			t = Decimal{Precision: cd.Precision, Scale: cd.Scale}
		}
		return t, nil
	}
	return res, nil
}
