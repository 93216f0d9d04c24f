package schema

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/pkg/errcode"
)

// UnknownTableError is returned when a table is not in the catalog.
func UnknownTableError(name string) error {
	msg := "Table <em>%s</em> is not described in the schema"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaUnknownTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown table %s", fn.Name(), name),
	}
}

// CyclicDependencyError is returned when foreign keys form a cycle.
func CyclicDependencyError(name string) error {
	msg := `Circular dependency detected involving table <em>%s</em>

<em>How to fix:</em>
  1. Make one of the foreign keys of the cycle nullable
  2. Seed tables of the cycle separately`
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaCyclicDependencyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: circular dependency involving table %s",
			fn.Name(), name),
	}
}

// ParseModelError is returned when gorm cannot parse a model.
func ParseModelError(model any, err error) error {
	msg := "Cannot read schema of model <em>%T</em>"
	vars := []any{model}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaParseModelError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot parse model %T: %w", fn.Name(), model, err),
	}
}

// DefinitionError is returned when a YAML table definition is invalid.
func DefinitionError(table, reason string, err error) error {
	msg := "Invalid definition of table <em>%s</em>: %s"
	vars := []any{table, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	e := fmt.Errorf("from %s: table %s: %s", fn.Name(), table, reason)
	if err != nil {
		e = fmt.Errorf("from %s: table %s: %s: %w", fn.Name(), table, reason, err)
	}
	return &gn.Error{
		Code: errcode.SchemaDefinitionError,
		Msg:  msg,
		Vars: vars,
		Err:  e,
	}
}
