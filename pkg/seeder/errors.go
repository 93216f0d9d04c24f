package seeder

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/pkg/errcode"
)

func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name()
}

// InvalidAmountError is returned when the number of rows is not a
// non-negative integer.
func InvalidAmountError(amount any) error {
	msg := "Amount of rows must be a non-negative integer, got <em>%v</em>"
	vars := []any{amount}
	return &gn.Error{
		Code: errcode.SeedInvalidAmountError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: invalid amount %v", caller(), amount),
	}
}

// TemplateParseError is returned when a column doc is not valid JSON.
func TemplateParseError(table, column string, err error) error {
	msg := `Documentation of <em>%s.%s</em> is not a valid JSON template

<em>How to fix:</em>
  Use a JSON object or array whose leaves are
  "string", "integer", "float", "boolean", "date" or "datetime"`
	vars := []any{table, column}
	return &gn.Error{
		Code: errcode.SeedTemplateParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot parse template of %s.%s: %w",
			caller(), table, column, err),
	}
}

// OverrideError is returned when a field override fails or panics.
func OverrideError(table, column string, err error) error {
	msg := "Field override of <em>%s.%s</em> failed"
	vars := []any{table, column}
	return &gn.Error{
		Code: errcode.SeedOverrideError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: override of %s.%s: %w",
			caller(), table, column, err),
	}
}

// StoreError wraps a failure of the store.
func StoreError(op, table string, err error) error {
	msg := "Database operation <em>%s</em> failed on <em>%s</em>"
	vars := []any{op, table}
	return &gn.Error{
		Code: errcode.SeedStoreError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s %s: %w", caller(), op, table, err),
	}
}

// ConfirmationRequiredError is returned when reset is not confirmed.
func ConfirmationRequiredError(table string) error {
	msg := "Deleting all rows of <em>%s</em> requires confirmation"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.SeedConfirmationRequiredError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: reset of %s is not confirmed", caller(), table),
	}
}

// CyclicRelationError is returned when required foreign keys lead back to
// a table that is being created.
func CyclicRelationError(path []string) error {
	chain := strings.Join(path, " -> ")
	msg := `Foreign keys form a cycle: <em>%s</em>

<em>How to fix:</em>
  1. Make one of the foreign keys nullable
  2. Provide a field override for one of the columns`
	vars := []any{chain}
	return &gn.Error{
		Code: errcode.SeedCyclicRelationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cyclic relation %s", caller(), chain),
	}
}

// MissingReferenceError is returned when a referenced row or column
// cannot be read after the referenced row was created.
func MissingReferenceError(table, column string) error {
	msg := "Cannot read referenced value <em>%s.%s</em>"
	vars := []any{table, column}
	return &gn.Error{
		Code: errcode.SeedMissingReferenceError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no value for %s.%s",
			caller(), table, column),
	}
}

// BatchError aggregates a failure that aborted seeding of a table.
// The transaction of the failed batch is rolled back before it is
// returned, earlier batches stay committed.
func BatchError(table string, batch int, err error) error {
	msg := "Seeding <em>%s</em> failed at batch %d, changes of this batch are rolled back"
	vars := []any{table, batch}
	return &gn.Error{
		Code: errcode.SeedBatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: table %s, batch %d: %w",
			caller(), table, batch, err),
	}
}
