package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/pkg/errcode"
)

func NotConnectedError() error {
	msg := "Store operation attempted without database connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: not connected to database", fn.Name()),
	}
}

func BeginError(err error) error {
	msg := "Cannot start a transaction"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreBeginError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot begin transaction: %w", fn.Name(), err),
	}
}

func InsertError(table string, err error) error {
	msg := `Cannot insert rows into <em>%s</em>

<em>Possible causes:</em>
  - Table does not exist, run <em>gnseed create</em>
  - Generated value violates a constraint of the table`
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreInsertError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot insert into %s: %w",
			fn.Name(), table, err),
	}
}

func QueryError(table string, err error) error {
	msg := "Cannot read rows of <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot query %s: %w",
			fn.Name(), table, err),
	}
}

func DeleteError(table string, err error) error {
	msg := "Cannot delete rows of <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreDeleteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot delete from %s: %w",
			fn.Name(), table, err),
	}
}

func CommitError(err error) error {
	msg := "Cannot commit inserted rows"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreCommitError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot commit: %w", fn.Name(), err),
	}
}

func RollbackError(err error) error {
	msg := "Cannot roll back inserted rows"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreRollbackError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot roll back: %w", fn.Name(), err),
	}
}
