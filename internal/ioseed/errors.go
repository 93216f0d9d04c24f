package ioseed

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/pkg/errcode"
)

// NotConnectedError creates an error for when seeding is attempted
// without database connection.
func NotConnectedError() error {
	msg := "Seed operation attempted without database connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: not connected to database", fn.Name()),
	}
}

// AllTablesFailedError creates an error for when no table was seeded.
func AllTablesFailedError(count int) error {
	msg := `Failed number of tables: <em>%d</em>`
	vars := []any{count}

	plural := "s"
	if count == 1 {
		plural = ""
	}

	return &gn.Error{
		Code: errcode.SeedAllTablesFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d table%s failed to seed", count, plural),
	}
}

// CancelledError creates an error for when seeding is cancelled.
func CancelledError(err error) error {
	msg := "Seeding was cancelled"
	return &gn.Error{
		Code: errcode.SeedCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("seeding cancelled: %w", err),
	}
}
