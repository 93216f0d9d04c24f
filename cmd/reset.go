/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnseed/internal/ioseed"
	"github.com/spf13/cobra"
)

// getResetCmd returns the reset command.
func getResetCmd() *cobra.Command {
	var yes bool

	resetCmd := &cobra.Command{
		Use:   "reset [table...]",
		Short: "Delete all rows of tables",
		Long: `Delete all rows of the given tables, or of every table of the
schema when no tables are given. Tables that reference others are
emptied first. Tables themselves are kept.

Use --yes to skip confirmation.

Examples:
  gnseed reset
  gnseed reset users user_teams
  gnseed reset users -y`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runReset(args, yes)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	resetCmd.Flags().BoolVarP(&yes, "yes", "y", false,
		"delete rows without confirmation")

	return resetCmd
}

func runReset(tables []string, yes bool) error {
	ctx := context.Background()

	op, cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	if !yes {
		target := "all tables of the schema"
		if len(tables) > 0 {
			target = strings.Join(tables, ", ")
		}
		gn.Warn("\nWarning: all rows of %s will be deleted.", target)
		yes, err = confirm("Do you want to continue?")
		if err != nil {
			gn.Warn("Failed to read user input")
			return err
		}
		if !yes {
			gn.Info("Aborted. No changes made.")
			return nil
		}
	}

	n, err := ioseed.New(cfg, op, cat).Reset(ctx, yes, tables...)
	if err != nil {
		return err
	}
	gn.Info("Deleted <em>%s</em> rows", humanize.Comma(n))
	return nil
}
