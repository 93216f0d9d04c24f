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
	"os"
	"os/signal"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/internal/ioseed"
	"github.com/gnames/gnseed/pkg/seeder"
	"github.com/spf13/cobra"
)

// getSeedCmd returns the seed command.
func getSeedCmd() *cobra.Command {
	var (
		amount string
		flags  fakerFlags
	)

	seedCmd := &cobra.Command{
		Use:   "seed [table...]",
		Short: "Fill tables with fake rows",
		Long: `Insert fake rows into tables of the schema.

Without arguments every table of the schema receives the requested
amount of rows. Rows of referenced tables are created on the way, so a
table with foreign keys ends up with matching parent records.

Tables are processed in dependency order. Independent tables are seeded
concurrently on PostgreSQL.

Examples:
  # Add 10 rows to every table
  gnseed seed

  # Add 500 rows to users and their teams
  gnseed seed users -n 500

  # Reproducible German data
  gnseed seed -n 20 --seed 42 --locale de-DE`,
		Aliases: []string{"populate"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSeed(cmd, args, amount, &flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	seedCmd.Flags().StringVarP(&amount, "amount", "n", "10",
		"number of rows for each table")
	flags.register(seedCmd)

	return seedCmd
}

func runSeed(
	cmd *cobra.Command,
	tables []string,
	amount string,
	flags *fakerFlags,
) error {
	n, err := seeder.ParseAmount(amount)
	if err != nil {
		return err
	}

	if fo := flags.options(cmd); len(fo) > 0 {
		cfg.Update(fo)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	op, cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	return ioseed.New(cfg, op, cat).Populate(ctx, n, tables...)
}
