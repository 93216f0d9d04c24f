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

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/internal/ioschema"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create tables of the schema",
		Long: `Create database tables described in the schema file.

This command:
  1. Reads table definitions (default ~/.config/gnseed/schema.yaml)
  2. Connects to PostgreSQL or SQLite using configuration settings
  3. Checks for existing tables and prompts for confirmation
  4. Creates tables in dependency order

Use --force to skip confirmation and drop existing tables.

Examples:
  gnseed create
  gnseed create --force
  gnseed create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(forceCreate)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")

	return createCmd
}

func runCreate(force bool) error {
	ctx := context.Background()

	op, cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx, cat.Names()...)
	if err != nil {
		return err
	}

	sm := ioschema.NewManager(op)

	if hasTables {
		if !force {
			gn.Warn("\nWarning: Database contains tables of the schema.")
			gn.Warn("Creating schema will drop them with all their data.")
			ok, err := confirm("Do you want to continue?")
			if err != nil {
				gn.Warn("Failed to read user input")
				return err
			}
			if !ok {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}

		gn.Info("Dropping existing tables...")
		if err = sm.Drop(ctx, cat); err != nil {
			return err
		}
		gn.Info("Tables dropped")
	}

	if err = sm.Create(ctx, cat); err != nil {
		return err
	}

	gn.Info(`Next steps:
   - Run '<em>gnseed seed -n 100</em>' to fill tables with fake rows
   - Run '<em>gnseed reset</em>' to delete generated rows`)

	return nil
}
