package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnseed/internal/iodb"
	"github.com/gnames/gnseed/internal/ioschema"
	"github.com/gnames/gnseed/pkg/config"
	"github.com/gnames/gnseed/pkg/db"
	"github.com/gnames/gnseed/pkg/schema"
)

// schemaPath returns the file with table definitions.
func schemaPath(cfg *config.Config) string {
	if cfg.SchemaPath != "" {
		return cfg.SchemaPath
	}
	return config.SchemaFilePath(cfg.HomeDir)
}

// openCatalog loads table definitions and connects to the database.
// The caller closes the operator.
func openCatalog(
	ctx context.Context,
	cfg *config.Config,
) (db.Operator, *schema.Catalog, error) {
	cat, err := ioschema.LoadCatalog(schemaPath(cfg))
	if err != nil {
		return nil, nil, err
	}

	op := iodb.NewOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return nil, nil, err
	}

	if cfg.IsSQLite() {
		gn.Info("Connected to SQLite database: <em>%s</em>",
			cfg.Database.Path)
	} else {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	}
	return op, cat, nil
}
