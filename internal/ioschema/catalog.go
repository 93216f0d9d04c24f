package ioschema

import (
	"log/slog"

	"github.com/gnames/gnseed/internal/iofs"
	"github.com/gnames/gnseed/pkg/schema"
)

// LoadCatalog reads table definitions from a YAML file.
func LoadCatalog(path string) (*schema.Catalog, error) {
	data, err := iofs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res, err := schema.ParseDefinition(data)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded table definitions",
		"path", path, "tables", len(res.Names()))
	return res, nil
}
