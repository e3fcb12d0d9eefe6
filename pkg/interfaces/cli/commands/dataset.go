package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vsinha/salesdash/pkg/infrastructure/config"
	"github.com/vsinha/salesdash/pkg/infrastructure/logging"
	"github.com/vsinha/salesdash/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/salesdash/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/salesdash/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/salesdash/pkg/interfaces/cli/output"
)

// Env carries the resolved configuration shared by every command
type Env struct {
	Config *config.Config
	Logger *zap.Logger
	Stdout io.Writer
}

func (e Env) logger() *zap.Logger {
	return logging.OrNop(e.Logger)
}

func (e Env) output() output.Config {
	stdout := e.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return output.Config{
		Format:    e.Config.Output.Format,
		OutputDir: e.Config.Output.Dir,
		Stdout:    stdout,
	}
}

// dataset is the loaded, read-only view the services run against
type dataset struct {
	sales   *memory.SalesRepository
	catalog *memory.CatalogRepository
}

// loadDataset reads the sales table, and the registries when withCatalog is
// set, from the configured source
func loadDataset(ctx context.Context, env Env, withCatalog bool) (*dataset, error) {
	switch env.Config.Source {
	case "sqlite":
		return loadFromSQLite(ctx, env, withCatalog)
	default:
		return loadFromCSV(env, withCatalog)
	}
}

func loadFromCSV(env Env, withCatalog bool) (*dataset, error) {
	log := env.logger()
	files := env.Config.Data
	loader := csv.NewLoader()

	records, err := loader.LoadSales(files.Sales)
	if err != nil {
		return nil, fmt.Errorf("error loading sales: %w", err)
	}

	ds := &dataset{
		sales:   memory.NewSalesRepository(len(records)),
		catalog: memory.NewCatalogRepository(0),
	}
	if err := ds.sales.LoadSales(records); err != nil {
		return nil, fmt.Errorf("failed to load sales into repository: %w", err)
	}
	log.Debug("sales loaded", zap.String("file", files.Sales), zap.Int("records", len(records)))

	if !withCatalog {
		return ds, nil
	}

	items, err := loader.LoadItems(files.Items)
	if err != nil {
		return nil, fmt.Errorf("error loading items: %w", err)
	}
	suppliers, err := loader.LoadSuppliers(files.Suppliers)
	if err != nil {
		return nil, fmt.Errorf("error loading suppliers: %w", err)
	}

	ds.catalog = memory.NewCatalogRepository(len(items))
	if err := ds.catalog.LoadItems(items); err != nil {
		return nil, fmt.Errorf("failed to load items into repository: %w", err)
	}
	if err := ds.catalog.LoadSuppliers(suppliers); err != nil {
		return nil, fmt.Errorf("failed to load suppliers into repository: %w", err)
	}
	log.Debug("registries loaded", zap.Int("items", len(items)), zap.Int("suppliers", len(suppliers)))

	return ds, nil
}

func loadFromSQLite(ctx context.Context, env Env, withCatalog bool) (*dataset, error) {
	path := env.Config.SQLite.Path
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite database not found: %s (run the import command first)", path)
	}

	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	records, err := store.LoadSales(ctx)
	if err != nil {
		return nil, err
	}

	ds := &dataset{
		sales:   memory.NewSalesRepository(len(records)),
		catalog: memory.NewCatalogRepository(0),
	}
	if err := ds.sales.LoadSales(records); err != nil {
		return nil, fmt.Errorf("failed to load sales into repository: %w", err)
	}

	if withCatalog {
		items, err := store.LoadItems(ctx)
		if err != nil {
			return nil, err
		}
		suppliers, err := store.LoadSuppliers(ctx)
		if err != nil {
			return nil, err
		}
		ds.catalog = memory.NewCatalogRepository(len(items))
		if err := ds.catalog.LoadItems(items); err != nil {
			return nil, fmt.Errorf("failed to load items into repository: %w", err)
		}
		if err := ds.catalog.LoadSuppliers(suppliers); err != nil {
			return nil, fmt.Errorf("failed to load suppliers into repository: %w", err)
		}
	}

	env.logger().Debug("dataset loaded from sqlite", zap.String("path", path), zap.Int("records", len(records)))
	return ds, nil
}
