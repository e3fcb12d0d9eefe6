package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/salesdash/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/salesdash/pkg/infrastructure/repositories/sqlite"
)

// ImportCommand copies the CSV extracts into the SQLite store
type ImportCommand struct {
	env Env
}

// NewImportCommand creates a new import command
func NewImportCommand(env Env) *ImportCommand {
	return &ImportCommand{env: env}
}

// Execute runs the import command
func (c *ImportCommand) Execute(ctx context.Context) error {
	files := c.env.Config.Data
	target := c.env.Config.SQLite.Path
	if target == "" {
		return fmt.Errorf("validation error: sqlite path is required")
	}

	loader := csv.NewLoader()
	records, err := loader.LoadSales(files.Sales)
	if err != nil {
		return fmt.Errorf("error loading sales: %w", err)
	}
	items, err := loader.LoadItems(files.Items)
	if err != nil {
		return fmt.Errorf("error loading items: %w", err)
	}
	suppliers, err := loader.LoadSuppliers(files.Suppliers)
	if err != nil {
		return fmt.Errorf("error loading suppliers: %w", err)
	}

	started := time.Now()
	store, err := sqlite.Open(ctx, target)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveSuppliers(ctx, suppliers); err != nil {
		return err
	}
	if err := store.SaveItems(ctx, items); err != nil {
		return err
	}
	if err := store.ReplaceSales(ctx, records); err != nil {
		return err
	}

	c.env.logger().Info("import completed",
		zap.String("sqlite", target),
		zap.Int("sales", len(records)),
		zap.Int("items", len(items)),
		zap.Int("suppliers", len(suppliers)),
		zap.Duration("elapsed", time.Since(started)),
	)
	fmt.Fprintf(c.env.output().Stdout, "✅ Imported %d sales, %d items and %d suppliers into %s\n",
		len(records), len(items), len(suppliers), target)
	return nil
}
