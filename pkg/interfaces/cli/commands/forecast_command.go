package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/salesdash/pkg/application/dto"
	"github.com/vsinha/salesdash/pkg/application/services/forecast"
	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/infrastructure/models/xgboost"
	"github.com/vsinha/salesdash/pkg/interfaces/cli/output"
)

// ForecastCommand forecasts weekly demand for one item or a whole supplier
type ForecastCommand struct {
	env      Env
	Item     string
	Supplier string
	Start    string
	End      string
}

// NewForecastCommand creates a new forecast command
func NewForecastCommand(env Env, item, supplier, start, end string) *ForecastCommand {
	return &ForecastCommand{env: env, Item: item, Supplier: supplier, Start: start, End: end}
}

// Execute runs the forecast command
func (c *ForecastCommand) Execute(ctx context.Context) error {
	period, err := entities.ParseDateRange(c.Start, c.End)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if (c.Item == "") == (c.Supplier == "") {
		return fmt.Errorf("validation error: specify exactly one of --item or --supplier")
	}

	ds, err := loadDataset(ctx, c.env, true)
	if err != nil {
		return err
	}

	models := c.env.Config.Models
	service := forecast.NewServiceWithConfig(
		forecast.Config{Concurrency: models.Concurrency},
		ds.catalog,
		ds.sales,
		xgboost.NewStore(models.Dir, models.Pattern),
		c.env.logger(),
	)

	var report *dto.ForecastReport
	if c.Item != "" {
		report, err = service.ForecastItem(ctx, entities.ItemCode(c.Item), period)
	} else {
		report, err = service.ForecastSupplier(ctx, entities.SupplierID(c.Supplier), period)
	}
	if err != nil {
		return fmt.Errorf("error running forecast: %w", err)
	}

	if err := output.WriteForecast(report, c.env.output()); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}
