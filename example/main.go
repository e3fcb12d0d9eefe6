package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/salesdash/pkg/application/services/abc"
	"github.com/vsinha/salesdash/pkg/application/services/forecast"
	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
	scenario "github.com/vsinha/salesdash/pkg/infrastructure/testing"
	"github.com/vsinha/salesdash/pkg/interfaces/cli/output"
)

// weekendBoost stands in for a trained model: weekends sell twice as much
type weekendBoost struct{}

func (weekendBoost) Predict(features []float64) (float64, error) {
	if features[4] == 1 {
		return 8, nil
	}
	return 4, nil
}

type staticModels map[entities.ItemCode]repositories.Regressor

func (m staticModels) FindModel(_ context.Context, code entities.ItemCode) (repositories.Regressor, error) {
	if model, ok := m[code]; ok {
		return model, nil
	}
	return nil, fmt.Errorf("%w for item %s", entities.ErrModelNotFound, code)
}

func main() {
	ctx := context.Background()

	// Two years of synthetic sales for a small store
	sales, catalog := scenario.BuildRetailScenario(scenario.ScenarioConfig{
		Suppliers:        8,
		ItemsPerSupplier: 5,
		Start:            time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:             730,
		SalesPerDay:      60,
		Seed:             2024,
	})
	stdout := output.Config{Format: "text", Stdout: os.Stdout}

	fmt.Println("🏪 Classifying suppliers for the first half of 2024...")
	period, err := entities.ParseDateRange("2024-01-01", "2024-06-30")
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}

	report, err := abc.NewService(sales, nil).Classify(ctx, period)
	if err != nil {
		fmt.Printf("❌ ABC classification failed: %v\n", err)
		return
	}
	if err := output.WriteABC(report, stdout); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Println()

	// Only the first two items of the leading supplier have a model
	items, _ := catalog.GetItemsBySupplier("100")
	models := staticModels{}
	for _, item := range items[:2] {
		models[item.Code] = weekendBoost{}
	}

	fmt.Println("📈 Forecasting January 2025 for supplier 100...")
	horizon, _ := entities.ParseDateRange("2025-01-06", "2025-01-26")
	forecastReport, err := forecast.NewService(catalog, sales, models, nil).ForecastSupplier(ctx, "100", horizon)
	if err != nil {
		fmt.Printf("❌ Forecast failed: %v\n", err)
		return
	}
	if err := output.WriteForecast(forecastReport, stdout); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("\nSkipped items without a model: %v\n", forecastReport.SkippedItems)
}
