package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/infrastructure/config"
)

const fixtureSales = `date,codigo,proveedor_id,proveedor,categoria,subcategoria,cat_nivel3,cat_nivel4,cat_nivel5,total,qty
2024-03-05,2001,20,Globex,Limpieza,Hogar,Detergente,,,200,1
2024-06-04,1001,10,Acme,Almacen,Secos,Arroz,Largo,1kg,5000,4
2025-03-03,1001,10,Acme,Almacen,Secos,Arroz,Largo,1kg,500,1
2025-03-04,2001,20,Globex,Limpieza,Hogar,Detergente,,,300,2
`

const fixtureItems = `codigo,descripcion,proveedor_id
1001,Arroz 1kg,10
1002,Fideos 500g,10
2001,Detergente 1l,20
`

const fixtureSuppliers = `proveedor_id,name
10,Acme
20,Globex
`

func newTestEnv(t *testing.T, format string) (Env, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	modelsDir := filepath.Join(dir, "modelos")
	require.NoError(t, os.MkdirAll(modelsDir, 0755))
	model, err := os.ReadFile(filepath.Join("..", "..", "..", "infrastructure", "models", "xgboost", "testdata", "modelo_1001.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(modelsDir, "modelo_1001.json"), model, 0644))

	cfg := &config.Config{
		Source: "csv",
		Data: config.DataConfig{
			Sales:     write("sales.csv", fixtureSales),
			Items:     write("items.csv", fixtureItems),
			Suppliers: write("proveedor.csv", fixtureSuppliers),
		},
		SQLite: config.SQLiteConfig{Path: filepath.Join(dir, "salesdash.db")},
		Models: config.ModelsConfig{Dir: modelsDir, Pattern: "modelo_%s.json", Concurrency: 2},
		Output: config.OutputConfig{Format: format},
	}
	require.NoError(t, cfg.Validate())

	var stdout bytes.Buffer
	return Env{Config: cfg, Stdout: &stdout}, &stdout
}

type abcJSON struct {
	Suppliers []struct {
		SupplierName string `json:"supplier_name"`
		GrowthPct    string `json:"growth_pct"`
		Class        string `json:"class"`
	} `json:"suppliers"`
}

func TestABCCommand(t *testing.T) {
	env, stdout := newTestEnv(t, "json")

	require.NoError(t, NewABCCommand(env, "2025-03-01", "2025-03-31").Execute(context.Background()))

	var report abcJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	require.Len(t, report.Suppliers, 2)
	assert.Equal(t, "Acme", report.Suppliers[0].SupplierName)
	assert.Equal(t, "A", report.Suppliers[0].Class)
	assert.Equal(t, "Globex", report.Suppliers[1].SupplierName)
	assert.Equal(t, "50", report.Suppliers[1].GrowthPct)
}

func TestABCCommand_InvalidDates(t *testing.T) {
	env, _ := newTestEnv(t, "text")

	err := NewABCCommand(env, "", "2025-03-31").Execute(context.Background())
	assert.ErrorIs(t, err, entities.ErrMissingDate)

	err = NewABCCommand(env, "2025-04-01", "2025-03-31").Execute(context.Background())
	assert.ErrorIs(t, err, entities.ErrInvalidDateRange)
}

type forecastJSON struct {
	ReferenceYear int      `json:"reference_year"`
	SkippedItems  []string `json:"skipped_items"`
	Rows          []struct {
		ItemCode           string  `json:"item_code"`
		Description        string  `json:"description"`
		SupplierName       string  `json:"supplier_name"`
		ISOWeek            int     `json:"iso_week"`
		PredictedQtySum    string  `json:"predicted_qty_sum"`
		PriorYearActualQty *string `json:"prior_year_actual_qty"`
	} `json:"rows"`
}

func TestForecastCommand_Item(t *testing.T) {
	env, stdout := newTestEnv(t, "json")

	// Monday 2025-06-02 through Sunday 2025-06-08
	require.NoError(t, NewForecastCommand(env, "1001", "", "2025-06-02", "2025-06-08").Execute(context.Background()))

	var report forecastJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, 2024, report.ReferenceYear)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "Arroz 1kg", row.Description)
	assert.Equal(t, "Acme", row.SupplierName)
	assert.Equal(t, 23, row.ISOWeek)
	assert.Equal(t, "12.75", row.PredictedQtySum)
	require.NotNil(t, row.PriorYearActualQty)
	assert.Equal(t, "4", *row.PriorYearActualQty)
}

func TestForecastCommand_Supplier(t *testing.T) {
	env, stdout := newTestEnv(t, "json")

	require.NoError(t, NewForecastCommand(env, "", "10", "2025-06-02", "2025-06-08").Execute(context.Background()))

	var report forecastJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, []string{"1002"}, report.SkippedItems)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "1001", report.Rows[0].ItemCode)

	err := NewForecastCommand(env, "", "20", "2025-06-02", "2025-06-08").Execute(context.Background())
	assert.ErrorIs(t, err, entities.ErrNoForecastableItems)
}

func TestForecastCommand_Validation(t *testing.T) {
	env, _ := newTestEnv(t, "text")

	err := NewForecastCommand(env, "1001", "10", "2025-06-02", "2025-06-08").Execute(context.Background())
	assert.ErrorContains(t, err, "exactly one of --item or --supplier")

	err = NewForecastCommand(env, "2001", "", "2025-06-02", "2025-06-08").Execute(context.Background())
	assert.ErrorIs(t, err, entities.ErrModelNotFound)
}

func TestOverviewCommand(t *testing.T) {
	env, stdout := newTestEnv(t, "text")

	err := NewOverviewCommand(env, OverviewOptions{Compare: true, Start: "2025-03-01", End: "2025-03-31"}).
		Execute(context.Background())
	require.NoError(t, err)

	text := stdout.String()
	assert.Contains(t, text, "2025 vs 2024")
	assert.Contains(t, text, "Revenue: ₲ 800")
	assert.Contains(t, text, "Top Category: Almacen")
	assert.Contains(t, text, "New Suppliers: 0")
}

func TestImportThenReadFromSQLite(t *testing.T) {
	env, stdout := newTestEnv(t, "json")
	ctx := context.Background()

	require.NoError(t, NewImportCommand(env).Execute(ctx))
	assert.Contains(t, stdout.String(), "Imported 4 sales, 3 items and 2 suppliers")

	// importing twice replaces the sales table
	require.NoError(t, NewImportCommand(env).Execute(ctx))

	env.Config.Source = "sqlite"
	stdout.Reset()
	require.NoError(t, NewABCCommand(env, "2025-03-01", "2025-03-31").Execute(ctx))

	var report abcJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	require.Len(t, report.Suppliers, 2)
	assert.Equal(t, "50", report.Suppliers[1].GrowthPct)

	stdout.Reset()
	require.NoError(t, NewForecastCommand(env, "1001", "", "2025-06-02", "2025-06-08").Execute(ctx))
	var forecast forecastJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &forecast))
	require.Len(t, forecast.Rows, 1)
	assert.Equal(t, "Acme", forecast.Rows[0].SupplierName)
}

func TestSQLiteSourceRequiresImport(t *testing.T) {
	env, _ := newTestEnv(t, "text")
	env.Config.Source = "sqlite"

	err := NewABCCommand(env, "2025-03-01", "2025-03-31").Execute(context.Background())
	assert.ErrorContains(t, err, "run the import command first")
}
