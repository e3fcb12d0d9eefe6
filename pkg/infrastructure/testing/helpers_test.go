package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRetailScenario_Deterministic(t *testing.T) {
	cfg := ScenarioConfig{
		Suppliers:        4,
		ItemsPerSupplier: 3,
		Start:            time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:             30,
		SalesPerDay:      5,
		Seed:             7,
	}

	sales, catalog := BuildRetailScenario(cfg)
	again, _ := BuildRetailScenario(cfg)

	records, err := sales.GetAllSales()
	require.NoError(t, err)
	assert.Len(t, records, 150)

	other, err := again.GetAllSales()
	require.NoError(t, err)
	assert.Equal(t, records, other)

	items, err := catalog.GetItemsBySupplier("101")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	years, err := sales.GetYears()
	require.NoError(t, err)
	assert.Equal(t, []int{2023}, years)
}
