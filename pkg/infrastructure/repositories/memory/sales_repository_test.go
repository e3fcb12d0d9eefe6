package memory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

func sale(day string, code entities.ItemCode, amount int64) *entities.SalesRecord {
	d, err := time.Parse(entities.DateLayout, day)
	if err != nil {
		panic(err)
	}
	return &entities.SalesRecord{
		Date:        d,
		ItemCode:    code,
		SupplierID:  "10",
		TotalAmount: decimal.NewFromInt(amount),
		Quantity:    decimal.NewFromInt(1),
	}
}

func TestSalesRepository_GetSalesInRange(t *testing.T) {
	repo := NewSalesRepository(5)
	require.NoError(t, repo.LoadSales([]*entities.SalesRecord{
		sale("2024-01-10", "A", 1),
		sale("2023-12-31", "B", 2),
		sale("2024-01-01", "C", 3),
		sale("2024-01-31", "D", 4),
		sale("2024-02-01", "E", 5),
	}))

	period, err := entities.ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	records, err := repo.GetSalesInRange(period)
	require.NoError(t, err)

	var codes []entities.ItemCode
	for _, r := range records {
		codes = append(codes, r.ItemCode)
	}
	assert.Equal(t, []entities.ItemCode{"C", "A", "D"}, codes)
}

func TestSalesRepository_EmptyRange(t *testing.T) {
	repo := NewSalesRepository(1)
	require.NoError(t, repo.LoadSales([]*entities.SalesRecord{sale("2024-01-10", "A", 1)}))

	period, err := entities.ParseDateRange("2025-01-01", "2025-01-31")
	require.NoError(t, err)

	records, err := repo.GetSalesInRange(period)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSalesRepository_GetYears(t *testing.T) {
	repo := NewSalesRepository(3)
	require.NoError(t, repo.LoadSales([]*entities.SalesRecord{
		sale("2024-05-01", "A", 1),
		sale("2023-05-01", "B", 1),
		sale("2024-06-01", "C", 1),
	}))

	years, err := repo.GetYears()
	require.NoError(t, err)
	assert.Equal(t, []int{2023, 2024}, years)

	all, err := repo.GetAllSales()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, entities.ItemCode("B"), all[0].ItemCode)
}
