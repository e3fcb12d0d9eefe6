package forecast

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vsinha/salesdash/pkg/application/services/testing"
	"github.com/vsinha/salesdash/pkg/domain/entities"
)

// weekendModel predicts weekday on Monday..Friday and weekend on Saturday and Sunday
func weekendModel(weekday, weekend float64) testhelpers.RegressorFunc {
	return func(features []float64) (float64, error) {
		if features[4] == 1 {
			return weekend, nil
		}
		return weekday, nil
	}
}

func TestBuildFeatures(t *testing.T) {
	points := BuildFeatures("1001", testhelpers.MustRange("2024-05-30", "2024-06-02"))
	require.Len(t, points, 4)

	assert.Equal(t, "2024-05-30", points[0].Date.Format(entities.DateLayout))
	assert.Equal(t, "2024-06-02", points[3].Date.Format(entities.DateLayout))
	for _, p := range points {
		assert.Equal(t, entities.ItemCode("1001"), p.ItemCode)
		assert.False(t, p.IsHoliday)
	}
	assert.True(t, points[2].IsPaydayWeek, "the 1st is a payday")
	assert.True(t, points[3].IsWeekend, "2024-06-02 is a Sunday")
}

func TestPredict_RoundsAndClips(t *testing.T) {
	points := BuildFeatures("1001", testhelpers.MustRange("2024-06-07", "2024-06-08"))

	predicted, err := Predict(weekendModel(1.23456, -0.75), points)
	require.NoError(t, err)
	require.Len(t, predicted, 2)

	assert.True(t, predicted[0].PredictedQty.Equal(decimal.RequireFromString("1.235")),
		"got %s", predicted[0].PredictedQty)
	assert.True(t, predicted[1].PredictedQty.IsZero(), "negative prediction must clip to zero")
	assert.True(t, points[0].PredictedQty.IsZero(), "input points are not modified")
}

func TestPredict_RejectsNaN(t *testing.T) {
	points := BuildFeatures("1001", testhelpers.MustRange("2024-06-07", "2024-06-07"))

	_, err := Predict(testhelpers.ConstantModel(math.NaN()), points)
	assert.ErrorIs(t, err, ErrInvalidPrediction)

	_, err = Predict(testhelpers.ConstantModel(math.Inf(1)), points)
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}

func TestAggregateWeekly_ClipsBeforeSumming(t *testing.T) {
	// Monday 2024-06-03 through Sunday 2024-06-09 is ISO week 23
	points, err := Predict(weekendModel(1, -2), BuildFeatures("1001", testhelpers.MustRange("2024-06-03", "2024-06-09")))
	require.NoError(t, err)

	rows := AggregateWeekly(points)
	require.Len(t, rows, 1)
	assert.Equal(t, 23, rows[0].ISOWeek)
	assert.True(t, rows[0].PredictedQtySum.Equal(decimal.NewFromInt(5)),
		"weekend negatives must not offset weekdays, got %s", rows[0].PredictedQtySum)
}

func TestAggregateWeekly_SplitsISOYears(t *testing.T) {
	// 2024-12-29 is in 2024-W52, 2024-12-30 starts 2025-W01
	points, err := Predict(testhelpers.ConstantModel(2), BuildFeatures("1001", testhelpers.MustRange("2024-12-28", "2025-01-01")))
	require.NoError(t, err)

	rows := AggregateWeekly(points)
	require.Len(t, rows, 2)

	assert.Equal(t, entities.WeekKey{ISOYear: 2024, ISOWeek: 52}, rows[0].Week())
	assert.True(t, rows[0].PredictedQtySum.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, entities.WeekKey{ISOYear: 2025, ISOWeek: 1}, rows[1].Week())
	assert.True(t, rows[1].PredictedQtySum.Equal(decimal.NewFromInt(6)))
}

func TestAggregateWeekly_ItemOrderThenWeek(t *testing.T) {
	period := testhelpers.MustRange("2024-06-03", "2024-06-16")
	second := BuildFeatures("2002", period)
	first := BuildFeatures("1001", period)

	// interleave out of chronological order
	var points []entities.ForecastPoint
	for i := len(second) - 1; i >= 0; i-- {
		points = append(points, second[i], first[i])
	}

	rows := AggregateWeekly(points)
	require.Len(t, rows, 4)
	assert.Equal(t, entities.ItemCode("2002"), rows[0].ItemCode)
	assert.Equal(t, 23, rows[0].ISOWeek)
	assert.Equal(t, entities.ItemCode("2002"), rows[1].ItemCode)
	assert.Equal(t, 24, rows[1].ISOWeek)
	assert.Equal(t, entities.ItemCode("1001"), rows[2].ItemCode)
	assert.Equal(t, entities.ItemCode("1001"), rows[3].ItemCode)
}

func TestReaggregate_Idempotent(t *testing.T) {
	points, err := Predict(weekendModel(1.1111, 0.5), BuildFeatures("1001", testhelpers.MustRange("2024-06-01", "2024-07-15")))
	require.NoError(t, err)

	once := AggregateWeekly(points)
	twice := Reaggregate(once)
	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].Week(), twice[i].Week())
		assert.True(t, once[i].PredictedQtySum.Equal(twice[i].PredictedQtySum))
	}

	// splitting a week into two partial rows merges back to the same total
	split := append([]entities.WeeklyForecast{}, once...)
	half := split[1]
	half.PredictedQtySum = decimal.NewFromInt(1)
	split[1].PredictedQtySum = split[1].PredictedQtySum.Sub(decimal.NewFromInt(1))
	split = append(split, half)

	merged := Reaggregate(split)
	require.Len(t, merged, len(once))
	assert.True(t, merged[1].PredictedQtySum.Equal(once[1].PredictedQtySum))
}

func TestReferenceYear(t *testing.T) {
	testCases := []struct {
		name      string
		years     []int
		start     int
		expected  int
		expectsOK bool
	}{
		{"latest before start", []int{2022, 2023, 2024}, 2025, 2024, true},
		{"skips start year", []int{2023, 2024, 2025}, 2025, 2024, true},
		{"unordered", []int{2024, 2021, 2023}, 2024, 2023, true},
		{"falls back to latest", []int{2025, 2026}, 2024, 2026, true},
		{"no sales", nil, 2025, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			year, ok := ReferenceYear(tc.years, tc.start)
			assert.Equal(t, tc.expectsOK, ok)
			assert.Equal(t, tc.expected, year)
		})
	}
}

func TestPriorYearJoin(t *testing.T) {
	window := ReferenceWindow(testhelpers.MustRange("2025-06-02", "2025-06-15"), 2024)
	assert.Equal(t, "2024-06-02..2024-06-15", window.String())

	records := []*entities.SalesRecord{
		testhelpers.MustSale("2024-06-04", "10", "Acme", "1001", 100, 3),
		testhelpers.MustSale("2024-06-05", "10", "Acme", "1001", 100, 4),
		testhelpers.MustSale("2024-06-05", "10", "Acme", "2002", 100, 9),
		testhelpers.MustSale("2024-07-01", "10", "Acme", "1001", 100, 50),
	}
	actuals := PriorYearActuals(records, window)

	rows := []entities.WeeklyForecast{
		{ISOYear: 2025, ISOWeek: 23, ItemCode: "1001"},
		{ISOYear: 2025, ISOWeek: 24, ItemCode: "1001"},
	}
	JoinPriorYear(rows, actuals)

	require.True(t, rows[0].PriorYearActualQty.Valid)
	assert.True(t, rows[0].PriorYearActualQty.Decimal.Equal(decimal.NewFromInt(7)))
	assert.False(t, rows[1].PriorYearActualQty.Valid, "missing actuals are null, not zero")
}
