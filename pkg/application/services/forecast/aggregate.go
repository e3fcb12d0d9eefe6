package forecast

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

type itemWeek struct {
	code entities.ItemCode
	week entities.WeekKey
}

// AggregateWeekly sums daily predictions per item and ISO week. Rows come
// out grouped by item in first-appearance order, then chronologically.
func AggregateWeekly(points []entities.ForecastPoint) []entities.WeeklyForecast {
	rows := make([]entities.WeeklyForecast, 0, len(points)/7+1)
	index := make(map[itemWeek]int)

	for _, p := range points {
		key := itemWeek{code: p.ItemCode, week: entities.WeekKey{ISOYear: p.ISOYear, ISOWeek: p.ISOWeek}}
		if i, ok := index[key]; ok {
			rows[i].PredictedQtySum = rows[i].PredictedQtySum.Add(p.PredictedQty)
			continue
		}
		index[key] = len(rows)
		rows = append(rows, entities.WeeklyForecast{
			ISOYear:         p.ISOYear,
			ISOWeek:         p.ISOWeek,
			ItemCode:        p.ItemCode,
			PredictedQtySum: decimal.Zero.Add(p.PredictedQty),
		})
	}

	sortRows(rows)
	return rows
}

// Reaggregate merges rows sharing an item and ISO week. Applied to the output
// of AggregateWeekly it returns the same rows.
func Reaggregate(rows []entities.WeeklyForecast) []entities.WeeklyForecast {
	merged := make([]entities.WeeklyForecast, 0, len(rows))
	index := make(map[itemWeek]int)

	for _, row := range rows {
		key := itemWeek{code: row.ItemCode, week: row.Week()}
		if i, ok := index[key]; ok {
			merged[i].PredictedQtySum = merged[i].PredictedQtySum.Add(row.PredictedQtySum)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, row)
	}

	sortRows(merged)
	return merged
}

func sortRows(rows []entities.WeeklyForecast) {
	order := make(map[entities.ItemCode]int)
	for _, row := range rows {
		if _, ok := order[row.ItemCode]; !ok {
			order[row.ItemCode] = len(order)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := order[rows[i].ItemCode], order[rows[j].ItemCode]
		if oi != oj {
			return oi < oj
		}
		return rows[i].Week().Less(rows[j].Week())
	})
}

// ReferenceYear picks the sales year prior-year actuals are read from: the
// latest year with sales before startYear, or the latest year with sales when
// none precedes it. ok is false when there are no sales at all.
func ReferenceYear(years []int, startYear int) (year int, ok bool) {
	latest, found := 0, false
	before, foundBefore := 0, false
	for _, y := range years {
		if !found || y > latest {
			latest, found = y, true
		}
		if y < startYear && (!foundBefore || y > before) {
			before, foundBefore = y, true
		}
	}
	if foundBefore {
		return before, true
	}
	return latest, found
}

// ReferenceWindow re-expresses period in the reference year
func ReferenceWindow(period entities.DateRange, referenceYear int) entities.DateRange {
	return period.ShiftYears(referenceYear - period.Start.Year())
}

// ActualKey identifies an item's sales in one ISO week number, whatever the year
type ActualKey struct {
	ItemCode entities.ItemCode
	ISOWeek  int
}

// Actuals holds sold quantities of the reference window
type Actuals map[ActualKey]decimal.Decimal

// PriorYearActuals sums sold quantity per item and ISO week number over the
// records falling inside window
func PriorYearActuals(records []*entities.SalesRecord, window entities.DateRange) Actuals {
	actuals := make(Actuals)
	for _, r := range records {
		if !window.Contains(r.Date) {
			continue
		}
		_, week := r.Date.ISOWeek()
		key := ActualKey{ItemCode: r.ItemCode, ISOWeek: week}
		actuals[key] = actuals[key].Add(r.Quantity)
	}
	return actuals
}

// JoinPriorYear sets PriorYearActualQty on every row by item and ISO week
// number. Weeks without actuals stay null.
func JoinPriorYear(rows []entities.WeeklyForecast, actuals Actuals) {
	for i := range rows {
		qty, ok := actuals[ActualKey{ItemCode: rows[i].ItemCode, ISOWeek: rows[i].ISOWeek}]
		if ok {
			rows[i].PriorYearActualQty = decimal.NewNullDecimal(qty)
		} else {
			rows[i].PriorYearActualQty = decimal.NullDecimal{}
		}
	}
}
