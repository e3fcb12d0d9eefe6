// Package overview computes the headline figures of the sales dashboard:
// revenue cards, time series and category shares.
package overview

import (
	"fmt"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/application/dto"
	"github.com/vsinha/salesdash/pkg/application/services/abc"
	"github.com/vsinha/salesdash/pkg/domain/entities"
)

// AllYears selects every year of the sales history
const AllYears = 0

var hundred = decimal.NewFromInt(100)

// Summary holds the dashboard cards
type Summary struct {
	UniqueItems int
	Revenue     decimal.Decimal
	TopCategory string
	// Items holds the ids of the items counted in UniqueItems
	Items *roaring.Bitmap
}

// ItemIndex interns item codes so item sets from different summaries can be
// intersected. Share one index across every summary that is compared.
type ItemIndex map[entities.ItemCode]uint32

func (idx ItemIndex) id(code entities.ItemCode) uint32 {
	if id, ok := idx[code]; ok {
		return id
	}
	id := uint32(len(idx))
	idx[code] = id
	return id
}

// FilterYear returns the records sold in year, or all records for AllYears
func FilterYear(records []*entities.SalesRecord, year int) []*entities.SalesRecord {
	if year == AllYears {
		return records
	}
	filtered := make([]*entities.SalesRecord, 0, len(records)/2)
	for _, r := range records {
		if r.Year() == year {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Summarize counts the items with positive net quantity, sums revenue and
// picks the top-level category with the highest revenue
func Summarize(records []*entities.SalesRecord, year int) Summary {
	return SummarizeWith(ItemIndex{}, records, year)
}

// SummarizeWith is Summarize with item ids drawn from index
func SummarizeWith(index ItemIndex, records []*entities.SalesRecord, year int) Summary {
	records = FilterYear(records, year)

	quantities := make(map[uint32]decimal.Decimal)
	categories := newGroups()
	revenue := decimal.Zero

	for _, r := range records {
		id := index.id(r.ItemCode)
		quantities[id] = quantities[id].Add(r.Quantity)
		revenue = revenue.Add(r.TotalAmount)
		categories.add(r.Category.Category, r.TotalAmount)
	}

	sold := roaring.New()
	for id, qty := range quantities {
		if qty.IsPositive() {
			sold.Add(id)
		}
	}

	summary := Summary{
		UniqueItems: int(sold.GetCardinality()),
		Revenue:     revenue,
		Items:       sold,
	}
	if top, ok := categories.largest(); ok {
		summary.TopCategory = top
	}
	return summary
}

// RepeatItems counts the items sold in both summaries. Both must come from
// the same ItemIndex.
func RepeatItems(current, previous Summary) int {
	if current.Items == nil || previous.Items == nil {
		return 0
	}
	return int(roaring.And(current.Items, previous.Items).GetCardinality())
}

// Bucketing of the time series. The returned year is the one the bucket is
// filed under when filtering and comparing.
type bucketFunc func(time.Time) (year, bucket int, label string)

func byMonth(t time.Time) (int, int, string) {
	return t.Year(), int(t.Month()), t.Format("2006-01")
}

func byISOWeek(t time.Time) (int, int, string) {
	year, week := t.ISOWeek()
	return year, week, fmt.Sprintf("%d-W%02d", year, week)
}

func byDayOfMonth(t time.Time) (int, int, string) {
	return t.Year(), t.Day(), t.Format(entities.DateLayout)
}

// MonthlySales sums revenue per calendar month of year. With compare set and
// a specific year, the previous year's series is appended.
func MonthlySales(records []*entities.SalesRecord, year int, compare bool) []dto.PeriodTotal {
	return series(records, year, compare, nil, byMonth)
}

// WeeklySales sums revenue per ISO week. Weeks belong to their ISO year, so
// 2024-12-30 is reported as 2025-W01 and selected with year 2025.
func WeeklySales(records []*entities.SalesRecord, year int, compare bool) []dto.PeriodTotal {
	return series(records, year, compare, nil, byISOWeek)
}

// DailySales sums revenue per day of one calendar month
func DailySales(records []*entities.SalesRecord, year int, month time.Month, compare bool) []dto.PeriodTotal {
	inMonth := func(r *entities.SalesRecord) bool { return r.Date.Month() == month }
	return series(records, year, compare, inMonth, byDayOfMonth)
}

func series(
	records []*entities.SalesRecord,
	year int,
	compare bool,
	keep func(*entities.SalesRecord) bool,
	bucketOf bucketFunc,
) []dto.PeriodTotal {
	years := map[int]bool{year: true}
	if compare && year != AllYears {
		years[year-1] = true
	}

	type key struct{ year, bucket int }
	index := make(map[key]int)
	var totals []dto.PeriodTotal

	for _, r := range records {
		if keep != nil && !keep(r) {
			continue
		}
		bucketYear, bucket, label := bucketOf(r.Date)
		if year != AllYears && !years[bucketYear] {
			continue
		}
		k := key{year: bucketYear, bucket: bucket}
		if i, ok := index[k]; ok {
			totals[i].Total = totals[i].Total.Add(r.TotalAmount)
			continue
		}
		index[k] = len(totals)
		totals = append(totals, dto.PeriodTotal{
			Year:   bucketYear,
			Bucket: bucket,
			Label:  label,
			Total:  decimal.Zero.Add(r.TotalAmount),
		})
	}

	// the selected year leads, the comparison year follows
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			if year != AllYears {
				return totals[i].Year == year
			}
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Bucket < totals[j].Bucket
	})
	return totals
}

// CategoryBreakdown groups revenue by the full five-level category path.
// PctOfCategory is the share within the top-level category.
func CategoryBreakdown(records []*entities.SalesRecord, year int) []dto.CategoryShare {
	records = FilterYear(records, year)

	index := make(map[entities.CategoryPath]int)
	var shares []dto.CategoryShare
	topTotals := make(map[string]decimal.Decimal)
	grandTotal := decimal.Zero

	for _, r := range records {
		grandTotal = grandTotal.Add(r.TotalAmount)
		topTotals[r.Category.Category] = topTotals[r.Category.Category].Add(r.TotalAmount)

		if i, ok := index[r.Category]; ok {
			shares[i].Total = shares[i].Total.Add(r.TotalAmount)
			continue
		}
		index[r.Category] = len(shares)
		shares = append(shares, dto.CategoryShare{
			Path:  r.Category,
			Name:  leafName(r.Category),
			Total: decimal.Zero.Add(r.TotalAmount),
		})
	}

	for i := range shares {
		s := &shares[i]
		s.PctOfTotal = percentOf(s.Total, grandTotal)
		s.PctOfCategory = percentOf(s.Total, topTotals[s.Path.Category])
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.GreaterThan(shares[j].Total)
	})
	return shares
}

// TopCategories returns the n level-3 categories with the highest revenue,
// or the lowest when largest is false. Ties keep first-appearance order.
func TopCategories(records []*entities.SalesRecord, year, n int, largest bool) []dto.CategoryShare {
	records = FilterYear(records, year)

	groups := newGroups()
	grandTotal := decimal.Zero
	for _, r := range records {
		grandTotal = grandTotal.Add(r.TotalAmount)
		groups.add(r.Category.Level3, r.TotalAmount)
	}

	shares := make([]dto.CategoryShare, 0, len(groups.order))
	for _, name := range groups.order {
		total := groups.totals[name]
		shares = append(shares, dto.CategoryShare{
			Path:       entities.CategoryPath{Level3: name},
			Name:       name,
			Total:      total,
			PctOfTotal: percentOf(total, grandTotal),
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		if largest {
			return shares[i].Total.GreaterThan(shares[j].Total)
		}
		return shares[i].Total.LessThan(shares[j].Total)
	})
	if n >= 0 && len(shares) > n {
		shares = shares[:n]
	}
	return shares
}

// PeriodGrowth compares each supplier's revenue in period against the
// immediately preceding window of equal length. Suppliers without sales in
// period are not listed.
func PeriodGrowth(records []*entities.SalesRecord, period entities.DateRange) ([]dto.SupplierGrowth, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("period growth: %w", err)
	}
	previous := period.Preceding()

	index := make(map[entities.SupplierID]int)
	var growth []dto.SupplierGrowth
	previousTotals := make(map[entities.SupplierID]decimal.Decimal)

	for _, r := range records {
		switch {
		case period.Contains(r.Date):
			i, ok := index[r.SupplierID]
			if !ok {
				i = len(growth)
				index[r.SupplierID] = i
				growth = append(growth, dto.SupplierGrowth{SupplierID: r.SupplierID, TotalCurrent: decimal.Zero})
			}
			growth[i].TotalCurrent = growth[i].TotalCurrent.Add(r.TotalAmount)
		case previous.Contains(r.Date):
			previousTotals[r.SupplierID] = previousTotals[r.SupplierID].Add(r.TotalAmount)
		}
	}

	for i := range growth {
		g := &growth[i]
		g.TotalPrevious = decimal.Zero.Add(previousTotals[g.SupplierID])
		g.GrowthPct = abc.GrowthPct(g.TotalCurrent, g.TotalPrevious)
	}
	return growth, nil
}

// NewSuppliers lists the suppliers whose first recorded sale falls inside
// period, ordered by that first sale
func NewSuppliers(records []*entities.SalesRecord, period entities.DateRange) ([]dto.NewSupplier, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("new suppliers: %w", err)
	}

	first := make(map[entities.SupplierID]*dto.NewSupplier)
	var order []entities.SupplierID
	for _, r := range records {
		s, ok := first[r.SupplierID]
		if !ok {
			first[r.SupplierID] = &dto.NewSupplier{SupplierID: r.SupplierID, SupplierName: r.SupplierName, FirstSale: r.Date}
			order = append(order, r.SupplierID)
			continue
		}
		if r.Date.Before(s.FirstSale) {
			s.FirstSale = r.Date
			s.SupplierName = r.SupplierName
		}
	}

	var suppliers []dto.NewSupplier
	for _, id := range order {
		if s := first[id]; period.Contains(s.FirstSale) {
			suppliers = append(suppliers, *s)
		}
	}
	sort.SliceStable(suppliers, func(i, j int) bool {
		return suppliers[i].FirstSale.Before(suppliers[j].FirstSale)
	})
	return suppliers, nil
}

// groups sums revenue per name in first-appearance order
type groups struct {
	order  []string
	totals map[string]decimal.Decimal
}

func newGroups() *groups {
	return &groups{totals: make(map[string]decimal.Decimal)}
}

func (g *groups) add(name string, amount decimal.Decimal) {
	if _, ok := g.totals[name]; !ok {
		g.order = append(g.order, name)
	}
	g.totals[name] = g.totals[name].Add(amount)
}

func (g *groups) largest() (string, bool) {
	best, found := "", false
	for _, name := range g.order {
		if !found || g.totals[name].GreaterThan(g.totals[best]) {
			best, found = name, true
		}
	}
	return best, found
}

func leafName(path entities.CategoryPath) string {
	levels := path.Levels()
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i] != "" {
			return levels[i]
		}
	}
	return ""
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}
