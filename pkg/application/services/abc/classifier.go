// Package abc ranks suppliers by revenue concentration.
package abc

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

type supplierTotals struct {
	name  string
	total decimal.Decimal
	items *roaring.Bitmap
}

// itemIndex interns item codes so distinct counts can use bitmaps
type itemIndex map[entities.ItemCode]uint32

func (idx itemIndex) id(code entities.ItemCode) uint32 {
	if id, ok := idx[code]; ok {
		return id
	}
	id := uint32(len(idx))
	idx[code] = id
	return id
}

// Classify ranks the suppliers selling inside period and splits them into
// A/B/C tiers by cumulative revenue share. The comparison window is the same
// calendar dates one year earlier. Suppliers that only sold in the comparison
// window are not listed.
func Classify(records []*entities.SalesRecord, period entities.DateRange) ([]entities.SupplierPeriodSummary, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("abc classification: %w", err)
	}
	previous := period.ShiftYears(-1)

	// 1. Group both windows by supplier. A window longer than a year overlaps
	// its comparison window, so a record may count in both.
	var order []entities.SupplierID
	current := make(map[entities.SupplierID]*supplierTotals)
	previousTotals := make(map[entities.SupplierID]decimal.Decimal)
	items := make(itemIndex)

	for _, r := range records {
		if period.Contains(r.Date) {
			t, ok := current[r.SupplierID]
			if !ok {
				t = &supplierTotals{name: r.SupplierName, items: roaring.New()}
				current[r.SupplierID] = t
				order = append(order, r.SupplierID)
			}
			t.total = t.total.Add(r.TotalAmount)
			t.items.Add(items.id(r.ItemCode))
		}
		if previous.Contains(r.Date) {
			previousTotals[r.SupplierID] = previousTotals[r.SupplierID].Add(r.TotalAmount)
		}
	}

	// 2. Left join onto the comparison window and compute growth
	summaries := make([]entities.SupplierPeriodSummary, 0, len(order))
	for _, id := range order {
		t := current[id]
		prev := previousTotals[id]
		summaries = append(summaries, entities.SupplierPeriodSummary{
			SupplierID:      id,
			SupplierName:    t.name,
			TotalCurrent:    t.total,
			TotalPrevious:   prev,
			UniqueItemCount: int(t.items.GetCardinality()),
			GrowthPct:       GrowthPct(t.total, prev),
		})
	}

	// 3. Rank by current revenue; ties keep first-appearance order
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalCurrent.GreaterThan(summaries[j].TotalCurrent)
	})

	// 4. Shares and tiers
	grandTotal := decimal.Zero
	for _, s := range summaries {
		grandTotal = grandTotal.Add(s.TotalCurrent)
	}

	running := decimal.Zero
	for i := range summaries {
		s := &summaries[i]
		s.Rank = i + 1
		running = running.Add(s.TotalCurrent)
		if !grandTotal.IsZero() {
			s.PctOfTotal = s.TotalCurrent.Mul(hundred).Div(grandTotal)
			s.CumulativePct = running.Mul(hundred).Div(grandTotal)
		}
		s.Class = entities.ClassifyCumulative(s.CumulativePct)
	}

	return summaries, nil
}

// GrowthPct returns the percentage change from previous to current, or zero
// when previous is zero.
func GrowthPct(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Distribution counts suppliers per tier in A, B, C order
func Distribution(summaries []entities.SupplierPeriodSummary) map[entities.ABCClass]int {
	counts := make(map[entities.ABCClass]int, len(entities.Classes))
	for _, c := range entities.Classes {
		counts[c] = 0
	}
	for _, s := range summaries {
		counts[s.Class]++
	}
	return counts
}
