package entities

import "github.com/shopspring/decimal"

// ABCClass is the revenue-concentration tier of a supplier
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// Classes lists the tiers in display order
var Classes = []ABCClass{ClassA, ClassB, ClassC}

var (
	// ClassAThreshold is the inclusive upper cumulative percentage of class A
	ClassAThreshold = decimal.NewFromInt(70)
	// ClassBThreshold is the inclusive upper cumulative percentage of class B
	ClassBThreshold = decimal.NewFromInt(90)
)

// ClassifyCumulative maps a cumulative revenue percentage onto its tier
func ClassifyCumulative(cumulativePct decimal.Decimal) ABCClass {
	switch {
	case cumulativePct.LessThanOrEqual(ClassAThreshold):
		return ClassA
	case cumulativePct.LessThanOrEqual(ClassBThreshold):
		return ClassB
	default:
		return ClassC
	}
}

// SupplierPeriodSummary is one row of the supplier ABC ranking.
//
// GrowthPct is zero when TotalPrevious is zero. That is a display convention,
// not a growth signal: a supplier new in the period reads as flat.
type SupplierPeriodSummary struct {
	Rank            int             `json:"rank"`
	SupplierID      SupplierID      `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	TotalCurrent    decimal.Decimal `json:"total_current"`
	TotalPrevious   decimal.Decimal `json:"total_previous"`
	UniqueItemCount int             `json:"unique_item_count"`
	GrowthPct       decimal.Decimal `json:"growth_pct"`
	PctOfTotal      decimal.Decimal `json:"pct_of_total"`
	CumulativePct   decimal.Decimal `json:"cumulative_pct"`
	Class           ABCClass        `json:"class"`
}
