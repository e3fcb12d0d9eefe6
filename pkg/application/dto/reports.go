package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

// ClassCount is the number of suppliers that fell into one ABC tier
type ClassCount struct {
	Class entities.ABCClass `json:"class"`
	Count int               `json:"count"`
}

// ABCReport contains the complete output of a supplier ABC classification run
type ABCReport struct {
	RunID          string                           `json:"run_id"`
	GeneratedAt    time.Time                        `json:"generated_at"`
	Period         entities.DateRange               `json:"period"`
	PreviousPeriod entities.DateRange               `json:"previous_period"`
	TotalCurrent   decimal.Decimal                  `json:"total_current"`
	TotalPrevious  decimal.Decimal                  `json:"total_previous"`
	Suppliers      []entities.SupplierPeriodSummary `json:"suppliers"`
	Distribution   []ClassCount                     `json:"distribution"`
}

// ForecastReport contains the weekly forecast rows of one or more items
type ForecastReport struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Period      entities.DateRange `json:"period"`
	// ReferenceYear is the sales year the prior-year actuals come from; zero when none
	ReferenceYear int                       `json:"reference_year,omitempty"`
	ItemCodes     []entities.ItemCode       `json:"item_codes"`
	SkippedItems  []entities.ItemCode       `json:"skipped_items,omitempty"`
	Rows          []entities.WeeklyForecast `json:"rows"`
}

// PeriodTotal is a revenue total for one bucket (month, ISO week or day) of one year
type PeriodTotal struct {
	Year   int             `json:"year"`
	Bucket int             `json:"bucket"`
	Label  string          `json:"label"`
	Total  decimal.Decimal `json:"total"`
}

// CategoryShare is a revenue group of the category hierarchy
type CategoryShare struct {
	Path          entities.CategoryPath `json:"path"`
	Name          string                `json:"name"`
	Total         decimal.Decimal       `json:"total"`
	PctOfTotal    decimal.Decimal       `json:"pct_of_total"`
	PctOfCategory decimal.Decimal       `json:"pct_of_category"`
}

// SupplierGrowth compares a supplier's revenue against the immediately preceding window
type SupplierGrowth struct {
	SupplierID    entities.SupplierID `json:"supplier_id"`
	TotalCurrent  decimal.Decimal     `json:"total_current"`
	TotalPrevious decimal.Decimal     `json:"total_previous"`
	GrowthPct     decimal.Decimal     `json:"growth_pct"`
}

// NewSupplier is a supplier whose first recorded sale falls inside the period
type NewSupplier struct {
	SupplierID   entities.SupplierID `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	FirstSale    time.Time           `json:"first_sale"`
}

// OverviewReport contains the headline figures of the sales dashboard
type OverviewReport struct {
	RunID        string          `json:"run_id"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Year         int             `json:"year,omitempty"`
	CompareYear  int             `json:"compare_year,omitempty"`
	UniqueItems  int             `json:"unique_items"`
	Revenue      decimal.Decimal `json:"revenue"`
	TopCategory  string          `json:"top_category"`
	Monthly      []PeriodTotal   `json:"monthly"`
	Weekly       []PeriodTotal   `json:"weekly"`
	Daily        []PeriodTotal   `json:"daily,omitempty"`
	Categories   []CategoryShare `json:"categories"`
	TopLevel3    []CategoryShare `json:"top_level3"`
	BottomLevel3 []CategoryShare `json:"bottom_level3"`

	// Supplier movement, present when a period was requested
	Period       *entities.DateRange `json:"period,omitempty"`
	Growth       []SupplierGrowth    `json:"growth,omitempty"`
	NewSuppliers []NewSupplier       `json:"new_suppliers,omitempty"`

	// Items sold in the compare year, and how many of them sold again
	CompareUniqueItems int `json:"compare_unique_items,omitempty"`
	RepeatItems        int `json:"repeat_items,omitempty"`
}
