package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaydayDays are the days of month flagged as salary-disbursement days
var PaydayDays = map[int]bool{1: true, 5: true, 10: true, 15: true, 20: true, 25: true}

// FeatureNames is the column order the trained regressors expect
var FeatureNames = []string{
	"year",
	"month",
	"week",
	"is_holiday",
	"is_weekend",
	"is_week_holiday",
	"is_week_payday",
}

// ForecastPoint is one forecast day for an item with its derived calendar features.
// IsHoliday and IsWeekHoliday are always false until a holiday calendar is wired in.
type ForecastPoint struct {
	Date          time.Time       `json:"date"`
	ItemCode      ItemCode        `json:"item_code"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	ISOYear       int             `json:"iso_year"`
	ISOWeek       int             `json:"iso_week"`
	IsWeekend     bool            `json:"is_weekend"`
	IsHoliday     bool            `json:"is_holiday"`
	IsWeekHoliday bool            `json:"is_week_holiday"`
	IsPaydayWeek  bool            `json:"is_payday_week"`
	PredictedQty  decimal.Decimal `json:"predicted_qty"`
}

// NewForecastPoint derives the calendar features for one day
func NewForecastPoint(itemCode ItemCode, date time.Time) ForecastPoint {
	d := Day(date)
	isoYear, isoWeek := d.ISOWeek()
	weekday := d.Weekday()

	return ForecastPoint{
		Date:         d,
		ItemCode:     itemCode,
		Year:         d.Year(),
		Month:        int(d.Month()),
		ISOYear:      isoYear,
		ISOWeek:      isoWeek,
		IsWeekend:    weekday == time.Saturday || weekday == time.Sunday,
		IsPaydayWeek: PaydayDays[d.Day()],
	}
}

// Features returns the model input vector in FeatureNames order
func (p ForecastPoint) Features() []float64 {
	return []float64{
		float64(p.Year),
		float64(p.Month),
		float64(p.ISOWeek),
		boolFeature(p.IsHoliday),
		boolFeature(p.IsWeekend),
		boolFeature(p.IsWeekHoliday),
		boolFeature(p.IsPaydayWeek),
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// WeekKey identifies an ISO-8601 week
type WeekKey struct {
	ISOYear int
	ISOWeek int
}

// Less orders week keys chronologically
func (k WeekKey) Less(other WeekKey) bool {
	if k.ISOYear != other.ISOYear {
		return k.ISOYear < other.ISOYear
	}
	return k.ISOWeek < other.ISOWeek
}

// WeeklyForecast is one item's predicted demand for one ISO week.
// PriorYearActualQty is null when the reference year has no sales that week.
type WeeklyForecast struct {
	ISOYear            int                 `json:"iso_year"`
	ISOWeek            int                 `json:"iso_week"`
	ItemCode           ItemCode            `json:"item_code"`
	Description        string              `json:"description"`
	SupplierName       string              `json:"supplier_name"`
	PredictedQtySum    decimal.Decimal     `json:"predicted_qty_sum"`
	PriorYearActualQty decimal.NullDecimal `json:"prior_year_actual_qty"`
}

// Week returns the ISO week the row belongs to
func (w WeeklyForecast) Week() WeekKey {
	return WeekKey{ISOYear: w.ISOYear, ISOWeek: w.ISOWeek}
}
