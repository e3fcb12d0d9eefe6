package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

// Guarani renders an amount as whole guaranies with dot thousand separators, e.g. ₲ 1.234.567
func Guarani(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	digits := rounded.Abs().String()

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if rounded.IsNegative() {
		return "₲ -" + b.String()
	}
	return "₲ " + b.String()
}

// Percent renders a percentage with two decimals
func Percent(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// Growth renders a growth percentage; zero growth, which includes suppliers
// without a comparison total, shows as a dash
func Growth(pct decimal.Decimal) string {
	if pct.IsZero() {
		return "-"
	}
	return Percent(pct)
}

// Quantity renders a forecast quantity with three decimals
func Quantity(qty decimal.Decimal) string {
	return qty.StringFixed(3)
}

// NullQuantity renders a nullable quantity; null renders empty
func NullQuantity(qty decimal.NullDecimal) string {
	if !qty.Valid {
		return ""
	}
	return Quantity(qty.Decimal)
}

// Week renders an ISO week as 2025-W07
func Week(row entities.WeeklyForecast) string {
	return fmt.Sprintf("%d-W%02d", row.ISOYear, row.ISOWeek)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
