package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vsinha/salesdash/pkg/application/dto"
	"github.com/vsinha/salesdash/pkg/domain/entities"
)

// textWriter keeps the first write error so table rendering stays linear
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) rule(widths ...int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	t.printf("%s\n", strings.Join(parts, " "))
}

func abcText(w io.Writer, report *dto.ABCReport) error {
	t := &textWriter{w: w}

	t.printf("📊 Supplier ABC Classification\n")
	t.printf("==============================\n\n")
	t.printf("Period: %s (compared with %s)\n", report.Period, report.PreviousPeriod)
	t.printf("Suppliers: %d\n", len(report.Suppliers))
	t.printf("Total Sales: %s\n", Guarani(report.TotalCurrent))
	t.printf("Previous Sales: %s\n\n", Guarani(report.TotalPrevious))

	if len(report.Suppliers) == 0 {
		t.printf("No sales in the selected period.\n")
		return t.err
	}

	t.printf("%-5s %-30s %-18s %-18s %-6s %-10s %-9s %-9s %-5s\n",
		"Rank", "Supplier", "Current", "Previous", "Items", "Growth", "% Sales", "% Cum.", "Class")
	t.rule(5, 30, 18, 18, 6, 10, 9, 9, 5)
	for _, s := range report.Suppliers {
		t.printf("%-5d %-30s %-18s %-18s %-6d %-10s %-9s %-9s %-5s\n",
			s.Rank,
			truncate(s.SupplierName, 30),
			Guarani(s.TotalCurrent),
			Guarani(s.TotalPrevious),
			s.UniqueItemCount,
			Growth(s.GrowthPct),
			Percent(s.PctOfTotal),
			Percent(s.CumulativePct),
			s.Class)
	}

	t.printf("\n🏷️  Distribution:\n")
	for _, c := range report.Distribution {
		t.printf("  %s: %d\n", c.Class, c.Count)
	}
	return t.err
}

func forecastText(w io.Writer, report *dto.ForecastReport) error {
	t := &textWriter{w: w}

	t.printf("📈 Weekly Demand Forecast\n")
	t.printf("=========================\n\n")
	t.printf("Period: %s\n", report.Period)
	t.printf("Items: %d\n", len(report.ItemCodes))
	if len(report.SkippedItems) > 0 {
		t.printf("Skipped (no model): %d\n", len(report.SkippedItems))
	}
	if report.ReferenceYear != 0 {
		t.printf("Last Year Column: %d\n", report.ReferenceYear)
	}
	t.printf("\n")

	t.printf("%-12s %-32s %-24s %-9s %-12s %-12s\n",
		"Code", "Description", "Supplier", "Week", "Forecast", "Last Year")
	t.rule(12, 32, 24, 9, 12, 12)
	for _, r := range report.Rows {
		t.printf("%-12s %-32s %-24s %-9s %12s %12s\n",
			r.ItemCode,
			truncate(r.Description, 32),
			truncate(r.SupplierName, 24),
			Week(r),
			Quantity(r.PredictedQtySum),
			NullQuantity(r.PriorYearActualQty))
	}
	return t.err
}

func overviewText(w io.Writer, report *dto.OverviewReport) error {
	t := &textWriter{w: w}

	t.printf("🛒 Sales Overview (%s)\n", yearLabel(report.Year, report.CompareYear))
	t.printf("=====================\n\n")
	t.printf("Items Sold: %d\n", report.UniqueItems)
	if report.CompareYear != 0 {
		t.printf("Items Sold in %d: %d (%d sold again)\n", report.CompareYear, report.CompareUniqueItems, report.RepeatItems)
	}
	t.printf("Revenue: %s\n", Guarani(report.Revenue))
	t.printf("Top Category: %s\n\n", report.TopCategory)

	printSeries(t, "📅 Monthly Sales", report.Monthly)
	printSeries(t, "📆 Weekly Sales", report.Weekly)
	if report.Daily != nil {
		printSeries(t, "🗓️  Daily Sales", report.Daily)
	}

	printShares(t, "🔝 Top Categories", report.TopLevel3)
	printShares(t, "🔻 Bottom Categories", report.BottomLevel3)

	if report.Period != nil {
		t.printf("📊 Supplier Growth %s (vs %s)\n", report.Period, report.Period.Preceding())
		t.printf("%-16s %-18s %-18s %-10s\n", "Supplier", "Current", "Previous", "Growth")
		t.rule(16, 18, 18, 10)
		for _, g := range report.Growth {
			t.printf("%-16s %-18s %-18s %-10s\n",
				g.SupplierID, Guarani(g.TotalCurrent), Guarani(g.TotalPrevious), Growth(g.GrowthPct))
		}
		t.printf("\n")

		t.printf("🆕 New Suppliers: %d\n", len(report.NewSuppliers))
		for _, s := range report.NewSuppliers {
			t.printf("  %-16s %-30s %s\n", s.SupplierID, truncate(s.SupplierName, 30), s.FirstSale.Format(entities.DateLayout))
		}
	}
	return t.err
}

func yearLabel(year, compareYear int) string {
	switch {
	case year == 0:
		return "all years"
	case compareYear != 0:
		return fmt.Sprintf("%d vs %d", year, compareYear)
	default:
		return fmt.Sprintf("%d", year)
	}
}

func printSeries(t *textWriter, title string, totals []dto.PeriodTotal) {
	t.printf("%s\n", title)
	for _, p := range totals {
		t.printf("  %-12s %18s\n", p.Label, Guarani(p.Total))
	}
	t.printf("\n")
}

func printShares(t *textWriter, title string, shares []dto.CategoryShare) {
	t.printf("%s\n", title)
	t.printf("  %-30s %-18s %-9s\n", "Name", "Total", "% Total")
	for _, s := range shares {
		t.printf("  %-30s %-18s %-9s\n", truncate(s.Name, 30), Guarani(s.Total), Percent(s.PctOfTotal))
	}
	t.printf("\n")
}
