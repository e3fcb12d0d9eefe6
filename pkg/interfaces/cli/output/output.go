package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/salesdash/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format string
	// OutputDir receives report files; reports go to Stdout when empty
	OutputDir string
	Stdout    io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// WriteABC writes the ABC classification report in the configured format
func WriteABC(report *dto.ABCReport, config Config) error {
	switch config.Format {
	case "text":
		return emit(config, "abc_report.txt", func(w io.Writer) error { return abcText(w, report) })
	case "json":
		return emit(config, "abc_report.json", func(w io.Writer) error { return writeJSON(w, report) })
	case "csv":
		return emit(config, "abc_report.csv", func(w io.Writer) error { return abcCSV(w, report) })
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// WriteForecast writes the weekly forecast report in the configured format
func WriteForecast(report *dto.ForecastReport, config Config) error {
	switch config.Format {
	case "text":
		return emit(config, "forecast.txt", func(w io.Writer) error { return forecastText(w, report) })
	case "json":
		return emit(config, "forecast.json", func(w io.Writer) error { return writeJSON(w, report) })
	case "csv":
		return emit(config, "forecast.csv", func(w io.Writer) error { return forecastCSV(w, report) })
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// WriteOverview writes the dashboard overview in the configured format.
// CSV output spans several tables and needs an output directory.
func WriteOverview(report *dto.OverviewReport, config Config) error {
	switch config.Format {
	case "text":
		return emit(config, "overview.txt", func(w io.Writer) error { return overviewText(w, report) })
	case "json":
		return emit(config, "overview.json", func(w io.Writer) error { return writeJSON(w, report) })
	case "csv":
		if config.OutputDir == "" {
			return fmt.Errorf("output directory required for CSV overview")
		}
		return overviewCSV(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// emit renders to stdout, or to filename under the output directory
func emit(config Config, filename string, render func(io.Writer) error) error {
	if config.OutputDir == "" {
		return render(config.stdout())
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(config.stdout(), "💾 Results saved to: %s\n", path)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

func abcCSV(w io.Writer, report *dto.ABCReport) error {
	rows := make([][]string, 0, len(report.Suppliers))
	for _, s := range report.Suppliers {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			string(s.SupplierID),
			s.SupplierName,
			s.TotalCurrent.String(),
			s.TotalPrevious.String(),
			strconv.Itoa(s.UniqueItemCount),
			s.GrowthPct.StringFixed(2),
			s.PctOfTotal.StringFixed(2),
			s.CumulativePct.StringFixed(2),
			string(s.Class),
		})
	}
	return writeCSV(w, []string{
		"rank", "supplier_id", "supplier_name", "total_current", "total_previous",
		"unique_item_count", "growth_pct", "pct_of_total", "cumulative_pct", "class",
	}, rows)
}

func forecastCSV(w io.Writer, report *dto.ForecastReport) error {
	rows := make([][]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, []string{
			string(r.ItemCode),
			r.Description,
			r.SupplierName,
			strconv.Itoa(r.ISOYear),
			strconv.Itoa(r.ISOWeek),
			Quantity(r.PredictedQtySum),
			NullQuantity(r.PriorYearActualQty),
		})
	}
	return writeCSV(w, []string{
		"item_code", "description", "supplier_name", "iso_year", "iso_week",
		"predicted_qty_sum", "prior_year_actual_qty",
	}, rows)
}

func overviewCSV(report *dto.OverviewReport, config Config) error {
	series := map[string][]dto.PeriodTotal{
		"overview_monthly.csv": report.Monthly,
		"overview_weekly.csv":  report.Weekly,
		"overview_daily.csv":   report.Daily,
	}
	for _, name := range []string{"overview_monthly.csv", "overview_weekly.csv", "overview_daily.csv"} {
		totals := series[name]
		if totals == nil {
			continue
		}
		err := emit(config, name, func(w io.Writer) error {
			rows := make([][]string, 0, len(totals))
			for _, t := range totals {
				rows = append(rows, []string{strconv.Itoa(t.Year), strconv.Itoa(t.Bucket), t.Label, t.Total.String()})
			}
			return writeCSV(w, []string{"year", "bucket", "label", "total"}, rows)
		})
		if err != nil {
			return err
		}
	}

	return emit(config, "overview_categories.csv", func(w io.Writer) error {
		rows := make([][]string, 0, len(report.Categories))
		for _, c := range report.Categories {
			rows = append(rows, []string{
				c.Path.Category, c.Path.Subcategory, c.Path.Level3, c.Path.Level4, c.Path.Level5,
				c.Total.String(), c.PctOfTotal.StringFixed(2), c.PctOfCategory.StringFixed(2),
			})
		}
		return writeCSV(w, []string{
			"categoria", "subcategoria", "cat_nivel3", "cat_nivel4", "cat_nivel5",
			"total", "pct_total", "pct_categoria",
		}, rows)
	})
}
