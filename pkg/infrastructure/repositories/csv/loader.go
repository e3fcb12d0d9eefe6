package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
)

// Column names of the sales, item and supplier extracts
const (
	colDate         = "date"
	colItemCode     = "codigo"
	colSupplierID   = "proveedor_id"
	colSupplierName = "proveedor"
	colCategory     = "categoria"
	colSubcategory  = "subcategoria"
	colLevel3       = "cat_nivel3"
	colLevel4       = "cat_nivel4"
	colLevel5       = "cat_nivel5"
	colTotal        = "total"
	colQuantity     = "qty"
	colDescription  = "descripcion"
	colName         = "name"
)

var dateLayouts = []string{entities.DateLayout, "2006-01-02 15:04:05", time.RFC3339}

// Loader handles loading sales data from CSV extracts.
// Extracts may carry extra columns; only the required ones are validated.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadSales loads sales records from a CSV file
func (l *Loader) LoadSales(filename string) ([]*entities.SalesRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadSales(file)
}

// ReadSales reads sales records from CSV content.
// Supplier columns are optional; category and quantity columns default to empty/zero.
func (l *Loader) ReadSales(r io.Reader) ([]*entities.SalesRecord, error) {
	header, rows, err := readTable(r, "sales", colDate, colItemCode, colTotal)
	if err != nil {
		return nil, err
	}

	var records []*entities.SalesRecord
	for i, row := range rows {
		record, err := parseSalesRecord(header, row)
		if err != nil {
			return nil, fmt.Errorf("sales CSV row %d: %w", i+2, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// LoadItems loads the item registry from a CSV file
func (l *Loader) LoadItems(filename string) ([]*entities.Item, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open items file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadItems(file)
}

// ReadItems reads the item registry from CSV content
func (l *Loader) ReadItems(r io.Reader) ([]*entities.Item, error) {
	header, rows, err := readTable(r, "items", colItemCode, colDescription, colSupplierID)
	if err != nil {
		return nil, err
	}

	var items []*entities.Item
	for i, row := range rows {
		item, err := entities.NewItem(
			entities.ItemCode(header.get(row, colItemCode)),
			header.get(row, colDescription),
			entities.SupplierID(header.get(row, colSupplierID)),
		)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// LoadSuppliers loads the supplier registry from a CSV file
func (l *Loader) LoadSuppliers(filename string) ([]*entities.Supplier, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open suppliers file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadSuppliers(file)
}

// ReadSuppliers reads the supplier registry from CSV content
func (l *Loader) ReadSuppliers(r io.Reader) ([]*entities.Supplier, error) {
	header, rows, err := readTable(r, "suppliers", colSupplierID, colName)
	if err != nil {
		return nil, err
	}

	var suppliers []*entities.Supplier
	for i, row := range rows {
		supplier, err := entities.NewSupplier(
			entities.SupplierID(header.get(row, colSupplierID)),
			header.get(row, colName),
		)
		if err != nil {
			return nil, fmt.Errorf("suppliers CSV row %d: %w", i+2, err)
		}
		suppliers = append(suppliers, supplier)
	}

	return suppliers, nil
}

// Helper functions for parsing CSV records

// columns maps a lower-cased header name to its position
type columns map[string]int

func (c columns) get(row []string, name string) string {
	index, ok := c[name]
	if !ok || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func readTable(r io.Reader, kind string, required ...string) (columns, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := make(columns, len(records[0]))
	for i, col := range records[0] {
		header[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%s CSV header missing columns %v, got %v", kind, missing, records[0])
	}

	return header, records[1:], nil
}

func parseSalesRecord(header columns, row []string) (*entities.SalesRecord, error) {
	date, err := parseDate(header.get(row, colDate))
	if err != nil {
		return nil, err
	}

	total, err := parseDecimal(header.get(row, colTotal))
	if err != nil {
		return nil, fmt.Errorf("invalid total: %w", err)
	}

	quantity, err := parseDecimal(header.get(row, colQuantity))
	if err != nil {
		return nil, fmt.Errorf("invalid qty: %w", err)
	}

	category := entities.CategoryPath{
		Category:    header.get(row, colCategory),
		Subcategory: header.get(row, colSubcategory),
		Level3:      header.get(row, colLevel3),
		Level4:      header.get(row, colLevel4),
		Level5:      header.get(row, colLevel5),
	}

	return entities.NewSalesRecord(
		date,
		entities.ItemCode(header.get(row, colItemCode)),
		entities.SupplierID(header.get(row, colSupplierID)),
		header.get(row, colSupplierName),
		category,
		total,
		quantity,
	)
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q (expected YYYY-MM-DD)", s)
}

// parseDecimal treats an empty cell as zero
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
