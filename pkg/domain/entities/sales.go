package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemCode represents a unique sellable item identifier
type ItemCode string

// SupplierID represents a unique supplier identifier
type SupplierID string

// CategoryPath holds the five-level category hierarchy an item is filed under
type CategoryPath struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Level3      string `json:"level3"`
	Level4      string `json:"level4"`
	Level5      string `json:"level5"`
}

// Levels returns the hierarchy from the top level down
func (c CategoryPath) Levels() [5]string {
	return [5]string{c.Category, c.Subcategory, c.Level3, c.Level4, c.Level5}
}

// SalesRecord represents one transaction line of the sales extract
type SalesRecord struct {
	Date         time.Time
	ItemCode     ItemCode
	SupplierID   SupplierID
	SupplierName string
	Category     CategoryPath
	TotalAmount  decimal.Decimal
	Quantity     decimal.Decimal
}

// NewSalesRecord creates a validated sales record. The date is truncated to the day.
func NewSalesRecord(
	date time.Time,
	itemCode ItemCode,
	supplierID SupplierID,
	supplierName string,
	category CategoryPath,
	totalAmount, quantity decimal.Decimal,
) (*SalesRecord, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("sales date cannot be empty: %w", ErrMissingDate)
	}
	if itemCode == "" {
		return nil, fmt.Errorf("item code cannot be empty")
	}

	return &SalesRecord{
		Date:         Day(date),
		ItemCode:     itemCode,
		SupplierID:   supplierID,
		SupplierName: supplierName,
		Category:     category,
		TotalAmount:  totalAmount,
		Quantity:     quantity,
	}, nil
}

// Year returns the calendar year the sale was recorded in
func (r *SalesRecord) Year() int {
	return r.Date.Year()
}
