package repositories

import "github.com/vsinha/salesdash/pkg/domain/entities"

// SalesRepository provides read access to the immutable sales table
type SalesRepository interface {
	GetAllSales() ([]*entities.SalesRecord, error)
	GetSalesInRange(period entities.DateRange) ([]*entities.SalesRecord, error)
	// GetYears returns the distinct calendar years with sales, ascending
	GetYears() ([]int, error)
	LoadSales(records []*entities.SalesRecord) error
}
