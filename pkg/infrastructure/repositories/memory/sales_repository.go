package memory

import (
	"sort"

	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
)

// SalesRepository provides in-memory storage of the sales table.
// Records are kept sorted by date; the repository is read-only once loaded.
type SalesRepository struct {
	sales []entities.SalesRecord
	years []int
}

// NewSalesRepository creates a new in-memory sales repository
func NewSalesRepository(expectedRecords int) *SalesRepository {
	return &SalesRepository{
		sales: make([]entities.SalesRecord, 0, expectedRecords),
	}
}

// Verify interface compliance
var _ repositories.SalesRepository = (*SalesRepository)(nil)

// LoadSales loads sales records into the repository
func (r *SalesRepository) LoadSales(records []*entities.SalesRecord) error {
	for _, record := range records {
		r.sales = append(r.sales, *record)
	}

	// Stable so records of the same day keep file order
	sort.SliceStable(r.sales, func(i, j int) bool {
		return r.sales[i].Date.Before(r.sales[j].Date)
	})

	seen := make(map[int]bool)
	r.years = r.years[:0]
	for i := range r.sales {
		year := r.sales[i].Year()
		if !seen[year] {
			seen[year] = true
			r.years = append(r.years, year)
		}
	}
	return nil
}

// GetAllSales returns every record in date order
func (r *SalesRepository) GetAllSales() ([]*entities.SalesRecord, error) {
	return r.slice(0, len(r.sales)), nil
}

// GetSalesInRange returns the records dated inside the period, in date order
func (r *SalesRepository) GetSalesInRange(period entities.DateRange) ([]*entities.SalesRecord, error) {
	from := sort.Search(len(r.sales), func(i int) bool {
		return !r.sales[i].Date.Before(period.Start)
	})
	to := sort.Search(len(r.sales), func(i int) bool {
		return r.sales[i].Date.After(period.End)
	})
	if from >= to {
		return []*entities.SalesRecord{}, nil
	}
	return r.slice(from, to), nil
}

// GetYears returns the distinct years with sales, ascending
func (r *SalesRepository) GetYears() ([]int, error) {
	years := make([]int, len(r.years))
	copy(years, r.years)
	return years, nil
}

func (r *SalesRepository) slice(from, to int) []*entities.SalesRecord {
	records := make([]*entities.SalesRecord, 0, to-from)
	for i := from; i < to; i++ {
		records = append(records, &r.sales[i])
	}
	return records
}
