package testing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
	"github.com/vsinha/salesdash/pkg/infrastructure/repositories/memory"
)

// MustDate parses a YYYY-MM-DD date - panics on parse error
func MustDate(s string) time.Time {
	d, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// MustRange builds a validated date range - panics on validation error
func MustRange(start, end string) entities.DateRange {
	r, err := entities.ParseDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// MustSale is a helper for tests - panics on validation error
func MustSale(day string, supplierID, supplierName string, itemCode string, amount, qty float64) *entities.SalesRecord {
	record, err := entities.NewSalesRecord(
		MustDate(day),
		entities.ItemCode(itemCode),
		entities.SupplierID(supplierID),
		supplierName,
		entities.CategoryPath{},
		decimal.NewFromFloat(amount),
		decimal.NewFromFloat(qty),
	)
	if err != nil {
		panic(err)
	}
	return record
}

// MustCategorizedSale is MustSale with a category hierarchy
func MustCategorizedSale(day, itemCode string, category entities.CategoryPath, amount, qty float64) *entities.SalesRecord {
	record := MustSale(day, "", "", itemCode, amount, qty)
	record.Category = category
	return record
}

// BuildSalesRepository loads records into an in-memory repository
func BuildSalesRepository(records ...*entities.SalesRecord) *memory.SalesRepository {
	repo := memory.NewSalesRepository(len(records))
	if err := repo.LoadSales(records); err != nil {
		panic(err)
	}
	return repo
}

// BuildCatalog creates a catalog with the given suppliers and items.
// Items are given as code, description, supplier id triples.
func BuildCatalog(suppliers map[string]string, items ...[3]string) *memory.CatalogRepository {
	repo := memory.NewCatalogRepository(len(items))
	for id, name := range suppliers {
		repo.AddSupplier(entities.Supplier{ID: entities.SupplierID(id), Name: name})
	}
	for _, it := range items {
		repo.AddItem(entities.Item{
			Code:        entities.ItemCode(it[0]),
			Description: it[1],
			SupplierID:  entities.SupplierID(it[2]),
		})
	}
	return repo
}

// RegressorFunc adapts a function to repositories.Regressor
type RegressorFunc func(features []float64) (float64, error)

// Predict calls f
func (f RegressorFunc) Predict(features []float64) (float64, error) {
	return f(features)
}

// ConstantModel always predicts value
func ConstantModel(value float64) repositories.Regressor {
	return RegressorFunc(func([]float64) (float64, error) { return value, nil })
}

// ModelRepository is an in-memory model lookup that records requested codes
type ModelRepository struct {
	Models    map[entities.ItemCode]repositories.Regressor
	Failures  map[entities.ItemCode]error
	Requested chan entities.ItemCode
}

// NewModelRepository creates a lookup over the given models
func NewModelRepository(models map[entities.ItemCode]repositories.Regressor) *ModelRepository {
	return &ModelRepository{
		Models:    models,
		Failures:  map[entities.ItemCode]error{},
		Requested: make(chan entities.ItemCode, 1024),
	}
}

// FindModel returns the registered model or entities.ErrModelNotFound
func (r *ModelRepository) FindModel(ctx context.Context, code entities.ItemCode) (repositories.Regressor, error) {
	r.Requested <- code
	if err := r.Failures[code]; err != nil {
		return nil, err
	}
	model, ok := r.Models[code]
	if !ok {
		return nil, fmt.Errorf("%w for item %s", entities.ErrModelNotFound, code)
	}
	return model, nil
}

// RequestCount drains and counts the recorded lookups
func (r *ModelRepository) RequestCount() int {
	n := 0
	for {
		select {
		case <-r.Requested:
			n++
		default:
			return n
		}
	}
}
