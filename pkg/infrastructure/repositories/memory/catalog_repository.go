package memory

import (
	"fmt"

	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
)

// CatalogRepository provides in-memory item and supplier registry storage
type CatalogRepository struct {
	items         []entities.Item
	itemsMap      map[entities.ItemCode]int
	itemsBySupply map[entities.SupplierID][]int

	suppliers    []entities.Supplier
	suppliersMap map[entities.SupplierID]int
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository(expectedItems int) *CatalogRepository {
	return &CatalogRepository{
		items:         make([]entities.Item, 0, expectedItems),
		itemsMap:      make(map[entities.ItemCode]int, expectedItems),
		itemsBySupply: make(map[entities.SupplierID][]int),
		suppliersMap:  make(map[entities.SupplierID]int),
	}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// LoadItems loads items into the repository
func (r *CatalogRepository) LoadItems(items []*entities.Item) error {
	for _, item := range items {
		r.AddItem(*item)
	}
	return nil
}

// AddItem adds an item to the registry. A repeated code replaces the earlier
// entry in place, so the last occurrence wins and registry order is kept.
func (r *CatalogRepository) AddItem(item entities.Item) {
	if index, exists := r.itemsMap[item.Code]; exists {
		previous := r.items[index]
		r.items[index] = item
		if previous.SupplierID != item.SupplierID {
			r.unlinkSupplier(previous.SupplierID, index)
			r.itemsBySupply[item.SupplierID] = append(r.itemsBySupply[item.SupplierID], index)
		}
		return
	}

	index := len(r.items)
	r.itemsMap[item.Code] = index
	r.items = append(r.items, item)
	r.itemsBySupply[item.SupplierID] = append(r.itemsBySupply[item.SupplierID], index)
}

func (r *CatalogRepository) unlinkSupplier(supplierID entities.SupplierID, index int) {
	indexes := r.itemsBySupply[supplierID]
	for i, idx := range indexes {
		if idx == index {
			r.itemsBySupply[supplierID] = append(indexes[:i:i], indexes[i+1:]...)
			return
		}
	}
}

// GetItem returns the registry entry for an item code
func (r *CatalogRepository) GetItem(code entities.ItemCode) (*entities.Item, error) {
	index, exists := r.itemsMap[code]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrItemNotFound, code)
	}
	return &r.items[index], nil
}

// GetAllItems returns all items in registry order
func (r *CatalogRepository) GetAllItems() ([]*entities.Item, error) {
	items := make([]*entities.Item, 0, len(r.items))
	for i := range r.items {
		items = append(items, &r.items[i])
	}
	return items, nil
}

// GetItemsBySupplier returns the items a supplier provides, in registry order
func (r *CatalogRepository) GetItemsBySupplier(supplierID entities.SupplierID) ([]*entities.Item, error) {
	indexes := r.itemsBySupply[supplierID]
	items := make([]*entities.Item, 0, len(indexes))
	for _, index := range indexes {
		items = append(items, &r.items[index])
	}
	return items, nil
}

// LoadSuppliers loads suppliers into the repository
func (r *CatalogRepository) LoadSuppliers(suppliers []*entities.Supplier) error {
	for _, supplier := range suppliers {
		r.AddSupplier(*supplier)
	}
	return nil
}

// AddSupplier adds a supplier; a repeated id keeps the last name seen
func (r *CatalogRepository) AddSupplier(supplier entities.Supplier) {
	if index, exists := r.suppliersMap[supplier.ID]; exists {
		r.suppliers[index] = supplier
		return
	}
	r.suppliersMap[supplier.ID] = len(r.suppliers)
	r.suppliers = append(r.suppliers, supplier)
}

// GetSupplier returns the registry entry for a supplier id
func (r *CatalogRepository) GetSupplier(id entities.SupplierID) (*entities.Supplier, error) {
	index, exists := r.suppliersMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrSupplierNotFound, id)
	}
	return &r.suppliers[index], nil
}

// GetAllSuppliers returns all suppliers in registry order
func (r *CatalogRepository) GetAllSuppliers() ([]*entities.Supplier, error) {
	suppliers := make([]*entities.Supplier, 0, len(r.suppliers))
	for i := range r.suppliers {
		suppliers = append(suppliers, &r.suppliers[i])
	}
	return suppliers, nil
}
