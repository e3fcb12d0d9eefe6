package repositories

import "github.com/vsinha/salesdash/pkg/domain/entities"

// CatalogRepository provides access to the item and supplier registry
type CatalogRepository interface {
	GetItem(code entities.ItemCode) (*entities.Item, error)
	GetAllItems() ([]*entities.Item, error)
	// GetItemsBySupplier returns the supplier's catalog in registry order
	GetItemsBySupplier(supplierID entities.SupplierID) ([]*entities.Item, error)
	LoadItems(items []*entities.Item) error

	GetSupplier(id entities.SupplierID) (*entities.Supplier, error)
	GetAllSuppliers() ([]*entities.Supplier, error)
	LoadSuppliers(suppliers []*entities.Supplier) error
}
