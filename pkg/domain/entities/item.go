package entities

import (
	"fmt"
	"strings"
)

// Item represents an entry of the item registry
type Item struct {
	Code        ItemCode   `json:"code"`
	Description string     `json:"description"`
	SupplierID  SupplierID `json:"supplier_id"`
}

// NewItem creates a validated registry item
func NewItem(code ItemCode, description string, supplierID SupplierID) (*Item, error) {
	if strings.TrimSpace(string(code)) == "" {
		return nil, fmt.Errorf("item code cannot be empty")
	}
	if strings.TrimSpace(string(supplierID)) == "" {
		return nil, fmt.Errorf("item %s: supplier id cannot be empty", code)
	}

	return &Item{
		Code:        code,
		Description: description,
		SupplierID:  supplierID,
	}, nil
}

// Supplier represents an entry of the supplier registry
type Supplier struct {
	ID   SupplierID `json:"id"`
	Name string     `json:"name"`
}

// NewSupplier creates a validated registry supplier
func NewSupplier(id SupplierID, name string) (*Supplier, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, fmt.Errorf("supplier id cannot be empty: %w", ErrInvalidSupplier)
	}
	return &Supplier{ID: id, Name: name}, nil
}
