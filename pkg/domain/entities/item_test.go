package entities

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestItem_Validation(t *testing.T) {
	validItem, err := NewItem("1001", "Arroz 1kg", "42")
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if validItem.Code != "1001" {
		t.Errorf("Expected item code 1001, got %s", validItem.Code)
	}

	testCases := []struct {
		name        string
		code        ItemCode
		supplierID  SupplierID
		expectError string
	}{
		{"empty code", "", "42", "item code cannot be empty"},
		{"blank code", "   ", "42", "item code cannot be empty"},
		{"empty supplier", "1001", "", "supplier id cannot be empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(tc.code, "desc", tc.supplierID)
			if err == nil {
				t.Fatalf("Expected error containing %q", tc.expectError)
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}

func TestSupplier_Validation(t *testing.T) {
	if _, err := NewSupplier("", "Nobody"); !errors.Is(err, ErrInvalidSupplier) {
		t.Errorf("Expected ErrInvalidSupplier, got %v", err)
	}

	supplier, err := NewSupplier("7", "Distribuidora Sur")
	if err != nil {
		t.Fatalf("Expected valid supplier: %v", err)
	}
	if supplier.Name != "Distribuidora Sur" {
		t.Errorf("Expected name Distribuidora Sur, got %s", supplier.Name)
	}
}

func TestSalesRecord_Validation(t *testing.T) {
	when := time.Date(2024, 3, 5, 17, 45, 0, 0, time.UTC)
	record, err := NewSalesRecord(when, "1001", "42", "Acme", CategoryPath{Category: "Food"},
		decimal.NewFromInt(1500), decimal.NewFromInt(3))
	if err != nil {
		t.Fatalf("Expected valid record: %v", err)
	}
	if !record.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date truncated to day, got %v", record.Date)
	}
	if record.Year() != 2024 {
		t.Errorf("Expected year 2024, got %d", record.Year())
	}

	if _, err := NewSalesRecord(time.Time{}, "1001", "42", "Acme", CategoryPath{},
		decimal.Zero, decimal.Zero); !errors.Is(err, ErrMissingDate) {
		t.Errorf("Expected ErrMissingDate, got %v", err)
	}
	if _, err := NewSalesRecord(when, "", "42", "Acme", CategoryPath{},
		decimal.Zero, decimal.Zero); err == nil {
		t.Error("Expected error for empty item code")
	}
}
