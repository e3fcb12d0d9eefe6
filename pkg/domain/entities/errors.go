package entities

import "errors"

var (
	// ErrMissingDate is returned when a required date input is absent
	ErrMissingDate = errors.New("missing date")
	// ErrInvalidDateRange is returned when a date cannot be parsed or the range is inverted
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrModelNotFound is returned when no trained model exists for an item
	ErrModelNotFound = errors.New("model not found")
	// ErrNoForecastableItems is returned when a supplier has no item with a trained model
	ErrNoForecastableItems = errors.New("no forecastable products")
	ErrInvalidSupplier     = errors.New("invalid supplier")
	ErrItemNotFound        = errors.New("item not found")
	ErrSupplierNotFound    = errors.New("supplier not found")
)
