package domain

import "errors"

var (
	// ErrInvalidParameter is returned when policy parameters cannot be used,
	// e.g. a non-positive holding multiplier or an unknown service level.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidSKU is returned when a catalog row holds an attribute that is
	// not finite or lies outside its allowed range.
	ErrInvalidSKU = errors.New("invalid sku attribute")

	// ErrSKUNotFound is returned when a SKU id is not present in the catalog.
	ErrSKUNotFound = errors.New("sku not found")
)
