package domain

import "errors"

// Domain errors as sentinel values. Conflict-class and not-found errors
// pass through the store unchanged; everything else is wrapped as an
// internal failure at the operation boundary.
var (
	ErrProductNotFound = errors.New("product not found")

	// Conflict class
	ErrSlugExists            = errors.New("slug already exists")
	ErrVersionMismatch       = errors.New("product was modified by another process")
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// Caller misuse
	ErrUnsupportedFilter = errors.New("price range and tag filters are not supported for this operation")
)

// IsConflict reports whether err is one of the recoverable conflict errors.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSlugExists) ||
		errors.Is(err, ErrVersionMismatch) ||
		errors.Is(err, ErrInsufficientInventory)
}

// IsDomain reports whether err carries domain meaning and should be
// propagated to the caller as-is.
func IsDomain(err error) bool {
	return IsConflict(err) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrUnsupportedFilter)
}
