package order

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound reports a missing order id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound reports a requested product absent from the catalog.
	ErrProductNotFound = errors.New("product not found")
	// ErrLineNotFound reports that an order has no line for the given product.
	ErrLineNotFound = errors.New("product not part of the order")
	// ErrAmbiguousLine reports that (order, product) matches more than one
	// line; lines with distinct notes cannot be targeted by product id alone.
	ErrAmbiguousLine = errors.New("product appears on multiple lines of the order")
	// ErrExclusionNotFound reports a missing component exclusion.
	ErrExclusionNotFound = errors.New("exclusion not found")
)

// ValidationError reports malformed or missing input. It is always raised
// before any mutation happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the product whose stock cannot cover the
// aggregated requested quantity.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.Name, e.Requested, e.Available)
}
