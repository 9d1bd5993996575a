package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Catalog errors
	ErrNoSuchBeverage = errors.New("no such beverage")
	ErrEmptyCatalog   = errors.New("catalog has no beverages")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")

	// Journal errors
	ErrJournalClosed = errors.New("journal is closed")
)

// ShortageError reports the first resource that cannot cover a beverage.
// It is an expected outcome of a purchase, not a fault.
type ShortageError struct {
	Resource Resource
	Have     int
	Need     int
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("not enough %s: have %d, need %d", e.Resource, e.Have, e.Need)
}
