// Package contracts declares the interfaces the shop's services are bound to
// in the container.
package contracts

import "github.com/shopspring/decimal"

// DiscountRepositoryKey is the container key of the discount registry.
const DiscountRepositoryKey = "bazar.discounts"

// Discountable is anything with a total a discount can be taken off.
type Discountable interface {
	Total() decimal.Decimal
}

// DiscountRepository keeps an ordered set of named discounts.
type DiscountRepository interface {
	// Register adds or replaces the discount called name. A replaced
	// discount keeps its position.
	Register(name string, discount interface{}) error
	Remove(name string)
	Names() []string
	Enable()
	Disable()
	Enabled() bool
	// Calculate sums every discount for model, or zero when disabled.
	Calculate(model Discountable) decimal.Decimal
}
