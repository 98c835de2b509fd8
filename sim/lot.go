package sim

import "github.com/rustyeddy/investsim/pricing"

// Lot is one purchase. Its current price is read through the asset's shared
// Cell, never copied.
type Lot struct {
	Units         float64
	PurchasePrice float64
	Month         int
	Year          int

	price *pricing.Cell
}

// Price is the asset's current unit price.
func (l Lot) Price() float64 { return l.price.Value() }

// Value is the lot's current market value.
func (l Lot) Value() float64 { return l.Units * l.price.Value() }

// CostBasis is what was paid for the units still held.
func (l Lot) CostBasis() float64 { return l.Units * l.PurchasePrice }
