package model

import (
	"fmt"
	"math"

	"vending-machine/money"
	"vending-machine/store"
)

// Product is one catalog entry. Price and Income are minor units.
type Product struct {
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
	UnitsSold int64  `json:"units_sold"`
	// Income accumulates the price charged at each sale, so it is not
	// UnitsSold * Price once prices have changed.
	Income int64 `json:"income"`
}

func (p *Product) InStock() bool {
	return p.Quantity != 0
}

// Describe renders the product line shown on the selection menu.
func (p *Product) Describe() string {
	if !p.InStock() {
		return fmt.Sprintf("%s - OUT OF STOCK.", p.Name)
	}
	return fmt.Sprintf("%s - %s - %d in stock.", p.Name, money.Format(p.Price), p.Quantity)
}

// RecordSale takes one unit out of stock and books its current price as
// income. It leaves p untouched when there is nothing to sell or the income
// would overflow.
func (p *Product) RecordSale() error {
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: sale of %q with quantity %d", ErrPreconditionViolation, p.Name, p.Quantity)
	}
	if p.Income > math.MaxInt64-p.Price || p.UnitsSold == math.MaxInt64 {
		return fmt.Errorf("%w: sale of %q at %d on income %d", ErrOverflow, p.Name, p.Price, p.Income)
	}
	p.Quantity--
	p.UnitsSold++
	p.Income += p.Price
	return nil
}

// Snapshot returns a copy of p for rollback.
func (p *Product) Snapshot() Product {
	return *p
}

// Restore resets p to a snapshot taken earlier.
func (p *Product) Restore(s Product) {
	*p = s
}

// Row converts p back to its persisted form.
func (p *Product) Row() store.ProductRow {
	return store.ProductRow{
		Name:      p.Name,
		Quantity:  fmt.Sprint(p.Quantity),
		Price:     fmt.Sprint(p.Price),
		UnitsSold: fmt.Sprint(p.UnitsSold),
		Income:    fmt.Sprint(p.Income),
	}
}
