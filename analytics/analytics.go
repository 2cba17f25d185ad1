package analytics

import (
	"fmt"

	"vending-machine/model"
)

// LowStockThreshold is the quantity below which an in-stock product is
// reported as running low.
const LowStockThreshold = 5

// NoLowStockNotice replaces an empty low-stock report.
const NoLowStockNotice = "There are no low stock items."

type StockLevel string

const (
	StockNormal StockLevel = "normal"
	StockLow    StockLevel = "low"
	StockOut    StockLevel = "out"
)

// Classify buckets a quantity into a stock level.
func Classify(quantity int64) StockLevel {
	switch {
	case quantity == 0:
		return StockOut
	case quantity < LowStockThreshold:
		return StockLow
	default:
		return StockNormal
	}
}

type StockAlert struct {
	Name     string     `json:"name"`
	Quantity int64      `json:"quantity"`
	Level    StockLevel `json:"level"`
}

func (a StockAlert) String() string {
	if a.Level == StockOut {
		return fmt.Sprintf("%s is OUT OF STOCK.", a.Name)
	}
	return fmt.Sprintf("%s is low on stock: %d left.", a.Name, a.Quantity)
}

// Report is a read-only summary of the catalog and balance at one moment.
// Extremes are nil for an empty catalog.
type Report struct {
	MostProfitable  *model.Product  `json:"most_profitable"`
	LeastProfitable *model.Product  `json:"least_profitable"`
	HighestSelling  *model.Product  `json:"highest_selling"`
	LowestSelling   *model.Product  `json:"lowest_selling"`
	StockAlerts     []StockAlert    `json:"stock_alerts"`
	Balance         int64           `json:"balance"`
	Products        []model.Product `json:"products"`
}

// Build computes a report. On ties the product earliest in catalog order
// wins, since only a strictly greater or smaller value replaces the running
// extreme.
func Build(products []model.Product, balance int64) Report {
	r := Report{
		Balance:     balance,
		Products:    products,
		StockAlerts: []StockAlert{},
	}
	if len(products) == 0 {
		return r
	}

	mostInc, leastInc, mostSold, leastSold := 0, 0, 0, 0
	for i, p := range products {
		if p.Income > products[mostInc].Income {
			mostInc = i
		}
		if p.Income < products[leastInc].Income {
			leastInc = i
		}
		if p.UnitsSold > products[mostSold].UnitsSold {
			mostSold = i
		}
		if p.UnitsSold < products[leastSold].UnitsSold {
			leastSold = i
		}
		if level := Classify(p.Quantity); level != StockNormal {
			r.StockAlerts = append(r.StockAlerts, StockAlert{Name: p.Name, Quantity: p.Quantity, Level: level})
		}
	}

	r.MostProfitable = &products[mostInc]
	r.LeastProfitable = &products[leastInc]
	r.HighestSelling = &products[mostSold]
	r.LowestSelling = &products[leastSold]
	return r
}

// StockLines returns one line per low or out-of-stock product, or the single
// no-low-stock notice.
func (r Report) StockLines() []string {
	if len(r.StockAlerts) == 0 {
		return []string{NoLowStockNotice}
	}
	lines := make([]string, len(r.StockAlerts))
	for i, a := range r.StockAlerts {
		lines[i] = a.String()
	}
	return lines
}
