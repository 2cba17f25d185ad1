package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vending-machine/store"
)

// Catalog is the ordered set of products for a session. A product's position
// is its selection index and never changes while the catalog is alive.
type Catalog struct {
	products []*Product
}

// Load builds a catalog from store rows, in row order. Any malformed row
// fails the whole load.
func Load(rows []store.ProductRow) (*Catalog, error) {
	c := &Catalog{products: make([]*Product, 0, len(rows))}
	seen := make(map[string]bool, len(rows))

	for i, r := range rows {
		// the name is the row key in the store, so it is kept verbatim
		name := r.Name
		if strings.TrimSpace(name) == "" {
			return nil, &MalformedRowError{Row: i, Field: "name", Value: r.Name}
		}
		if seen[name] {
			return nil, &MalformedRowError{Row: i, Field: "name", Value: r.Name, Err: errors.New("duplicate product name")}
		}
		seen[name] = true

		p := &Product{Name: name}
		fields := []struct {
			name     string
			value    string
			dst      *int64
			optional bool
		}{
			{"quantity", r.Quantity, &p.Quantity, false},
			{"price", r.Price, &p.Price, false},
			{"sold", r.UnitsSold, &p.UnitsSold, true},
			{"income", r.Income, &p.Income, true},
		}
		for _, f := range fields {
			v, err := parseField(f.value, f.optional)
			if err != nil {
				return nil, &MalformedRowError{Row: i, Field: f.name, Value: f.value, Err: err}
			}
			*f.dst = v
		}
		c.products = append(c.products, p)
	}
	return c, nil
}

func parseField(s string, optional bool) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" && optional {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.New("negative value")
	}
	return v, nil
}

func (c *Catalog) Len() int { return len(c.products) }

// At returns the product at selection index i. The pointer stays valid for
// the life of the catalog.
func (c *Catalog) At(i int) (*Product, error) {
	if i < 0 || i >= len(c.products) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return c.products[i], nil
}

// Products returns copies of every product in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = *p
	}
	return out
}
