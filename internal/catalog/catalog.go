// Package catalog holds the fixed list of products the register can sell.
//
// A Catalog is built once at startup from a Source and is never mutated
// afterwards. Every accessor hands out copies.
package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrNegativePrice    = errors.New("negative price")
)

type Catalog struct {
	products []Product
	index    map[int64]int
}

func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
	}
	for _, p := range products {
		if _, exists := c.index[p.ID]; exists {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrDuplicateProduct)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrNegativePrice)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Products returns a copy of the catalog in insertion order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Lookup(id int64) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Len() int {
	return len(c.products)
}
