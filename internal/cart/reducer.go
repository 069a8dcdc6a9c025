// Package cart is the point-of-sale cart state machine.
//
// Every function here is pure: (cart, event) in, new cart out. Nothing does
// I/O and nothing can fail.
package cart

import "github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"

// Add increments the line for p, or appends a new line with quantity 1.
// p is trusted; no catalog check happens here.
func Add(c Cart, p catalog.Product) Cart {
	next := cloneLines(c.lines)
	for i := range next {
		if next[i].ProductID == p.ID {
			next[i].Quantity++
			return Cart{lines: next}
		}
	}
	next = append(next, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
	return Cart{lines: next}
}

// RemoveOne takes one unit of productID out of the cart. A line whose
// quantity would reach zero is dropped. Unknown ids are a no-op.
func RemoveOne(c Cart, productID int64) Cart {
	i := c.indexOf(productID)
	if i < 0 {
		return Cart{lines: cloneLines(c.lines)}
	}

	if c.lines[i].Quantity > 1 {
		next := cloneLines(c.lines)
		next[i].Quantity--
		return Cart{lines: next}
	}

	if len(c.lines) == 1 {
		return Cart{}
	}
	next := make([]Line, 0, len(c.lines)-1)
	next = append(next, c.lines[:i]...)
	next = append(next, c.lines[i+1:]...)
	return Cart{lines: next}
}

func Total(c Cart) int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}
