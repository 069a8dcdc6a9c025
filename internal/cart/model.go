package cart

import "github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"

// Line is one product's entry in the cart. Name and Price are copies taken
// when the product was first added and are never re-read from the catalog.
type Line struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Product returns the frozen product data carried by the line.
func (l Line) Product() catalog.Product {
	return catalog.Product{ID: l.ProductID, Name: l.Name, Price: l.Price}
}

// Cart is an ordered list of lines with at most one line per product id.
// The zero value is an empty cart. Carts are values: reducers return a new
// Cart and never touch the one they were given.
type Cart struct {
	lines []Line
}

// FromLines builds a cart from lines in order. Lines with a non-positive
// quantity are dropped and repeated product ids are merged into the first
// line for that id, keeping its name and price.
func FromLines(lines ...Line) Cart {
	var out []Line
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		c := Cart{lines: out}
		if i := c.indexOf(l.ProductID); i >= 0 {
			out[i].Quantity += l.Quantity
			continue
		}
		out = append(out, l)
	}
	return Cart{lines: out}
}

func (c Cart) Lines() []Line {
	return cloneLines(c.lines)
}

func (c Cart) Line(productID int64) (Line, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c Cart) Quantity(productID int64) int {
	l, _ := c.Line(productID)
	return l.Quantity
}

func (c Cart) Len() int      { return len(c.lines) }
func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c Cart) indexOf(productID int64) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
