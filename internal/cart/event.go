package cart

import "github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"

// Event is a cart input. The set is closed: ItemAdded and OneRemoved.
type Event interface {
	isEvent()
}

type ItemAdded struct {
	Product catalog.Product
}

type OneRemoved struct {
	ProductID int64
}

func (ItemAdded) isEvent()  {}
func (OneRemoved) isEvent() {}

// Apply is the cart's transition function.
func Apply(c Cart, e Event) Cart {
	switch ev := e.(type) {
	case ItemAdded:
		return Add(c, ev.Product)
	case OneRemoved:
		return RemoveOne(c, ev.ProductID)
	default:
		return c
	}
}

// Replay folds events over an empty cart.
func Replay(events ...Event) Cart {
	var c Cart
	for _, e := range events {
		c = Apply(c, e)
	}
	return c
}
