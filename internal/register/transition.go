package register

import (
	"context"
	"time"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/cart"
)

type Kind string

const (
	KindItemAdded   Kind = "item_added"
	KindItemRemoved Kind = "item_removed"
)

// Transition is one applied cart event. Seq is assigned by the register loop
// and increases by one per transition.
type Transition struct {
	RegisterID    string
	Seq           int64
	Kind          Kind
	ProductID     int64
	Cart          cart.Cart
	OccurredAt    time.Time
	CorrelationID string
}

func (t Transition) Total() int64 {
	return cart.Total(t.Cart)
}

type Publisher interface {
	PublishTransition(ctx context.Context, t Transition) error
}

type nopPublisher struct{}

func (nopPublisher) PublishTransition(context.Context, Transition) error { return nil }

type ctxKey struct{}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}
