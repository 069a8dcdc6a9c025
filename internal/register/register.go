// Package register owns the live cart.
//
// A Register runs a single goroutine that takes one command at a time,
// applies it to the cart with the pure reducer and replaces the cart
// wholesale. Callers never see or share the mutable state; they get
// snapshots back.
package register

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"
)

var (
	ErrUnknownProduct = errors.New("product not in catalog")
	ErrNotInCart      = errors.New("product not in cart")
	ErrInvalidAmount  = errors.New("amount must not be negative")
	ErrStopped        = errors.New("register stopped")
	ErrAlreadyRunning = errors.New("register already running")
)

type Snapshot struct {
	RegisterID string
	Seq        int64
	Cart       cart.Cart
	Total      int64
}

type Option func(*Register)

func WithPublisher(p Publisher) Option {
	return func(r *Register) {
		if p != nil {
			r.publisher = p
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Register) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Register) { r.now = now }
}

func WithID(id string) Option {
	return func(r *Register) { r.id = id }
}

// WithOutboxSize sets how many transitions may wait for the publisher
// before new ones are dropped.
func WithOutboxSize(n int) Option {
	return func(r *Register) {
		if n > 0 {
			r.outboxSize = n
		}
	}
}

const defaultOutboxSize = 256

type Register struct {
	id        string
	catalog   *catalog.Catalog
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time

	commands   chan command
	done       chan struct{}
	running    atomic.Bool
	outboxSize int
	outbox     chan Transition

	// owned by the Run goroutine
	cart cart.Cart
	seq  int64
}

type command struct {
	ctx    context.Context
	decide func(c cart.Cart) (cart.Event, error)
	reply  chan reply
}

type reply struct {
	snap Snapshot
	err  error
}

func New(cat *catalog.Catalog, opts ...Option) *Register {
	r := &Register{
		id:        uuid.NewString(),
		catalog:   cat,
		publisher: nopPublisher{},
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
		commands:   make(chan command),
		done:       make(chan struct{}),
		outboxSize: defaultOutboxSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.outbox = make(chan Transition, r.outboxSize)
	r.logger = r.logger.With(zap.String("register_id", r.id))
	return r
}

func (r *Register) ID() string { return r.id }

func (r *Register) Catalog() *catalog.Catalog { return r.catalog }

// Run processes commands until ctx is cancelled. It may be called once.
// Transitions are published from a separate goroutine; those still queued
// when ctx is cancelled are published before Run returns.
func (r *Register) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	published := make(chan struct{})
	go func() {
		defer close(published)
		r.drainOutbox(context.WithoutCancel(ctx))
	}()
	defer func() {
		close(r.outbox)
		<-published
	}()
	defer close(r.done)

	r.logger.Info("register loop started", zap.Int("catalog_size", r.catalog.Len()))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("register loop stopped", zap.Int64("seq", r.seq))
			return ctx.Err()
		case cmd := <-r.commands:
			cmd.reply <- r.handle(cmd)
		}
	}
}

func (r *Register) drainOutbox(ctx context.Context) {
	for t := range r.outbox {
		if err := r.publisher.PublishTransition(ctx, t); err != nil {
			r.logger.Warn("publish transition failed",
				zap.Int64("seq", t.Seq),
				zap.String("correlation_id", t.CorrelationID),
				zap.Error(err),
			)
		}
	}
}

func (r *Register) enqueue(t Transition) {
	select {
	case r.outbox <- t:
	default:
		r.logger.Warn("publish outbox full, transition dropped",
			zap.Int64("seq", t.Seq),
			zap.String("kind", string(t.Kind)),
			zap.Int("outbox_size", r.outboxSize),
		)
	}
}

func (r *Register) handle(cmd command) reply {
	ev, err := cmd.decide(r.cart)
	if err != nil {
		return reply{err: err}
	}
	if ev == nil {
		return reply{snap: r.snapshot()}
	}

	r.cart = cart.Apply(r.cart, ev)
	r.seq++

	t := Transition{
		RegisterID:    r.id,
		Seq:           r.seq,
		Cart:          r.cart,
		OccurredAt:    r.now(),
		CorrelationID: CorrelationID(cmd.ctx),
	}
	switch e := ev.(type) {
	case cart.ItemAdded:
		t.Kind, t.ProductID = KindItemAdded, e.Product.ID
	case cart.OneRemoved:
		t.Kind, t.ProductID = KindItemRemoved, e.ProductID
	}

	r.logger.Debug("cart transition",
		zap.String("kind", string(t.Kind)),
		zap.Int64("product_id", t.ProductID),
		zap.Int64("seq", t.Seq),
		zap.Int64("total", t.Total()),
	)

	r.enqueue(t)
	return reply{snap: r.snapshot()}
}

func (r *Register) snapshot() Snapshot {
	return Snapshot{
		RegisterID: r.id,
		Seq:        r.seq,
		Cart:       r.cart,
		Total:      cart.Total(r.cart),
	}
}

func (r *Register) dispatch(ctx context.Context, decide func(cart.Cart) (cart.Event, error)) (Snapshot, error) {
	cmd := command{ctx: ctx, decide: decide, reply: make(chan reply, 1)}

	select {
	case r.commands <- cmd:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-r.done:
		return Snapshot{}, ErrStopped
	}

	select {
	case res := <-cmd.reply:
		return res.snap, res.err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-r.done:
		return Snapshot{}, ErrStopped
	}
}

// AddProduct adds one unit of a catalog product.
func (r *Register) AddProduct(ctx context.Context, productID int64) (Snapshot, error) {
	p, ok := r.catalog.Lookup(productID)
	if !ok {
		return Snapshot{}, ErrUnknownProduct
	}
	return r.dispatch(ctx, func(cart.Cart) (cart.Event, error) {
		return cart.ItemAdded{Product: p}, nil
	})
}

// Increment re-adds the product already held by a cart line, using the
// line's own name and price.
func (r *Register) Increment(ctx context.Context, productID int64) (Snapshot, error) {
	return r.dispatch(ctx, func(c cart.Cart) (cart.Event, error) {
		l, ok := c.Line(productID)
		if !ok {
			return nil, ErrNotInCart
		}
		return cart.ItemAdded{Product: l.Product()}, nil
	})
}

// RemoveOne takes one unit out. Removing a product that is not in the cart
// is a no-op and not an error.
func (r *Register) RemoveOne(ctx context.Context, productID int64) (Snapshot, error) {
	return r.dispatch(ctx, func(c cart.Cart) (cart.Event, error) {
		if _, ok := c.Line(productID); !ok {
			return nil, nil
		}
		return cart.OneRemoved{ProductID: productID}, nil
	})
}

func (r *Register) Snapshot(ctx context.Context) (Snapshot, error) {
	return r.dispatch(ctx, func(cart.Cart) (cart.Event, error) { return nil, nil })
}

// Tender accepts a tendered amount and does nothing with it. The cart is
// left as is and no transition is recorded.
func (r *Register) Tender(ctx context.Context, amount int64) (Snapshot, error) {
	if amount < 0 {
		return Snapshot{}, ErrInvalidAmount
	}
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	r.logger.Info("payment tendered, no payment handler configured",
		zap.Int64("amount", amount),
		zap.Int64("total", snap.Total),
	)
	return snap, nil
}
