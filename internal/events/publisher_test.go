package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

type published struct {
	exchange   string
	routingKey string
	msg        amqp.Publishing
	deadline   bool
}

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	published  []published
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return c.declareErr
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	_, hasDeadline := ctx.Deadline()
	c.published = append(c.published, published{exchange: exchange, routingKey: key, msg: msg, deadline: hasDeadline})
	return c.publishErr
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func sampleTransition(kind register.Kind) register.Transition {
	c := cart.Add(cart.Cart{}, catalog.Product{ID: 1, Name: "Nasi Goreng", Price: 15000})
	c = cart.Add(c, catalog.Product{ID: 1, Name: "Nasi Goreng", Price: 15000})
	return register.Transition{
		RegisterID:    "f1e2d3c4-b5a6-4988-99aa-bbccddeeff11",
		Seq:           7,
		Kind:          kind,
		ProductID:     1,
		Cart:          c,
		OccurredAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		CorrelationID: "c0a8e2b6-3c6a-4d7e-9c8f-1f2e3d4c5b6a",
	}
}

func TestNewPublisher_DeclaresExchange(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, PublisherOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"ecommerce.events:topic"}, ch.declared)
	assert.Equal(t, contracts.KasirServiceProducer, p.producer)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNewPublisher_DeclareError(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("channel closed")}
	_, err := newPublisher(ch, PublisherOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declare events exchange")
}

func TestPublishTransition_ItemAdded(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, PublisherOptions{})
	require.NoError(t, err)

	require.NoError(t, p.PublishTransition(context.Background(), sampleTransition(register.KindItemAdded)))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, EventsExchange, got.exchange)
	assert.Equal(t, CartItemAddedRoutingKey, got.routingKey)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.True(t, got.deadline)

	var env contracts.EventEnvelope
	require.NoError(t, json.Unmarshal(got.msg.Body, &env))
	require.NoError(t, env.Validate())
	assert.Equal(t, contracts.CartItemAddedEventName, env.EventName)
	assert.Equal(t, int64(7), env.Sequence)
	assert.Equal(t, "f1e2d3c4-b5a6-4988-99aa-bbccddeeff11", env.PartitionKey)
	assert.Equal(t, "c0a8e2b6-3c6a-4d7e-9c8f-1f2e3d4c5b6a", env.CorrelationID)
	assert.Equal(t, int64(30000), env.Payload.TotalAmount)
	require.Len(t, env.Payload.Lines, 1)
	assert.Equal(t, 2, env.Payload.Lines[0].Quantity)
}

func TestPublishTransition_ItemRemoved(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, PublisherOptions{Producer: "kasir-test"})
	require.NoError(t, err)

	require.NoError(t, p.PublishTransition(context.Background(), sampleTransition(register.KindItemRemoved)))

	require.Len(t, ch.published, 1)
	assert.Equal(t, CartItemRemovedRoutingKey, ch.published[0].routingKey)

	var env contracts.EventEnvelope
	require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &env))
	assert.Equal(t, contracts.CartItemRemovedEventName, env.EventName)
	assert.Equal(t, "kasir-test", env.Producer)
}

func TestPublishTransition_Errors(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("connection reset")}
	p, err := newPublisher(ch, PublisherOptions{})
	require.NoError(t, err)

	err = p.PublishTransition(context.Background(), sampleTransition(register.KindItemAdded))
	assert.EqualError(t, err, "connection reset")

	err = p.PublishTransition(context.Background(), sampleTransition(register.Kind("bogus")))
	require.Error(t, err)
	assert.Len(t, ch.published, 1)
}

func TestKasirQueueName(t *testing.T) {
	assert.Equal(t, "kasir-service-go.kasir.cart.item-added.v1", KasirQueueName(CartItemAddedRoutingKey))
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.PublishTransition(context.Background(), sampleTransition(register.KindItemAdded)))
	assert.NoError(t, p.Close())
}
