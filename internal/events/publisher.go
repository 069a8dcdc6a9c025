package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/register"
)

type channel interface {
	exchangeDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type PublisherOptions struct {
	Producer string
}

// Publisher sends register transitions to the events exchange as enveloped
// JSON.
type Publisher struct {
	ch       channel
	producer string
}

var _ register.Publisher = (*Publisher)(nil)

func NewPublisher(conn *amqp.Connection, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newPublisher(ch, opts)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch channel, opts PublisherOptions) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = contracts.KasirServiceProducer
	}
	return &Publisher{ch: ch, producer: producer}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishTransition(ctx context.Context, t register.Transition) error {
	eventName, routingKey, err := routeFor(t.Kind)
	if err != nil {
		return err
	}

	env := NewTransitionEvent(eventName, t, p.producer)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", eventName, err)
	}

	return p.publishJSON(ctx, routingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func routeFor(kind register.Kind) (eventName, routingKey string, err error) {
	switch kind {
	case register.KindItemAdded:
		return contracts.CartItemAddedEventName, CartItemAddedRoutingKey, nil
	case register.KindItemRemoved:
		return contracts.CartItemRemovedEventName, CartItemRemovedRoutingKey, nil
	default:
		return "", "", fmt.Errorf("unknown transition kind %q", kind)
	}
}

func NewTransitionEvent(eventName string, t register.Transition, producer string) contracts.EventEnvelope {
	return contracts.BuildCartTransitionEvent(eventName, t.ProductID, t.Cart, contracts.EnvelopeOptions{
		PartitionKey:  t.RegisterID,
		Sequence:      t.Seq,
		Producer:      producer,
		CorrelationID: t.CorrelationID,
		OccurredAt:    t.OccurredAt,
	})
}

// NopPublisher drops every transition. It is used when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransition(context.Context, register.Transition) error { return nil }

func (NopPublisher) Close() error { return nil }
