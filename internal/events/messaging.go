package events

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange            = "ecommerce.events"
	CartItemAddedRoutingKey   = "kasir.cart.item-added.v1"
	CartItemRemovedRoutingKey = "kasir.cart.item-removed.v1"
	kasirServiceName          = "kasir-service-go"

	publishTimeout = 3 * time.Second
)

func serviceQueue(serviceName, routingKey string) string {
	return serviceName + "." + routingKey
}

// KasirQueueName is the queue name a consumer of kasir events would bind.
func KasirQueueName(routingKey string) string {
	return serviceQueue(kasirServiceName, routingKey)
}

type exchangeDeclarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
}

func declareEventsExchange(ch exchangeDeclarer) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}
