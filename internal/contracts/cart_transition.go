package contracts

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/cart"
)

const (
	CartItemAddedEventName   = "CartItemAdded"
	CartItemRemovedEventName = "CartItemRemoved"
	CartTransitionVersion    = 1
	CartTransitionSchemaPath = "contracts/events/kasir/CartTransition.v1.enveloped.schema.json"
	KasirServiceProducer     = "kasir-service"
)

type EventEnvelope struct {
	EventName     string                `json:"eventName"`
	EventVersion  int                   `json:"eventVersion"`
	EventID       string                `json:"eventId"`
	CorrelationID string                `json:"correlationId,omitempty"`
	CausationID   string                `json:"causationId,omitempty"`
	Producer      string                `json:"producer"`
	PartitionKey  string                `json:"partitionKey"`
	Sequence      int64                 `json:"sequence"`
	OccurredAt    time.Time             `json:"occurredAt"`
	Schema        string                `json:"schema"`
	Payload       CartTransitionPayload `json:"payload"`
}

type CartTransitionPayload struct {
	RegisterID  string     `json:"registerId"`
	ProductID   int64      `json:"productId"`
	Lines       []CartLine `json:"lines"`
	TotalAmount int64      `json:"totalAmount"`
	Timestamp   time.Time  `json:"timestamp"`
}

type CartLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

// BuildCartTransitionEvent wraps the cart as it stands after a transition.
// The register id doubles as the partition key.
func BuildCartTransitionEvent(eventName string, productID int64, c cart.Cart, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = CartTransitionSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = KasirServiceProducer
	}

	payload := CartTransitionPayload{
		RegisterID:  opts.PartitionKey,
		ProductID:   productID,
		Lines:       []CartLine{},
		TotalAmount: cart.Total(c),
		Timestamp:   occurredAt,
	}
	for _, l := range c.Lines() {
		payload.Lines = append(payload.Lines, CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}

	return EventEnvelope{
		EventName:     eventName,
		EventVersion:  CartTransitionVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  opts.PartitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload:       payload,
	}
}

func (e EventEnvelope) Validate() error {
	switch e.EventName {
	case CartItemAddedEventName, CartItemRemovedEventName:
	default:
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != CartTransitionVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if _, err := uuid.Parse(e.EventID); err != nil {
		return fmt.Errorf("invalid eventId: %w", err)
	}
	if e.PartitionKey == "" {
		return errors.New("partitionKey is required")
	}
	if e.Sequence <= 0 {
		return errors.New("sequence must be positive")
	}
	if e.Producer == "" {
		return errors.New("producer is required")
	}
	if e.Schema != CartTransitionSchemaPath {
		return fmt.Errorf("unexpected schema %q", e.Schema)
	}
	if e.Payload.TotalAmount < 0 {
		return errors.New("totalAmount must not be negative")
	}
	for i, l := range e.Payload.Lines {
		if l.Quantity < 1 {
			return fmt.Errorf("lines[%d]: quantity must be positive", i)
		}
	}
	return nil
}
