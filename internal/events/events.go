// Package events turns domain changes into broker messages.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/pkg/money"

	"github.com/shopspring/decimal"
)

const (
	TypeUserRegistered     = "user.registered"
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event is the envelope written to the broker.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Sender is a broker producer: rabbitmq.Client and kafka.Producer both satisfy it.
type Sender interface {
	Send(ctx context.Context, key string, body []byte) error
	Close() error
}

// BrokerPublisher encodes events as JSON and hands them to a Sender keyed by type.
type BrokerPublisher struct {
	sender Sender
}

func NewBrokerPublisher(sender Sender) *BrokerPublisher {
	return &BrokerPublisher{sender: sender}
}

func (p *BrokerPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	if err := p.sender.Send(ctx, event.Type, body); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	log.Printf("Published %s event", event.Type)
	return nil
}

func (p *BrokerPublisher) Close() error {
	return p.sender.Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

type userPayload struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}

type orderLine struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type orderPayload struct {
	OrderID     int                `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      int                `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []orderLine        `json:"items,omitempty"`
}

// UserRegistered describes a newly created account.
func UserRegistered(u models.User) Event {
	return Event{
		Type:       TypeUserRegistered,
		OccurredAt: time.Now().UTC(),
		Payload:    userPayload{UserID: u.ID, Email: u.Email},
	}
}

// OrderPlaced describes a new order; amounts are in major units.
func OrderPlaced(o models.Order) Event {
	lines := make([]orderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, orderLine{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   money.FromMinor(it.ProductPrice),
			Total:       money.FromMinor(it.TotalPrice),
		})
	}
	return Event{
		Type:       TypeOrderPlaced,
		OccurredAt: time.Now().UTC(),
		Payload: orderPayload{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			Status:      o.Status,
			TotalAmount: money.FromMinor(o.TotalAmount),
			Items:       lines,
		},
	}
}

// OrderStatusChanged describes a status transition of an existing order.
func OrderStatusChanged(o models.Order) Event {
	return Event{
		Type:       TypeOrderStatusChanged,
		OccurredAt: time.Now().UTC(),
		Payload: orderPayload{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			Status:      o.Status,
			TotalAmount: money.FromMinor(o.TotalAmount),
		},
	}
}
