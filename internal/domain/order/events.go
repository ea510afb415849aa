package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an order lifecycle event
type EventType string

const (
	EventCreated   EventType = "order.created"
	EventPaid      EventType = "order.paid"
	EventDelivered EventType = "order.delivered"
	EventDeleted   EventType = "order.deleted"
)

// Event is published after the transaction that caused it has committed
type Event struct {
	Type        EventType       `json:"type"`
	OrderID     uint            `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uint            `json:"user_id"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      Status          `json:"status"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// EventPublisher delivers order events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish implements EventPublisher
func (NopPublisher) Publish(context.Context, Event) error { return nil }

func newEvent(t EventType, o *Order, at time.Time) Event {
	return Event{
		Type:        t,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		TotalPrice:  o.TotalPrice,
		Status:      o.Status,
		OccurredAt:  at.UTC(),
	}
}
