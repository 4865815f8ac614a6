package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlacedLine describes one committed line and the product's stock after the commit.
type PlacedLine struct {
	ProductID      string
	Quantity       int
	UnitPrice      decimal.Decimal
	RemainingStock int
}

// OrderPlacedEvent is emitted after a placement transaction commits.
type OrderPlacedEvent struct {
	OrderID    string
	CustomerID string
	Total      decimal.Decimal
	Lines      []PlacedLine
	OccurredAt time.Time
}

func (OrderPlacedEvent) EventName() string { return "order.placed" }

func (e OrderPlacedEvent) AggregateID() string { return e.OrderID }

func NewOrderPlacedEvent(o *Order, remaining map[string]int) OrderPlacedEvent {
	lines := make([]PlacedLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, PlacedLine{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			RemainingStock: remaining[l.ProductID],
		})
	}
	return OrderPlacedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Total:      o.Total,
		Lines:      lines,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderStatusChangedEvent is emitted when a manager sets an order's status.
type OrderStatusChangedEvent struct {
	OrderID    string
	Status     Status
	ChangedBy  string
	OccurredAt time.Time
}

func (OrderStatusChangedEvent) EventName() string { return "order.status_changed" }

func (e OrderStatusChangedEvent) AggregateID() string { return e.OrderID }

func NewOrderStatusChangedEvent(orderID string, s Status, changedBy string) OrderStatusChangedEvent {
	return OrderStatusChangedEvent{
		OrderID:    orderID,
		Status:     s,
		ChangedBy:  changedBy,
		OccurredAt: time.Now().UTC(),
	}
}
