package inventory

import "time"

// LowStockDetectedEvent is emitted when an order leaves a product at or below the low-stock threshold.
type LowStockDetectedEvent struct {
	OrderID    string
	ProductID  string
	Remaining  int
	Threshold  int
	OccurredAt time.Time
}

func (LowStockDetectedEvent) EventName() string { return "inventory.low_stock" }

func (e LowStockDetectedEvent) AggregateID() string { return e.ProductID }

func NewLowStockDetectedEvent(orderID, productID string, remaining, threshold int) LowStockDetectedEvent {
	return LowStockDetectedEvent{
		OrderID:    orderID,
		ProductID:  productID,
		Remaining:  remaining,
		Threshold:  threshold,
		OccurredAt: time.Now().UTC(),
	}
}
