package order

import (
	"context"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
)

// HistoryFilter narrows an order listing. Empty fields mean "any".
type HistoryFilter struct {
	CustomerID string
	Status     Status
}

type Repository interface {
	Get(ctx context.Context, id string) (*Order, error)
	// List returns matching orders newest first.
	List(ctx context.Context, f HistoryFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, s Status) error
}

// PlacementTx is the view of storage inside one placement transaction.
// Products returned by LockProducts stay locked against other placements and
// manager stock edits until the transaction ends.
type PlacementTx interface {
	// LockProducts returns the requested products keyed by id; missing ids are absent from the map.
	LockProducts(ctx context.Context, productIDs []string) (map[string]*catalog.Product, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
	InsertOrder(ctx context.Context, o *Order) error
}

// Placement runs fn as one atomic unit: it commits when fn returns nil and rolls back otherwise.
type Placement interface {
	Place(ctx context.Context, fn func(ctx context.Context, tx PlacementTx) error) error
}
