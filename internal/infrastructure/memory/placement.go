package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/order"
)

// Placement runs placement transactions under the store's write lock. Changes are staged
// on a placementTx and only applied when fn succeeds, so a failed placement leaves no trace.
// fn must not call back into other repositories of the same Store.
type Placement struct {
	s *Store
}

var _ order.Placement = (*Placement)(nil)

func (p *Placement) Place(ctx context.Context, fn func(ctx context.Context, tx order.PlacementTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	tx := &placementTx{s: p.s, stock: make(map[string]int)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type placementTx struct {
	s      *Store
	stock  map[string]int
	orders []*order.Order
}

func (tx *placementTx) LockProducts(ctx context.Context, productIDs []string) (map[string]*catalog.Product, error) {
	_ = ctx
	out := make(map[string]*catalog.Product, len(productIDs))
	for _, id := range productIDs {
		p, ok := tx.s.products[id]
		if !ok {
			continue
		}
		clone := p.Clone()
		clone.Stock = tx.stockOf(id)
		out[id] = clone
	}
	return out, nil
}

func (tx *placementTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	_ = ctx
	if _, ok := tx.s.products[productID]; !ok {
		return fmt.Errorf("%w: %s", catalog.ErrProductNotFound, productID)
	}
	if quantity <= 0 {
		return catalog.ErrInvalidQuantity
	}
	available := tx.stockOf(productID)
	if quantity > available {
		return &catalog.InsufficientStockError{ProductID: productID, Requested: quantity, Available: available}
	}
	tx.stock[productID] = available - quantity
	return nil
}

func (tx *placementTx) InsertOrder(ctx context.Context, o *order.Order) error {
	_ = ctx
	if o == nil || o.ID == "" {
		return fmt.Errorf("order repository: id is required")
	}
	if _, exists := tx.s.orders[o.ID]; exists {
		return order.ErrConflict
	}
	for _, staged := range tx.orders {
		if staged.ID == o.ID {
			return order.ErrConflict
		}
	}
	tx.orders = append(tx.orders, o.Clone())
	return nil
}

func (tx *placementTx) stockOf(productID string) int {
	if staged, ok := tx.stock[productID]; ok {
		return staged
	}
	return tx.s.products[productID].Stock
}

func (tx *placementTx) commit() {
	now := time.Now().UTC()
	for id, stock := range tx.stock {
		p := tx.s.products[id]
		p.Stock = stock
		p.UpdatedAt = now
	}
	for _, o := range tx.orders {
		tx.s.orders[o.ID] = o
	}
}
