package memory

import (
	"context"

	"github.com/Zhima-Mochi/storefront/internal/domain/order"
)

type OrderRepository struct {
	s *Store
}

var _ order.Repository = (*OrderRepository)(nil)

func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) List(ctx context.Context, f order.HistoryFilter) ([]*order.Order, error) {
	_ = ctx
	r.s.mu.RLock()
	out := make([]*order.Order, 0)
	for _, o := range r.s.orders {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o.Clone())
	}
	r.s.mu.RUnlock()

	sortOrdersNewestFirst(out)
	return out, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, s order.Status) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.SetStatus(s)
	return nil
}
