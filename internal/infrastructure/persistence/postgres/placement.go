package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/order"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Placement runs each placement in one database transaction. Product rows are taken with
// SELECT ... FOR UPDATE in id order, so concurrent placements over overlapping carts cannot deadlock.
type Placement struct {
	db *gorm.DB
}

var _ order.Placement = (*Placement)(nil)

func NewPlacement(db *gorm.DB) *Placement {
	return &Placement{db: db}
}

func (p *Placement) Place(ctx context.Context, fn func(ctx context.Context, tx order.PlacementTx) error) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &placementTx{db: tx})
	})
}

type placementTx struct {
	db *gorm.DB
}

func (t *placementTx) LockProducts(ctx context.Context, productIDs []string) (map[string]*catalog.Product, error) {
	out := make(map[string]*catalog.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	ids := append([]string(nil), productIDs...)
	sort.Strings(ids)

	var models []productModel
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: lock products: %w", err)
	}
	for i := range models {
		out[models[i].ID] = models[i].toDomain()
	}
	return out, nil
}

// DecrementStock guards the update with stock >= quantity, so stock never goes negative
// even if a caller skipped LockProducts.
func (t *placementTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return catalog.ErrInvalidQuantity
	}
	res := t.db.WithContext(ctx).Model(&productModel{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return fmt.Errorf("postgres: decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var m productModel
	err := t.db.WithContext(ctx).Select("id", "stock").Where("id = ?", productID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", catalog.ErrProductNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("postgres: read stock: %w", err)
	}
	return &catalog.InsufficientStockError{ProductID: productID, Requested: quantity, Available: m.Stock}
}

func (t *placementTx) InsertOrder(ctx context.Context, o *order.Order) error {
	if err := t.db.WithContext(ctx).Create(orderFromDomain(o)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return order.ErrConflict
		}
		return fmt.Errorf("postgres: insert order: %w", err)
	}
	return nil
}
