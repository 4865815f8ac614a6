package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/application"
	dominv "github.com/Zhima-Mochi/storefront/internal/domain/inventory"
	domorder "github.com/Zhima-Mochi/storefront/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

const publishTimeout = 300 * time.Millisecond

type StockCheckResult struct {
	// LowStock lists the products of the order left at or below the threshold, in line order.
	LowStock []dominv.LowStockDetectedEvent
}

// CheckStockUseCase inspects the stock an order left behind and flags products running low.
type CheckStockUseCase struct {
	policy    dominv.LowStockPolicy
	publisher domoutbox.Publisher
	tel       observability.Observability
	lowStock  observability.Counter // inventory_low_stock_total{product_id}
}

var _ application.UseCase[domorder.OrderPlacedEvent, *StockCheckResult] = (*CheckStockUseCase)(nil)

func NewCheckStockUseCase(policy dominv.LowStockPolicy, publisher domoutbox.Publisher, tel observability.Observability) *CheckStockUseCase {
	return &CheckStockUseCase{
		policy:    policy,
		publisher: publisher,
		tel:       tel,
		lowStock:  observability.MetricsOf(tel).Counter(observability.MInventoryLowStock),
	}
}

func (uc *CheckStockUseCase) Execute(ctx context.Context, evt domorder.OrderPlacedEvent) (_ *StockCheckResult, err error) {
	ctx, run := application.Begin(ctx, uc.tel, "inventory.stock_check", "CheckStock",
		attribute.String("order.id", evt.OrderID))
	defer func() { run.End(err) }()

	res := &StockCheckResult{}
	seen := make(map[string]struct{}, len(evt.Lines))
	for _, l := range evt.Lines {
		if _, dup := seen[l.ProductID]; dup {
			continue
		}
		seen[l.ProductID] = struct{}{}
		if !uc.policy.Breached(l.RemainingStock) {
			continue
		}

		low := dominv.NewLowStockDetectedEvent(evt.OrderID, l.ProductID, l.RemainingStock, uc.policy.Threshold)
		res.LowStock = append(res.LowStock, low)
		uc.lowStock.Add(1, observability.L("product_id", l.ProductID))
		run.Logger().Warn("inventory_low_stock",
			observability.F("product_id", l.ProductID),
			observability.F("remaining", l.RemainingStock),
			observability.F("threshold", uc.policy.Threshold),
		)

		if uc.publisher != nil {
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			perr := uc.publisher.Publish(pubCtx, low)
			cancel()
			if perr != nil {
				return res, fmt.Errorf("inventory: publish low stock for %s: %w", l.ProductID, perr)
			}
		}
	}
	run.Annotate(observability.F("low_stock_products", len(res.LowStock)))
	return res, nil
}
