package workerpresentation

import (
	"context"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/application"
	appinventory "github.com/Zhima-Mochi/storefront/internal/application/inventory"
	domorder "github.com/Zhima-Mochi/storefront/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/observability/logctx"
)

const workerStockWatch = "stock_watcher"

// StockWatcher feeds every committed order into the stock check.
type StockWatcher struct {
	subscriber domoutbox.Subscriber
	useCase    application.UseCase[domorder.OrderPlacedEvent, *appinventory.StockCheckResult]

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewStockWatcher(
	subscriber domoutbox.Subscriber,
	useCase application.UseCase[domorder.OrderPlacedEvent, *appinventory.StockCheckResult],
	tel observability.Observability,
) *StockWatcher {
	m := observability.MetricsOf(tel)
	return &StockWatcher{
		subscriber:   subscriber,
		useCase:      useCase,
		log:          observability.LoggerOf(tel).With(observability.F("service", workerStockWatch)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
	}
}

func (w *StockWatcher) Start() {
	if w.subscriber == nil || w.useCase == nil {
		return
	}
	w.subscriber.Subscribe(domorder.OrderPlacedEvent{}.EventName(), w.handleOrderPlaced)
}

func (w *StockWatcher) handleOrderPlaced(ctx context.Context, e domoutbox.Event) error {
	const useCase = "inventory.worker.order_placed"
	evt, ok := e.(domorder.OrderPlacedEvent)
	if !ok {
		w.count(useCase, "ignored")
		return nil
	}

	ctx = WithEventContext(ctx, logctx.FromOr(ctx, w.log), map[string]string{
		"event":    e.EventName(),
		"order_id": evt.OrderID,
	})
	logger := logctx.FromOr(ctx, w.log)

	start := time.Now()
	outcome := "success"
	defer func() {
		w.count(useCase, outcome)
		w.durHistogram.Observe(time.Since(start).Seconds(), observability.L("use_case", useCase))
	}()

	res, err := w.useCase.Execute(ctx, evt)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("worker: stock check: %w", err)
	}
	if len(res.LowStock) > 0 {
		logger.Debug("stock_watch_flagged", observability.F("products", len(res.LowStock)))
	}
	return nil
}

func (w *StockWatcher) count(useCase, outcome string) {
	w.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
}
