package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/observability/logctx"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	orderService      = "order-service"
	useCasePlaceOrder = "order.place"
	spanPrefix        = "UC."
	publishPeer       = "outbox"
	publishEndpoint   = "order.placed"
	publishTimeout    = 300 * time.Millisecond
)

// PlaceOrderUseCase turns a customer's cart into a committed order, all lines or none.
type PlaceOrderUseCase struct {
	placement   domain.Placement
	idGenerator IDGenerator
	publisher   domoutbox.Publisher
	tel         observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

func NewPlaceOrderUseCase(
	placement domain.Placement,
	idGen IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *PlaceOrderUseCase {
	m := observability.MetricsOf(tel)
	return &PlaceOrderUseCase{
		placement:    placement,
		idGenerator:  idGen,
		publisher:    publisher,
		tel:          tel,
		log:          observability.LoggerOf(tel).With(observability.F("service", orderService)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
		extCounter:   m.Counter(observability.MExternalRequests),
		extHistogram: m.Histogram(observability.MExternalRequestDuration),
	}
}

type PlaceOrderInput struct {
	Identity account.Identity
	Cart     domain.Cart
}

type PlaceOrderResult struct {
	OrderID string
	Total   decimal.Decimal
}

// Execute authorizes the caller, then checks, prices and decrements every line inside one
// placement transaction. The first failing line aborts the whole order.
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, cmd PlaceOrderInput) (_ *PlaceOrderResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCasePlaceOrder),
		observability.F("customer_id", cmd.Identity.AccountID),
	)

	var placed *domain.Order
	var remaining map[string]int
	var publishErr error

	ctx, span := observability.TracerOf(uc.tel).Start(ctx, spanPrefix+"PlaceOrder",
		attribute.String("use_case", useCasePlaceOrder),
		attribute.String("order.customer_id", cmd.Identity.AccountID),
		attribute.Int("order.lines", len(cmd.Cart)),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

	defer func() {
		lat := time.Since(start).Seconds()

		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		uc.reqCounter.Add(1,
			observability.L("use_case", useCasePlaceOrder),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat,
			observability.L("use_case", useCasePlaceOrder),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if placed != nil {
			fields = append(fields,
				observability.F("order_id", placed.ID),
				observability.F("total", placed.Total.String()),
			)
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if err := account.Authorize(cmd.Identity, account.ActionPlaceOrder); err != nil {
		statusText = "FORBIDDEN"
		return nil, err
	}
	if err := cmd.Cart.Validate(); err != nil {
		statusText = "CART_INVALID"
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		statusText = "CONTEXT_CANCELED"
		return nil, err
	}

	orderID := uc.idGenerator.NewID()
	err = uc.placement.Place(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
		var txErr error
		placed, remaining, txErr = placeInTx(ctx, tx, orderID, cmd)
		return txErr
	})
	if err != nil {
		placed = nil
		var short *catalog.InsufficientStockError
		switch {
		case errors.As(err, &short):
			statusText = "INSUFFICIENT_STOCK"
			span.SetAttributes(attribute.String("order.short_product_id", short.ProductID))
		case apperr.Is(err, apperr.KindNotFound):
			statusText = "PRODUCT_NOT_FOUND"
		default:
			statusText = "PLACEMENT_FAILED"
			if apperr.KindOf(err) == apperr.KindInternal {
				err = apperr.Wrap(apperr.KindInternal, err, "order: placement failed")
			}
		}
		return nil, err
	}

	if uc.publisher != nil {
		publishErr = uc.publish(ctx, domain.NewOrderPlacedEvent(placed, remaining))
		if publishErr != nil {
			statusText = "EVENT_PUBLISH_FAILED"
			logger.Warn("event_publish_failed",
				observability.F("event", publishEndpoint),
				observability.F("order_id", placed.ID),
				observability.F("error", publishErr.Error()),
			)
		}
	}

	span.SetAttributes(
		attribute.String("order.id", placed.ID),
		attribute.String("order.total", placed.Total.String()),
	)
	span.AddEvent("order.placed", trace.WithAttributes(attribute.String("order.id", placed.ID)))

	return &PlaceOrderResult{OrderID: placed.ID, Total: placed.Total}, nil
}

// placeInTx runs under the placement lock. It returns the order and each product's stock after it.
func placeInTx(ctx context.Context, tx domain.PlacementTx, orderID string, cmd PlaceOrderInput) (*domain.Order, map[string]int, error) {
	ids := cmd.Cart.ProductIDs()
	products, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("order: lock products: %w", err)
	}
	for _, l := range cmd.Cart {
		if _, ok := products[l.ProductID]; !ok {
			return nil, nil, fmt.Errorf("order: product %s: %w", l.ProductID, catalog.ErrProductNotFound)
		}
	}

	// Reserve against working copies so repeated lines for one product add up.
	lines := make([]domain.Line, 0, len(cmd.Cart))
	taken := make(map[string]int, len(ids))
	for _, l := range cmd.Cart {
		p := products[l.ProductID]
		if err := p.Reserve(l.Quantity); err != nil {
			return nil, nil, err
		}
		taken[l.ProductID] += l.Quantity
		lines = append(lines, domain.Line{ProductID: p.ID, Quantity: l.Quantity, UnitPrice: p.Price})
	}

	o, err := domain.New(orderID, cmd.Identity.AccountID, lines)
	if err != nil {
		return nil, nil, err
	}

	remaining := make(map[string]int, len(ids))
	for _, id := range ids {
		if err := tx.DecrementStock(ctx, id, taken[id]); err != nil {
			return nil, nil, err
		}
		remaining[id] = products[id].Stock
	}
	if err := tx.InsertOrder(ctx, o); err != nil {
		return nil, nil, fmt.Errorf("order: insert: %w", err)
	}
	return o, remaining, nil
}

func (uc *PlaceOrderUseCase) publish(ctx context.Context, e domoutbox.Event) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pubStart := time.Now()
	pubOutcome := "success"
	err := uc.publisher.Publish(pubCtx, e)
	if err != nil {
		pubOutcome = "error"
	} else if pubCtx.Err() != nil {
		pubOutcome = "canceled"
		err = pubCtx.Err()
	}

	uc.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", publishEndpoint),
		observability.L("outcome", pubOutcome),
	)
	uc.extHistogram.Observe(time.Since(pubStart).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", publishEndpoint),
	)
	return err
}
