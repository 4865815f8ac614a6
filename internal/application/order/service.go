package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/application"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// Service covers the order operations after placement: status changes and history.
type Service struct {
	orders    domain.Repository
	products  catalog.Repository
	accounts  account.Repository
	publisher domoutbox.Publisher
	tel       observability.Observability
}

func NewService(
	orders domain.Repository,
	products catalog.Repository,
	accounts account.Repository,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *Service {
	return &Service{orders: orders, products: products, accounts: accounts, publisher: publisher, tel: tel}
}

// UpdateStatus sets any of the known statuses on the order, whatever its current status.
func (s *Service) UpdateStatus(ctx context.Context, id account.Identity, orderID, status string) (_ domain.Status, err error) {
	ctx, run := application.Begin(ctx, s.tel, "order.status.update", "UpdateOrderStatus",
		attribute.String("order.id", orderID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionUpdateOrderStatus); err != nil {
		return "", err
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return "", err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, st); err != nil {
		return "", fmt.Errorf("order: update status: %w", err)
	}
	run.Annotate(observability.F("order_id", orderID), observability.F("order_status", string(st)))

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if perr := s.publisher.Publish(pubCtx, domain.NewOrderStatusChangedEvent(orderID, st, id.AccountID)); perr != nil {
			run.Logger().Warn("event_publish_failed",
				observability.F("event", "order.status_changed"),
				observability.F("order_id", orderID),
				observability.F("error", perr.Error()),
			)
		}
	}
	return st, nil
}

type HistoryQuery struct {
	UserID string
	Status string
}

type LineView struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

type OrderView struct {
	ID         string
	CustomerID string
	// Username is only filled for managers.
	Username  string
	Status    domain.Status
	Total     decimal.Decimal
	CreatedAt time.Time
	Lines     []LineView
}

// History lists orders newest first. Customers only ever see their own orders.
func (s *Service) History(ctx context.Context, id account.Identity, q HistoryQuery) (_ []OrderView, err error) {
	ctx, run := application.Begin(ctx, s.tel, "order.history", "OrderHistory")
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionViewOwnOrders); err != nil {
		return nil, err
	}
	f := domain.HistoryFilter{CustomerID: id.AccountID}
	if id.Role.Can(account.ActionViewAllOrders) {
		f.CustomerID = q.UserID
	}
	if q.Status != "" {
		st, err := domain.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}

	names := make(map[string]string)
	usernames := make(map[string]string)
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			Status:     o.Status,
			Total:      o.Total,
			CreatedAt:  o.CreatedAt,
			Lines:      make([]LineView, 0, len(o.Lines)),
		}
		if id.IsManager() {
			if v.Username, err = s.lookupUsername(ctx, usernames, o.CustomerID); err != nil {
				return nil, err
			}
		}
		for _, l := range o.Lines {
			name, err := s.lookupProductName(ctx, names, l.ProductID)
			if err != nil {
				return nil, err
			}
			v.Lines = append(v.Lines, LineView{
				ProductID:   l.ProductID,
				ProductName: name,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Subtotal:    l.Subtotal(),
			})
		}
		views = append(views, v)
	}
	run.Annotate(observability.F("orders", len(views)))
	return views, nil
}

// lookupProductName returns "" for products deleted since the order was placed.
func (s *Service) lookupProductName(ctx context.Context, cache map[string]string, productID string) (string, error) {
	if name, ok := cache[productID]; ok {
		return name, nil
	}
	p, err := s.products.GetProduct(ctx, productID)
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		cache[productID] = ""
	case err != nil:
		return "", fmt.Errorf("order: load product: %w", err)
	default:
		cache[productID] = p.Name
	}
	return cache[productID], nil
}

func (s *Service) lookupUsername(ctx context.Context, cache map[string]string, accountID string) (string, error) {
	if name, ok := cache[accountID]; ok {
		return name, nil
	}
	a, err := s.accounts.Get(ctx, accountID)
	switch {
	case errors.Is(err, account.ErrNotFound):
		cache[accountID] = ""
	case err != nil:
		return "", fmt.Errorf("order: load account: %w", err)
	default:
		cache[accountID] = a.Username
	}
	return cache[accountID], nil
}
