package order

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/id"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var (
	alice   = account.Identity{AccountID: "alice", Username: "alice", Role: account.RoleCustomer}
	bob     = account.Identity{AccountID: "bob", Username: "bob", Role: account.RoleCustomer}
	manager = account.Identity{AccountID: "mgr", Username: "boss", Role: account.RoleManager}
)

type fixture struct {
	store *memory.Store
	uc    *PlaceOrderUseCase
	svc   *Service

	mu     sync.Mutex
	events []domoutbox.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore()}
	pub := domoutbox.PublisherFunc(func(ctx context.Context, e domoutbox.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.events = append(f.events, e)
		return nil
	})
	f.uc = NewPlaceOrderUseCase(f.store.Placement(), id.NewUUIDGenerator(), pub, nil)
	f.svc = NewService(f.store.Orders(), f.store.Catalog(), f.store.Accounts(), pub, nil)

	ctx := context.Background()
	c, err := catalog.NewCategory("cat", "Kits", "")
	require.NoError(t, err)
	require.NoError(t, f.store.Catalog().CreateCategory(ctx, c))
	for _, who := range []account.Identity{alice, bob, manager} {
		a, err := account.New(who.AccountID, who.Username, who.Username+"@example.com", "hash", who.Role)
		require.NoError(t, err)
		require.NoError(t, f.store.Accounts().Create(ctx, a))
	}
	return f
}

func (f *fixture) addProduct(t *testing.T, productID string, price string, stock int) {
	t.Helper()
	p, err := catalog.NewProduct(productID, catalog.NewProductInput{
		Name: "Product " + productID, Price: decimal.RequireFromString(price), Stock: stock, CategoryID: "cat",
	})
	require.NoError(t, err)
	require.NoError(t, f.store.Catalog().CreateProduct(context.Background(), p))
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.Catalog().GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	all, err := f.store.Orders().List(context.Background(), domain.HistoryFilter{})
	require.NoError(t, err)
	return len(all)
}

func cart(lines ...domain.CartLine) domain.Cart { return lines }

func TestPlaceOrderComputesTotal(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "a", "19.99", 10)
	f.addProduct(t, "b", "5.50", 10)

	res, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		Identity: alice,
		Cart:     cart(domain.CartLine{ProductID: "a", Quantity: 2}, domain.CartLine{ProductID: "b", Quantity: 1}),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.OrderID)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("45.48")), res.Total.String())
	assert.Equal(t, 8, f.stock(t, "a"))
	assert.Equal(t, 9, f.stock(t, "b"))

	o, err := f.store.Orders().Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, o.Status)
	assert.Len(t, o.Lines, 2)
}

func TestPlaceOrderLastUnitRace(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p", "10", 1)

	var g errgroup.Group
	results := make([]error, 2)
	for i, who := range []account.Identity{alice, bob} {
		g.Go(func() error {
			_, results[i] = f.uc.Execute(context.Background(), PlaceOrderInput{
				Identity: who,
				Cart:     cart(domain.CartLine{ProductID: "p", Quantity: 1}),
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var short *catalog.InsufficientStockError
		require.ErrorAs(t, err, &short)
		assert.Equal(t, "p", short.ProductID)
		assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, f.stock(t, "p"))
	assert.Equal(t, 1, f.orderCount(t))
}

func TestPlaceOrderStockNeverOversold(t *testing.T) {
	const initial, buyers = 25, 60
	f := newFixture(t)
	f.addProduct(t, "p", "1", initial)

	var committed atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(16)
	for i := 0; i < buyers; i++ {
		qty := 1 + i%3
		g.Go(func() error {
			_, err := f.uc.Execute(ctx, PlaceOrderInput{
				Identity: alice,
				Cart:     cart(domain.CartLine{ProductID: "p", Quantity: qty}),
			})
			var short *catalog.InsufficientStockError
			switch {
			case err == nil:
				committed.Add(int64(qty))
				return nil
			case errors.As(err, &short):
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	final := f.stock(t, "p")
	assert.GreaterOrEqual(t, final, 0)
	assert.Equal(t, initial-int(committed.Load()), final)
}

func TestPlaceOrderAllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "a", "3", 10)
	f.addProduct(t, "b", "4", 5)

	_, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		Identity: alice,
		Cart:     cart(domain.CartLine{ProductID: "a", Quantity: 2}, domain.CartLine{ProductID: "b", Quantity: 100}),
	})
	var short *catalog.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "b", short.ProductID)
	assert.Equal(t, 100, short.Requested)
	assert.Equal(t, 5, short.Available)
	assert.Equal(t, 95, short.Shortfall())

	assert.Equal(t, 10, f.stock(t, "a"))
	assert.Equal(t, 5, f.stock(t, "b"))
	assert.Zero(t, f.orderCount(t))
	assert.Empty(t, f.events)
}

func TestPlaceOrderRepeatedLinesAddUp(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "a", "1", 3)

	_, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		Identity: alice,
		Cart:     cart(domain.CartLine{ProductID: "a", Quantity: 2}, domain.CartLine{ProductID: "a", Quantity: 2}),
	})
	var short *catalog.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.Requested)
	assert.Equal(t, 1, short.Available)
	assert.Equal(t, 3, f.stock(t, "a"))
}

func TestPlaceOrderRejections(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "a", "1", 3)

	tests := []struct {
		name string
		in   PlaceOrderInput
		kind apperr.Kind
		is   error
	}{
		{"manager", PlaceOrderInput{Identity: manager, Cart: cart(domain.CartLine{ProductID: "a", Quantity: 1})}, apperr.KindForbidden, account.ErrForbidden},
		{"empty cart", PlaceOrderInput{Identity: alice}, apperr.KindValidation, domain.ErrEmptyCart},
		{"zero quantity", PlaceOrderInput{Identity: alice, Cart: cart(domain.CartLine{ProductID: "a"})}, apperr.KindValidation, domain.ErrInvalidQuantity},
		{"unknown product", PlaceOrderInput{Identity: alice, Cart: cart(
			domain.CartLine{ProductID: "a", Quantity: 1},
			domain.CartLine{ProductID: "ghost", Quantity: 1},
		)}, apperr.KindNotFound, catalog.ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.ErrorIs(t, err, tt.is)
		})
	}
	assert.Equal(t, 3, f.stock(t, "a"))
	assert.Zero(t, f.orderCount(t))
}

func TestPlaceOrderUnknownProductIsNamed(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		Identity: alice,
		Cart:     cart(domain.CartLine{ProductID: "ghost", Quantity: 1}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestPlaceOrderPublishesRemainingStock(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "a", "2", 4)

	res, err := f.uc.Execute(context.Background(), PlaceOrderInput{
		Identity: alice,
		Cart:     cart(domain.CartLine{ProductID: "a", Quantity: 3}),
	})
	require.NoError(t, err)

	require.Len(t, f.events, 1)
	evt, ok := f.events[0].(domain.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, res.OrderID, evt.OrderID)
	require.Len(t, evt.Lines, 1)
	assert.Equal(t, 1, evt.Lines[0].RemainingStock)
}

func TestPlaceOrderSurvivesPublishFailure(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	c, _ := catalog.NewCategory("cat", "Kits", "")
	require.NoError(t, store.Catalog().CreateCategory(ctx, c))
	p, _ := catalog.NewProduct("a", catalog.NewProductInput{Name: "A", Price: decimal.NewFromInt(1), Stock: 1, CategoryID: "cat"})
	require.NoError(t, store.Catalog().CreateProduct(ctx, p))

	failing := domoutbox.PublisherFunc(func(context.Context, domoutbox.Event) error { return errors.New("bus down") })
	uc := NewPlaceOrderUseCase(store.Placement(), id.NewUUIDGenerator(), failing, nil)

	res, err := uc.Execute(ctx, PlaceOrderInput{Identity: alice, Cart: cart(domain.CartLine{ProductID: "a", Quantity: 1})})
	require.NoError(t, err)
	assert.NotEmpty(t, res.OrderID)
}
