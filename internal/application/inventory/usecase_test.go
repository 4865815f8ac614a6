package inventory

import (
	"context"
	"errors"
	"testing"

	dominv "github.com/Zhima-Mochi/storefront/internal/domain/inventory"
	domorder "github.com/Zhima-Mochi/storefront/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placed(lines ...domorder.PlacedLine) domorder.OrderPlacedEvent {
	return domorder.OrderPlacedEvent{OrderID: "o1", CustomerID: "c1", Lines: lines}
}

func TestCheckStockFlagsProductsAtOrBelowThreshold(t *testing.T) {
	var published []domoutbox.Event
	pub := domoutbox.PublisherFunc(func(_ context.Context, e domoutbox.Event) error {
		published = append(published, e)
		return nil
	})
	uc := NewCheckStockUseCase(dominv.LowStockPolicy{Threshold: 2}, pub, nil)

	res, err := uc.Execute(context.Background(), placed(
		domorder.PlacedLine{ProductID: "a", Quantity: 1, RemainingStock: 10},
		domorder.PlacedLine{ProductID: "b", Quantity: 3, RemainingStock: 2},
		domorder.PlacedLine{ProductID: "c", Quantity: 1, RemainingStock: 0},
		domorder.PlacedLine{ProductID: "b", Quantity: 1, RemainingStock: 2},
	))
	require.NoError(t, err)
	require.Len(t, res.LowStock, 2)
	assert.Equal(t, "b", res.LowStock[0].ProductID)
	assert.Equal(t, "c", res.LowStock[1].ProductID)
	assert.Equal(t, 2, res.LowStock[0].Threshold)
	assert.Len(t, published, 2)
}

func TestCheckStockReportsPublishFailure(t *testing.T) {
	boom := errors.New("bus stopped")
	pub := domoutbox.PublisherFunc(func(context.Context, domoutbox.Event) error { return boom })
	uc := NewCheckStockUseCase(dominv.LowStockPolicy{}, pub, nil)

	res, err := uc.Execute(context.Background(), placed(domorder.PlacedLine{ProductID: "a", RemainingStock: 0}))
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.Len(t, res.LowStock, 1)
}
