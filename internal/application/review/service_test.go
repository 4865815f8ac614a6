package review

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/review"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/id"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice   = account.Identity{AccountID: "alice", Username: "alice", Role: account.RoleCustomer}
	bob     = account.Identity{AccountID: "bob", Username: "bob", Role: account.RoleCustomer}
	manager = account.Identity{AccountID: "mgr", Username: "boss", Role: account.RoleManager}
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	c, err := catalog.NewCategory("cat", "Kits", "")
	require.NoError(t, err)
	require.NoError(t, store.Catalog().CreateCategory(ctx, c))
	p, err := catalog.NewProduct("p", catalog.NewProductInput{Name: "Arm", Price: decimal.NewFromInt(1), CategoryID: "cat"})
	require.NoError(t, err)
	require.NoError(t, store.Catalog().CreateProduct(ctx, p))
	return NewService(store.Reviews(), store.Catalog(), id.NewUUIDGenerator(), nil), store
}

func TestSubmitReviewUpserts(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()

	first, err := s.SubmitReview(ctx, alice, "p", 2, "wobbly")
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := s.SubmitReview(ctx, alice, "p", 5, "fixed after firmware update")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Review.ID, second.Review.ID)

	list, err := store.Reviews().ListByProduct(ctx, "p")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Rating)
	assert.Equal(t, "fixed after firmware update", list[0].Comment)

	_, err = s.SubmitReview(ctx, bob, "p", 4, "")
	require.NoError(t, err)
	sums, err := s.Summaries(ctx, []string{"p"})
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{AverageRating: 4.5, Count: 2}, sums["p"])
}

func TestSubmitReviewRejections(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, err := s.SubmitReview(ctx, manager, "p", 5, "")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = s.SubmitReview(ctx, alice, "p", 6, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = s.SubmitReview(ctx, alice, "missing", 3, "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
