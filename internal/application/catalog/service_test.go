package catalog

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/review"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/id"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	manager  = account.Identity{AccountID: "mgr", Username: "boss", Role: account.RoleManager}
	customer = account.Identity{AccountID: "cust", Username: "alice", Role: account.RoleCustomer}
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	a, err := account.New(customer.AccountID, customer.Username, "alice@example.com", "hash", account.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, store.Accounts().Create(context.Background(), a))
	return NewService(store.Catalog(), store.Reviews(), store.Accounts(), id.NewUUIDGenerator(), nil), store
}

func ptr[T any](v T) *T { return &v }

func TestCategoryDeleteBlockedWhileInUse(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, manager, "Sensors", "")
	require.NoError(t, err)
	p, err := s.CreateProduct(ctx, manager, domain.NewProductInput{
		Name: "Lidar", Price: decimal.NewFromInt(100), Stock: 2, CategoryID: c.ID,
	})
	require.NoError(t, err)

	err = s.DeleteCategory(ctx, manager, c.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, s.DeleteProduct(ctx, manager, p.ID))
	require.NoError(t, s.DeleteCategory(ctx, manager, c.ID))

	err = s.DeleteCategory(ctx, manager, c.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCatalogEditsRequireManager(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, customer, "x", "")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = s.CreateProduct(ctx, customer, domain.NewProductInput{Name: "x"})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = s.UpdateProduct(ctx, customer, "p", domain.ProductPatch{Stock: ptr(1)})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(s.DeleteProduct(ctx, customer, "p")))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(s.DeleteCategory(ctx, customer, "c")))
}

func TestCategoryNamesAreUnique(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, manager, "Motors", "")
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, manager, "motors", "")
	assert.ErrorIs(t, err, domain.ErrCategoryTaken)

	other, err := s.CreateCategory(ctx, manager, "Servos", "")
	require.NoError(t, err)
	_, err = s.UpdateCategory(ctx, manager, other.ID, domain.CategoryPatch{Name: ptr("Motors")})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = s.UpdateCategory(ctx, manager, other.ID, domain.CategoryPatch{})
	assert.ErrorIs(t, err, domain.ErrEmptyPatch)

	updated, err := s.UpdateCategory(ctx, manager, other.ID, domain.CategoryPatch{Description: ptr("tiny")})
	require.NoError(t, err)
	assert.Equal(t, "Servos", updated.Name)
	assert.Equal(t, "tiny", updated.Description)
}

func TestProductPatchTouchesOnlyGivenFields(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	c, err := s.CreateCategory(ctx, manager, "Kits", "")
	require.NoError(t, err)
	p, err := s.CreateProduct(ctx, manager, domain.NewProductInput{
		Name: "Arm", Description: "6 DOF", Price: decimal.NewFromInt(250), Stock: 4, CategoryID: c.ID,
	})
	require.NoError(t, err)

	_, err = s.CreateProduct(ctx, manager, domain.NewProductInput{Name: "Orphan", CategoryID: "missing"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	_, err = s.UpdateProduct(ctx, manager, p.ID, domain.ProductPatch{})
	assert.ErrorIs(t, err, domain.ErrEmptyPatch)
	_, err = s.UpdateProduct(ctx, manager, p.ID, domain.ProductPatch{Stock: ptr(-1)})
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	_, err = s.UpdateProduct(ctx, manager, "missing", domain.ProductPatch{Stock: ptr(1)})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	updated, err := s.UpdateProduct(ctx, manager, p.ID, domain.ProductPatch{Price: ptr(decimal.NewFromInt(199))})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(199)))
	assert.Equal(t, "Arm", updated.Name)
	assert.Equal(t, "6 DOF", updated.Description)
	assert.Equal(t, 4, updated.Stock)
}

func TestListAndGetProductsCarryRatings(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()
	c, err := s.CreateCategory(ctx, manager, "Kits", "")
	require.NoError(t, err)
	cheap, err := s.CreateProduct(ctx, manager, domain.NewProductInput{Name: "Buzzer", Price: decimal.NewFromInt(2), CategoryID: c.ID})
	require.NoError(t, err)
	pricey, err := s.CreateProduct(ctx, manager, domain.NewProductInput{Name: "Arm", Price: decimal.NewFromInt(300), CategoryID: c.ID})
	require.NoError(t, err)

	r, err := review.New("r1", customer.AccountID, pricey.ID, 4, "solid")
	require.NoError(t, err)
	_, err = store.Reviews().Upsert(ctx, r)
	require.NoError(t, err)

	views, err := s.ListProducts(ctx, domain.ProductFilter{SortBy: domain.SortByPrice, SortOrder: domain.SortDesc})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, pricey.ID, views[0].ID)
	assert.Equal(t, review.Summary{AverageRating: 4, Count: 1}, views[0].Rating)
	assert.Equal(t, review.Summary{}, views[1].Rating)

	views, err = s.ListProducts(ctx, domain.ProductFilter{Search: "BUZZ", SortBy: "bogus"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, cheap.ID, views[0].ID)

	d, err := s.GetProduct(ctx, pricey.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kits", d.CategoryName)
	require.Len(t, d.Reviews, 1)
	assert.Equal(t, "alice", d.Reviews[0].Username)
	assert.Equal(t, 1, d.Rating.Count)

	_, err = s.GetProduct(ctx, "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
