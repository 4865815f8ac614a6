package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/application"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/review"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

type IDGenerator interface {
	NewID() string
}

// Service serves public catalog reads and manager-only catalog edits.
type Service struct {
	repo     domain.Repository
	reviews  review.Repository
	accounts account.Repository
	ids      IDGenerator
	tel      observability.Observability
}

func NewService(repo domain.Repository, reviews review.Repository, accounts account.Repository, ids IDGenerator, tel observability.Observability) *Service {
	return &Service{repo: repo, reviews: reviews, accounts: accounts, ids: ids, tel: tel}
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	cs, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	return cs, nil
}

func (s *Service) CreateCategory(ctx context.Context, id account.Identity, name, description string) (_ *domain.Category, err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.category.create", "CreateCategory")
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionManageCatalog); err != nil {
		return nil, err
	}
	c, err := domain.NewCategory(s.ids.NewID(), name, description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("catalog: create category: %w", err)
	}
	run.Annotate(observability.F("category_id", c.ID))
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id account.Identity, categoryID string, patch domain.CategoryPatch) (_ *domain.Category, err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.category.update", "UpdateCategory",
		attribute.String("category.id", categoryID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionManageCatalog); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	c, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("catalog: load category: %w", err)
	}
	if err := c.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("catalog: update category: %w", err)
	}
	return c, nil
}

// DeleteCategory refuses while any product still belongs to the category.
func (s *Service) DeleteCategory(ctx context.Context, id account.Identity, categoryID string) (err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.category.delete", "DeleteCategory",
		attribute.String("category.id", categoryID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionManageCatalog); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("catalog: delete category: %w", err)
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, id account.Identity, in domain.NewProductInput) (_ *domain.Product, err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.product.create", "CreateProduct")
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionManageCatalog); err != nil {
		return nil, err
	}
	p, err := domain.NewProduct(s.ids.NewID(), in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("catalog: create product: %w", err)
	}
	run.Annotate(observability.F("product_id", p.ID))
	return p, nil
}

// UpdateProduct applies only the fields present in patch.
func (s *Service) UpdateProduct(ctx context.Context, id account.Identity, productID string, patch domain.ProductPatch) (_ *domain.Product, err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.product.update", "UpdateProduct",
		attribute.String("product.id", productID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionManageCatalog); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	p, err := s.repo.UpdateProduct(ctx, productID, patch)
	if err != nil {
		return nil, fmt.Errorf("catalog: update product: %w", err)
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id account.Identity, productID string) (err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.product.delete", "DeleteProduct",
		attribute.String("product.id", productID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionManageCatalog); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	return nil
}

type ProductView struct {
	*domain.Product
	Rating review.Summary
}

// ListProducts returns the filtered listing, each product carrying its rating summary.
func (s *Service) ListProducts(ctx context.Context, f domain.ProductFilter) (_ []ProductView, err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.product.list", "ListProducts")
	defer func() { run.End(err) }()

	products, err := s.repo.ListProducts(ctx, f.Normalize())
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	sums, err := s.reviews.Summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: rating summaries: %w", err)
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{Product: p, Rating: sums[p.ID]})
	}
	run.Annotate(observability.F("products", len(views)))
	return views, nil
}

type ReviewView struct {
	*review.Review
	Username string
}

type ProductDetail struct {
	ProductView
	CategoryName string
	Reviews      []ReviewView
}

func (s *Service) GetProduct(ctx context.Context, productID string) (_ *ProductDetail, err error) {
	ctx, run := application.Begin(ctx, s.tel, "catalog.product.get", "GetProduct",
		attribute.String("product.id", productID))
	defer func() { run.End(err) }()

	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: load product: %w", err)
	}
	d := &ProductDetail{ProductView: ProductView{Product: p}}

	c, err := s.repo.GetCategory(ctx, p.CategoryID)
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
	case err != nil:
		return nil, fmt.Errorf("catalog: load category: %w", err)
	default:
		d.CategoryName = c.Name
	}

	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list reviews: %w", err)
	}
	ratings := make([]int, 0, len(reviews))
	d.Reviews = make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
		v := ReviewView{Review: r}
		a, err := s.accounts.Get(ctx, r.CustomerID)
		switch {
		case errors.Is(err, account.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("catalog: load reviewer: %w", err)
		default:
			v.Username = a.Username
		}
		d.Reviews = append(d.Reviews, v)
	}
	d.Rating = review.Summarize(ratings)
	return d, nil
}
