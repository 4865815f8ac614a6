package memory

import (
	"context"
	"strings"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
)

type CatalogRepository struct {
	s *Store
}

var _ catalog.Repository = (*CatalogRepository)(nil)

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *catalog.Category) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.categoryNameTaken(c.ID, c.Name) {
		return catalog.ErrCategoryTaken
	}
	r.s.categories[c.ID] = cloneCategory(c)
	return nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	return cloneCategory(c), nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*catalog.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, cloneCategory(c))
	}
	sortCategories(out)
	return out, nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[c.ID]; !ok {
		return catalog.ErrCategoryNotFound
	}
	if r.categoryNameTaken(c.ID, c.Name) {
		return catalog.ErrCategoryTaken
	}
	r.s.categories[c.ID] = cloneCategory(c)
	return nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return catalog.ErrCategoryNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return catalog.ErrCategoryInUse
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *catalog.Product) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return catalog.ErrCategoryNotFound
	}
	r.s.products[p.ID] = p.Clone()
	return nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p.Clone(), nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context, f catalog.ProductFilter) ([]*catalog.Product, error) {
	_ = ctx
	f = f.Normalize()

	r.s.mu.RLock()
	out := make([]*catalog.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if f.Match(p) {
			out = append(out, p.Clone())
		}
	}
	r.s.mu.RUnlock()

	f.Sort(out)
	return out, nil
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	if patch.CategoryID != nil {
		if _, ok := r.s.categories[*patch.CategoryID]; !ok {
			return nil, catalog.ErrCategoryNotFound
		}
	}
	next := current.Clone()
	if err := next.Apply(patch); err != nil {
		return nil, err
	}
	r.s.products[id] = next
	return next.Clone(), nil
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *CatalogRepository) categoryNameTaken(id, name string) bool {
	for otherID, c := range r.s.categories {
		if otherID != id && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func cloneCategory(c *catalog.Category) *catalog.Category {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
