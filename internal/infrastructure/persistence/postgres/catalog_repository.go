package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository struct {
	db *gorm.DB
}

var _ catalog.Repository = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *catalog.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategoryName(tx, c); err != nil {
			return err
		}
		if err := tx.Create(categoryFromDomain(c)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return catalog.ErrCategoryTaken
			}
			return fmt.Errorf("postgres: create category: %w", err)
		}
		return nil
	})
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	var m categoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("postgres: get category: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	var models []categoryModel
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: list categories: %w", err)
	}
	out := make([]*catalog.Category, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkCategoryName(tx, c); err != nil {
			return err
		}
		res := tx.Model(&categoryModel{}).Where("id = ?", c.ID).Updates(map[string]any{
			"name":        c.Name,
			"description": c.Description,
		})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return catalog.ErrCategoryTaken
			}
			return fmt.Errorf("postgres: update category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return catalog.ErrCategoryNotFound
		}
		return nil
	})
}

// DeleteCategory locks the category row so no product can be attached between the check and the delete.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m categoryModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("postgres: lock category: %w", err)
		}

		var n int64
		if err := tx.Model(&productModel{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("postgres: count products: %w", err)
		}
		if n > 0 {
			return catalog.ErrCategoryInUse
		}
		if err := tx.Delete(&categoryModel{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("postgres: delete category: %w", err)
		}
		return nil
	})
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCategoryShared(tx, p.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(productFromDomain(p)).Error; err != nil {
			return fmt.Errorf("postgres: create product: %w", err)
		}
		return nil
	})
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("postgres: get product: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context, f catalog.ProductFilter) ([]*catalog.Product, error) {
	f = f.Normalize()
	q := r.db.WithContext(ctx).Model(&productModel{})
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q = q.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	desc := f.SortOrder == catalog.SortDesc
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: string(f.SortBy)}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})

	var models []productModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: list products: %w", err)
	}
	out := make([]*catalog.Product, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

// UpdateProduct takes the same row lock as order placement, so stock edits and placements serialize.
func (r *CatalogRepository) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) (*catalog.Product, error) {
	var out *catalog.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m productModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("postgres: lock product: %w", err)
		}

		p := m.toDomain()
		if err := p.Apply(patch); err != nil {
			return err
		}
		if patch.CategoryID != nil {
			if err := lockCategoryShared(tx, p.CategoryID); err != nil {
				return err
			}
		}
		if err := tx.Save(productFromDomain(p)).Error; err != nil {
			return fmt.Errorf("postgres: update product: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&productModel{})
	if res.Error != nil {
		return fmt.Errorf("postgres: delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

func checkCategoryName(tx *gorm.DB, c *catalog.Category) error {
	var n int64
	if err := tx.Model(&categoryModel{}).Where("lower(name) = lower(?) AND id <> ?", c.Name, c.ID).Count(&n).Error; err != nil {
		return fmt.Errorf("postgres: check category name: %w", err)
	}
	if n > 0 {
		return catalog.ErrCategoryTaken
	}
	return nil
}

// lockCategoryShared holds the category against a concurrent DeleteCategory until the transaction ends.
func lockCategoryShared(tx *gorm.DB, id string) error {
	var m categoryModel
	err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: lock category: %w", err)
	}
	return nil
}
