package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = apperr.New(apperr.KindNotFound, "catalog: product not found")
	ErrCategoryNotFound = apperr.New(apperr.KindNotFound, "catalog: category not found")
	ErrCategoryTaken    = apperr.New(apperr.KindConflict, "catalog: category name already in use")
	ErrCategoryInUse    = apperr.New(apperr.KindValidation, "catalog: category still has products")
	ErrInvalidQuantity  = apperr.New(apperr.KindValidation, "catalog: quantity must be greater than zero")
	ErrNegativeStock    = apperr.New(apperr.KindValidation, "catalog: stock must be zero or greater")
	ErrNegativePrice    = apperr.New(apperr.KindValidation, "catalog: price must be zero or greater")
	ErrNameRequired     = apperr.New(apperr.KindValidation, "catalog: name is required")
	ErrCategoryRequired = apperr.New(apperr.KindValidation, "catalog: category is required")
	ErrEmptyPatch       = apperr.New(apperr.KindValidation, "catalog: nothing to update")
)

// InsufficientStockError names the product that could not cover a requested quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("catalog: insufficient stock for product %s: requested %d, available %d, short by %d",
		e.ProductID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }

func (e *InsufficientStockError) Kind() apperr.Kind { return apperr.KindInsufficientStock }

type Category struct {
	ID          string
	Name        string
	Description string
}

func NewCategory(id, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Category{ID: id, Name: name, Description: description}, nil
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

func (p CategoryPatch) Empty() bool { return p.Name == nil && p.Description == nil }

func (c *Category) Apply(p CategoryPatch) error {
	if p.Empty() {
		return ErrEmptyPatch
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrNameRequired
		}
		c.Name = name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	return nil
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type NewProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  string
	ImageURL    string
}

func NewProduct(id string, in NewProductInput) (*Product, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, ErrNameRequired
	case in.CategoryID == "":
		return nil, ErrCategoryRequired
	case in.Price.IsNegative():
		return nil, ErrNegativePrice
	case in.Stock < 0:
		return nil, ErrNegativeStock
	}
	now := time.Now().UTC()
	return &Product{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Reserve takes quantity units out of stock. Stock never goes below zero.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return &InsufficientStockError{ProductID: p.ID, Requested: quantity, Available: p.Stock}
	}
	p.Stock -= quantity
	p.touch()
	return nil
}

// ProductPatch holds the optional fields of a manager edit; nil fields stay untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *string
	ImageURL    *string
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Stock == nil && p.CategoryID == nil && p.ImageURL == nil
}

func (p *Product) Apply(patch ProductPatch) error {
	if patch.Empty() {
		return ErrEmptyPatch
	}
	next := *p
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
		if next.Name == "" {
			return ErrNameRequired
		}
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return ErrNegativePrice
		}
		next.Price = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return ErrNegativeStock
		}
		next.Stock = *patch.Stock
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			return ErrCategoryRequired
		}
		next.CategoryID = *patch.CategoryID
	}
	if patch.ImageURL != nil {
		next.ImageURL = *patch.ImageURL
	}
	*p = next
	p.touch()
	return nil
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}
