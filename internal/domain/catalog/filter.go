package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryID string
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     SortField
	SortOrder  SortOrder
}

// Normalize replaces unknown sort settings with name/asc.
func (f ProductFilter) Normalize() ProductFilter {
	if f.SortBy != SortByName && f.SortBy != SortByPrice {
		f.SortBy = SortByName
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		f.SortOrder = SortAsc
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

func (f ProductFilter) Match(p *Product) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// Sort orders products in place according to the (normalized) filter.
func (f ProductFilter) Sort(products []*Product) {
	f = f.Normalize()
	less := func(a, b *Product) bool {
		if f.SortBy == SortByPrice {
			if !a.Price.Equal(b.Price) {
				return a.Price.LessThan(b.Price)
			}
		} else if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	}
	sort.SliceStable(products, func(i, j int) bool {
		if f.SortOrder == SortDesc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}
