package memory

import (
	"sort"

	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/internal/domain/review"
)

func sortCategories(cs []*catalog.Category) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].ID < cs[j].ID
	})
}

// sortOrdersNewestFirst breaks CreatedAt ties by id for a stable listing.
func sortOrdersNewestFirst(os []*order.Order) {
	sort.Slice(os, func(i, j int) bool {
		if !os[i].CreatedAt.Equal(os[j].CreatedAt) {
			return os[i].CreatedAt.After(os[j].CreatedAt)
		}
		return os[i].ID > os[j].ID
	})
}

func sortReviewsNewestFirst(rs []*review.Review) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].ReviewedAt.Equal(rs[j].ReviewedAt) {
			return rs[i].ReviewedAt.After(rs[j].ReviewedAt)
		}
		return rs[i].ID > rs[j].ID
	})
}
