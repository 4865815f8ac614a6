package memory

import (
	"context"

	"github.com/Zhima-Mochi/storefront/internal/domain/review"
)

type ReviewRepository struct {
	s *Store
}

var _ review.Repository = (*ReviewRepository)(nil)

func (r *ReviewRepository) Upsert(ctx context.Context, rv *review.Review) (bool, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := reviewKey{customerID: rv.CustomerID, productID: rv.ProductID}
	clone := cloneReview(rv)
	existing, ok := r.s.reviews[key]
	if ok {
		// the row keeps its identity across updates
		clone.ID = existing.ID
		rv.ID = existing.ID
	}
	r.s.reviews[key] = clone
	return !ok, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*review.Review, error) {
	_ = ctx
	r.s.mu.RLock()
	out := make([]*review.Review, 0)
	for key, rv := range r.s.reviews {
		if key.productID == productID {
			out = append(out, cloneReview(rv))
		}
	}
	r.s.mu.RUnlock()

	sortReviewsNewestFirst(out)
	return out, nil
}

func (r *ReviewRepository) Summaries(ctx context.Context, productIDs []string) (map[string]review.Summary, error) {
	_ = ctx
	ratings := make(map[string][]int, len(productIDs))
	for _, id := range productIDs {
		ratings[id] = nil
	}

	r.s.mu.RLock()
	for key, rv := range r.s.reviews {
		if _, wanted := ratings[key.productID]; wanted {
			ratings[key.productID] = append(ratings[key.productID], rv.Rating)
		}
	}
	r.s.mu.RUnlock()

	out := make(map[string]review.Summary, len(ratings))
	for id, rs := range ratings {
		out[id] = review.Summarize(rs)
	}
	return out, nil
}

func cloneReview(rv *review.Review) *review.Review {
	if rv == nil {
		return nil
	}
	c := *rv
	return &c
}
