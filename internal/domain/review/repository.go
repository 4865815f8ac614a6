package review

import "context"

type Repository interface {
	// Upsert stores r, replacing any review by the same customer for the same product.
	// It reports whether a new row was created.
	Upsert(ctx context.Context, r *Review) (created bool, err error)
	// ListByProduct returns the product's reviews newest first.
	ListByProduct(ctx context.Context, productID string) ([]*Review, error)
	// Summaries returns one entry per requested product, zero-valued when it has no reviews.
	Summaries(ctx context.Context, productIDs []string) (map[string]Summary, error)
}
