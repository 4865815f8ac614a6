package review

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/application"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	domain "github.com/Zhima-Mochi/storefront/internal/domain/review"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

type IDGenerator interface {
	NewID() string
}

type Service struct {
	reviews  domain.Repository
	products catalog.Repository
	ids      IDGenerator
	tel      observability.Observability
}

func NewService(reviews domain.Repository, products catalog.Repository, ids IDGenerator, tel observability.Observability) *Service {
	return &Service{reviews: reviews, products: products, ids: ids, tel: tel}
}

type SubmitResult struct {
	Review  *domain.Review
	Created bool
}

// SubmitReview stores the caller's review of the product, replacing their earlier one.
func (s *Service) SubmitReview(ctx context.Context, id account.Identity, productID string, rating int, comment string) (_ *SubmitResult, err error) {
	ctx, run := application.Begin(ctx, s.tel, "review.submit", "SubmitReview",
		attribute.String("product.id", productID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionReviewProduct); err != nil {
		return nil, err
	}
	r, err := domain.New(s.ids.NewID(), id.AccountID, productID, rating, comment)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("review: load product: %w", err)
	}
	created, err := s.reviews.Upsert(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("review: upsert: %w", err)
	}
	run.Annotate(observability.F("review_id", r.ID), observability.F("created", created))
	return &SubmitResult{Review: r, Created: created}, nil
}

func (s *Service) Summaries(ctx context.Context, productIDs []string) (map[string]domain.Summary, error) {
	sums, err := s.reviews.Summaries(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("review: summaries: %w", err)
	}
	return sums, nil
}
