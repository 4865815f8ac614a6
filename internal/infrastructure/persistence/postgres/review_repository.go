package postgres

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/domain/review"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

var _ review.Repository = (*ReviewRepository)(nil)

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert writes with a single INSERT ... ON CONFLICT on (customer_id, product_id). The stored row keeps
// the id of the first review, which is copied back onto r.
func (r *ReviewRepository) Upsert(ctx context.Context, rv *review.Review) (bool, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "reviewed_at"}),
	}).Create(reviewFromDomain(rv)).Error
	if err != nil {
		return false, fmt.Errorf("postgres: upsert review: %w", err)
	}

	var stored reviewModel
	if err := db.Where("customer_id = ? AND product_id = ?", rv.CustomerID, rv.ProductID).First(&stored).Error; err != nil {
		return false, fmt.Errorf("postgres: reload review: %w", err)
	}
	created := stored.ID == rv.ID
	rv.ID = stored.ID
	return created, nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*review.Review, error) {
	var models []reviewModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("reviewed_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: list reviews: %w", err)
	}
	out := make([]*review.Review, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

type summaryRow struct {
	ProductID string
	AvgRating float64
	Count     int
}

func (r *ReviewRepository) Summaries(ctx context.Context, productIDs []string) (map[string]review.Summary, error) {
	out := make(map[string]review.Summary, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []summaryRow
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Select("product_id, AVG(rating)::float8 AS avg_rating, COUNT(*) AS count").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("postgres: review summaries: %w", err)
	}
	for _, id := range productIDs {
		out[id] = review.Summary{}
	}
	for _, row := range rows {
		out[row.ProductID] = review.Summary{AverageRating: row.AvgRating, Count: row.Count}
	}
	return out, nil
}
