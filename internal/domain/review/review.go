package review

import (
	"time"

	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
)

var (
	ErrInvalidRating = apperr.New(apperr.KindValidation, "review: rating must be between 1 and 5")
	ErrMissingRef    = apperr.New(apperr.KindValidation, "review: customer and product are required")
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is unique per (CustomerID, ProductID); a repeated submission replaces the previous one.
type Review struct {
	ID         string
	CustomerID string
	ProductID  string
	Rating     int
	Comment    string
	ReviewedAt time.Time
}

func New(id, customerID, productID string, rating int, comment string) (*Review, error) {
	if customerID == "" || productID == "" {
		return nil, ErrMissingRef
	}
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	return &Review{
		ID:         id,
		CustomerID: customerID,
		ProductID:  productID,
		Rating:     rating,
		Comment:    comment,
		ReviewedAt: time.Now().UTC(),
	}, nil
}

// Summary aggregates the ratings of one product. AverageRating is 0 without reviews.
type Summary struct {
	AverageRating float64
	Count         int
}

// Summarize folds ratings into a Summary.
func Summarize(ratings []int) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return Summary{AverageRating: float64(sum) / float64(len(ratings)), Count: len(ratings)}
}
