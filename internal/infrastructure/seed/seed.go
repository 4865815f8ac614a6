// Package seed loads a demo catalog and demo accounts into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/review"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/shopspring/decimal"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type IDGenerator interface {
	NewID() string
}

type Seeder struct {
	accounts account.Repository
	catalog  catalog.Repository
	reviews  review.Repository
	hasher   PasswordHasher
	ids      IDGenerator
	log      observability.Logger
}

func NewSeeder(
	accounts account.Repository,
	cat catalog.Repository,
	reviews review.Repository,
	hasher PasswordHasher,
	ids IDGenerator,
	logger observability.Logger,
) *Seeder {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Seeder{
		accounts: accounts,
		catalog:  cat,
		reviews:  reviews,
		hasher:   hasher,
		ids:      ids,
		log:      logger.With(observability.F("component", "seed")),
	}
}

type Result struct {
	Skipped    bool
	Accounts   int
	Categories int
	Products   int
	Reviews    int
}

// Run seeds once: it does nothing when the first demo manager already exists.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	_, err := s.accounts.FindByUsername(ctx, demoManagers[0].username)
	switch {
	case err == nil:
		res.Skipped = true
		s.log.Info("seed_skipped", observability.F("reason", "demo data present"))
		return res, nil
	case !errors.Is(err, account.ErrNotFound):
		return res, fmt.Errorf("seed: probe accounts: %w", err)
	}

	customers := make([]string, 0, len(demoCustomers))
	for _, u := range demoManagers {
		if _, err := s.createAccount(ctx, u, account.RoleManager); err != nil {
			return res, err
		}
		res.Accounts++
	}
	for _, u := range demoCustomers {
		id, err := s.createAccount(ctx, u, account.RoleCustomer)
		if err != nil {
			return res, err
		}
		customers = append(customers, id)
		res.Accounts++
	}

	categoryIDs := make(map[string]string, len(demoCategories))
	for _, c := range demoCategories {
		cat, err := catalog.NewCategory(s.ids.NewID(), c.name, c.description)
		if err != nil {
			return res, err
		}
		if err := s.catalog.CreateCategory(ctx, cat); err != nil {
			return res, fmt.Errorf("seed: category %q: %w", c.name, err)
		}
		categoryIDs[c.name] = cat.ID
		res.Categories++
	}

	productIDs := make([]string, 0, len(demoProducts))
	for _, p := range demoProducts {
		prod, err := catalog.NewProduct(s.ids.NewID(), catalog.NewProductInput{
			Name:        p.name,
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
			Stock:       p.stock,
			CategoryID:  categoryIDs[p.category],
			ImageURL:    p.imageURL,
		})
		if err != nil {
			return res, err
		}
		if err := s.catalog.CreateProduct(ctx, prod); err != nil {
			return res, fmt.Errorf("seed: product %q: %w", p.name, err)
		}
		productIDs = append(productIDs, prod.ID)
		res.Products++
	}

	// Every customer reviews a few products, spread deterministically over the catalog.
	for i, customerID := range customers {
		for k := 0; k < 3; k++ {
			productID := productIDs[(i*5+k*7)%len(productIDs)]
			rating := review.MinRating + (i+k)%(review.MaxRating-review.MinRating+1)
			r, err := review.New(s.ids.NewID(), customerID, productID, rating, demoComments[(i+k)%len(demoComments)])
			if err != nil {
				return res, err
			}
			created, err := s.reviews.Upsert(ctx, r)
			if err != nil {
				return res, fmt.Errorf("seed: review: %w", err)
			}
			if created {
				res.Reviews++
			}
		}
	}

	s.log.Info("seed_done",
		observability.F("accounts", res.Accounts),
		observability.F("categories", res.Categories),
		observability.F("products", res.Products),
		observability.F("reviews", res.Reviews),
	)
	return res, nil
}

func (s *Seeder) createAccount(ctx context.Context, u demoUser, role account.Role) (string, error) {
	hash, err := s.hasher.Hash(u.password)
	if err != nil {
		return "", fmt.Errorf("seed: hash password: %w", err)
	}
	a, err := account.New(s.ids.NewID(), u.username, u.email, hash, role)
	if err != nil {
		return "", err
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return "", fmt.Errorf("seed: account %q: %w", u.username, err)
	}
	return a.ID, nil
}
