package account

import "context"

type Repository interface {
	// Create fails with ErrUsernameTaken or ErrEmailTaken on a uniqueness violation.
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) error
}
