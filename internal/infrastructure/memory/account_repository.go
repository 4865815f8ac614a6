package memory

import (
	"context"
	"strings"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
)

type AccountRepository struct {
	s *Store
}

var _ account.Repository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUnique(a); err != nil {
		return err
	}
	r.s.accounts[a.ID] = a.Clone()
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	_ = ctx
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.accounts {
		if a.Username == username {
			return a.Clone(), nil
		}
	}
	return nil, account.ErrNotFound
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[a.ID]; !ok {
		return account.ErrNotFound
	}
	if err := r.checkUnique(a); err != nil {
		return err
	}
	r.s.accounts[a.ID] = a.Clone()
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[id]; !ok {
		return account.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

// checkUnique must run under the write lock. Emails compare case-insensitively.
func (r *AccountRepository) checkUnique(a *account.Account) error {
	for id, other := range r.s.accounts {
		if id == a.ID {
			continue
		}
		if other.Username == a.Username {
			return account.ErrUsernameTaken
		}
		if strings.EqualFold(other.Email, a.Email) {
			return account.ErrEmailTaken
		}
	}
	return nil
}
