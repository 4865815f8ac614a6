package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

var _ account.Repository = (*AccountRepository)(nil)

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAccountUnique(tx, a); err != nil {
			return err
		}
		if err := tx.Create(accountFromDomain(a)).Error; err != nil {
			return classifyAccountWrite(tx, a, err)
		}
		return nil
	})
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: get account: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: find account: %w", err)
	}
	return m.toDomain(), nil
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkAccountUnique(tx, a); err != nil {
			return err
		}
		res := tx.Model(&accountModel{}).Where("id = ?", a.ID).Updates(map[string]any{
			"username":      a.Username,
			"email":         a.Email,
			"password_hash": a.PasswordHash,
			"role":          string(a.Role),
		})
		if res.Error != nil {
			return classifyAccountWrite(tx, a, res.Error)
		}
		if res.RowsAffected == 0 {
			return account.ErrNotFound
		}
		return nil
	})
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&accountModel{})
	if res.Error != nil {
		return fmt.Errorf("postgres: delete account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return account.ErrNotFound
	}
	return nil
}

// checkAccountUnique mirrors the unique indexes, comparing emails case-insensitively.
func checkAccountUnique(tx *gorm.DB, a *account.Account) error {
	var n int64
	if err := tx.Model(&accountModel{}).Where("username = ? AND id <> ?", a.Username, a.ID).Count(&n).Error; err != nil {
		return fmt.Errorf("postgres: check username: %w", err)
	}
	if n > 0 {
		return account.ErrUsernameTaken
	}
	if err := tx.Model(&accountModel{}).Where("lower(email) = lower(?) AND id <> ?", a.Email, a.ID).Count(&n).Error; err != nil {
		return fmt.Errorf("postgres: check email: %w", err)
	}
	if n > 0 {
		return account.ErrEmailTaken
	}
	return nil
}

// classifyAccountWrite turns a unique violation lost to a concurrent writer into the matching sentinel.
func classifyAccountWrite(tx *gorm.DB, a *account.Account, err error) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("postgres: write account: %w", err)
	}
	var n int64
	if tx.Model(&accountModel{}).Where("lower(email) = lower(?) AND id <> ?", a.Email, a.ID).Count(&n).Error == nil && n > 0 {
		return account.ErrEmailTaken
	}
	return account.ErrUsernameTaken
}
