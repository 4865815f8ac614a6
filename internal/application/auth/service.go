package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/application"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "auth: invalid username or password")
	ErrUnauthenticated    = apperr.New(apperr.KindUnauthorized, "auth: missing, invalid or expired token")
	ErrWrongPassword      = apperr.New(apperr.KindUnauthorized, "auth: current password is incorrect")
	ErrNothingToUpdate    = apperr.New(apperr.KindValidation, "auth: nothing to update")
	ErrPasswordPair       = apperr.New(apperr.KindValidation, "auth: current_password and new_password must be given together")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type TokenIssuer interface {
	Issue(id account.Identity) (token string, expiresAt time.Time, err error)
	Verify(token string) (account.Identity, error)
}

type IDGenerator interface {
	NewID() string
}

type Service struct {
	accounts account.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	ids      IDGenerator
	tel      observability.Observability
}

func NewService(accounts account.Repository, hasher PasswordHasher, tokens TokenIssuer, ids IDGenerator, tel observability.Observability) *Service {
	return &Service{accounts: accounts, hasher: hasher, tokens: tokens, ids: ids, tel: tel}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (_ *account.Account, err error) {
	ctx, run := application.Begin(ctx, s.tel, "auth.register", "Register")
	defer func() { run.End(err) }()

	role, err := account.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, account.ErrMissingField
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "auth: hash password")
	}
	a, err := account.New(s.ids.NewID(), in.Username, in.Email, hash, role)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("auth: create account: %w", err)
	}
	run.Annotate(observability.F("account_id", a.ID), observability.F("role", string(a.Role)))
	return a, nil
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  account.Identity
	Email     string
}

func (s *Service) Login(ctx context.Context, username, password string) (_ *Session, err error) {
	ctx, run := application.Begin(ctx, s.tel, "auth.login", "Login")
	defer func() { run.End(err) }()

	a, err := s.accounts.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, account.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth: load account: %w", err)
	}
	ok, err := s.hasher.Verify(password, a.PasswordHash)
	if err != nil {
		return nil, apperr.Internal(err, "auth: verify password")
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	id := a.Identity()
	token, expiresAt, err := s.tokens.Issue(id)
	if err != nil {
		return nil, apperr.Internal(err, "auth: issue token")
	}
	run.Annotate(observability.F("account_id", a.ID))
	return &Session{Token: token, ExpiresAt: expiresAt, Identity: id, Email: a.Email}, nil
}

// Authenticate verifies the token and that its account still exists. The returned identity
// reflects the stored account, not the claims, so renames take effect immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (account.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return account.Identity{}, ErrUnauthenticated
	}
	claimed, err := s.tokens.Verify(token)
	if err != nil {
		return account.Identity{}, apperr.Wrap(apperr.KindUnauthorized, err, ErrUnauthenticated.Message)
	}
	a, err := s.accounts.Get(ctx, claimed.AccountID)
	if errors.Is(err, account.ErrNotFound) {
		return account.Identity{}, ErrUnauthenticated
	}
	if err != nil {
		return account.Identity{}, fmt.Errorf("auth: load account: %w", err)
	}
	return a.Identity(), nil
}

type ProfileUpdate struct {
	Username        *string
	Email           *string
	CurrentPassword string
	NewPassword     string
}

func (u ProfileUpdate) empty() bool {
	return u.Username == nil && u.Email == nil && u.CurrentPassword == "" && u.NewPassword == ""
}

func (s *Service) UpdateProfile(ctx context.Context, id account.Identity, u ProfileUpdate) (_ *account.Account, err error) {
	ctx, run := application.Begin(ctx, s.tel, "auth.profile.update", "UpdateProfile",
		attribute.String("account.id", id.AccountID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionEditOwnProfile); err != nil {
		return nil, err
	}
	if u.empty() {
		return nil, ErrNothingToUpdate
	}
	if (u.CurrentPassword == "") != (u.NewPassword == "") {
		return nil, ErrPasswordPair
	}

	a, err := s.accounts.Get(ctx, id.AccountID)
	if err != nil {
		return nil, fmt.Errorf("auth: load account: %w", err)
	}
	if u.Username != nil {
		if a.Username = strings.TrimSpace(*u.Username); a.Username == "" {
			return nil, account.ErrMissingField
		}
	}
	if u.Email != nil {
		if a.Email = strings.TrimSpace(*u.Email); a.Email == "" {
			return nil, account.ErrMissingField
		}
	}
	if u.NewPassword != "" {
		ok, err := s.hasher.Verify(u.CurrentPassword, a.PasswordHash)
		if err != nil {
			return nil, apperr.Internal(err, "auth: verify password")
		}
		if !ok {
			return nil, ErrWrongPassword
		}
		if a.PasswordHash, err = s.hasher.Hash(u.NewPassword); err != nil {
			return nil, apperr.Internal(err, "auth: hash password")
		}
	}
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("auth: update account: %w", err)
	}
	return a, nil
}

// DeleteAccount removes a customer account. Orders, reviews and messages it authored stay.
func (s *Service) DeleteAccount(ctx context.Context, id account.Identity, targetID string) (err error) {
	ctx, run := application.Begin(ctx, s.tel, "auth.account.delete", "DeleteAccount",
		attribute.String("account.target_id", targetID))
	defer func() { run.End(err) }()

	if err := account.Authorize(id, account.ActionDeleteAccount); err != nil {
		return err
	}
	target, err := s.accounts.Get(ctx, targetID)
	if err != nil {
		return fmt.Errorf("auth: load account: %w", err)
	}
	if err := target.CheckDeletable(); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("auth: delete account: %w", err)
	}
	return nil
}
