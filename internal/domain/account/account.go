package account

import (
	"strings"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
)

var (
	ErrNotFound           = apperr.New(apperr.KindNotFound, "account: not found")
	ErrUsernameTaken      = apperr.New(apperr.KindConflict, "account: username already in use")
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "account: email already in use")
	ErrInvalidRole        = apperr.New(apperr.KindValidation, "account: role must be customer or manager")
	ErrMissingField       = apperr.New(apperr.KindValidation, "account: username, email and password are required")
	ErrManagerUndeletable = apperr.New(apperr.KindForbidden, "account: manager accounts cannot be deleted")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
)

// ParseRole accepts the canonical role names and the legacy "client" alias.
// An empty value yields RoleCustomer.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "customer", "client":
		return RoleCustomer, nil
	case "manager":
		return RoleManager, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool { return r == RoleCustomer || r == RoleManager }

type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	RegisteredAt time.Time
}

func New(id, username, email, passwordHash string, role Role) (*Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || passwordHash == "" {
		return nil, ErrMissingField
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	return &Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		RegisteredAt: time.Now().UTC(),
	}, nil
}

// Identity is the verified caller of a request, derived from a session token.
type Identity struct {
	AccountID string
	Username  string
	Role      Role
}

func (a *Account) Identity() Identity {
	return Identity{AccountID: a.ID, Username: a.Username, Role: a.Role}
}

func (i Identity) IsManager() bool  { return i.Role == RoleManager }
func (i Identity) IsCustomer() bool { return i.Role == RoleCustomer }

// CheckDeletable enforces that manager accounts are never removed.
func (a *Account) CheckDeletable() error {
	if a.Role == RoleManager {
		return ErrManagerUndeletable
	}
	return nil
}

func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
