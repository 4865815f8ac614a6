package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/id"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/security"
	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, *security.JWTIssuer) {
	t.Helper()
	hasher := security.NewArgon2Hasher(security.Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1})
	tokens := security.NewJWTIssuer("test-secret", time.Hour, "storefront")
	return NewService(memory.NewStore().Accounts(), hasher, tokens, id.NewUUIDGenerator(), nil), tokens
}

func register(t *testing.T, s *Service, username, role string) *account.Account {
	t.Helper()
	a, err := s.Register(context.Background(), RegisterInput{
		Username: username, Email: username + "@example.com", Password: "pw-" + username, Role: role,
	})
	require.NoError(t, err)
	return a
}

func TestRegister(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	a := register(t, s, "alice", "")
	assert.Equal(t, account.RoleCustomer, a.Role)
	assert.NotEqual(t, "pw-alice", a.PasswordHash)

	legacy := register(t, s, "carol", "client")
	assert.Equal(t, account.RoleCustomer, legacy.Role)

	tests := []struct {
		name string
		in   RegisterInput
		kind apperr.Kind
	}{
		{"duplicate username", RegisterInput{Username: "alice", Email: "x@example.com", Password: "pw"}, apperr.KindConflict},
		{"duplicate email", RegisterInput{Username: "alicia", Email: "alice@example.com", Password: "pw"}, apperr.KindConflict},
		{"missing password", RegisterInput{Username: "dan", Email: "dan@example.com"}, apperr.KindValidation},
		{"missing email", RegisterInput{Username: "dan", Password: "pw"}, apperr.KindValidation},
		{"bad role", RegisterInput{Username: "dan", Email: "dan@example.com", Password: "pw", Role: "admin"}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.in)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	mgr := register(t, s, "boss", "manager")

	_, err := s.Login(ctx, "boss", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "ghost", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := s.Login(ctx, "boss", "pw-boss")
	require.NoError(t, err)
	assert.Equal(t, mgr.ID, sess.Identity.AccountID)
	assert.Equal(t, account.RoleManager, sess.Identity.Role)
	assert.Equal(t, "boss@example.com", sess.Email)

	got, err := s.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Identity, got)

	for _, bad := range []string{"", "garbage", sess.Token + "tampered"} {
		_, err := s.Authenticate(ctx, bad)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err), bad)
	}
}

func TestAuthenticateRejectsDeletedAccount(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	mgr := register(t, s, "boss", "manager")
	cust := register(t, s, "alice", "customer")

	sess, err := s.Login(ctx, "alice", "pw-alice")
	require.NoError(t, err)
	require.NoError(t, s.DeleteAccount(ctx, mgr.Identity(), cust.ID))

	_, err = s.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateUsesStoredIdentity(t *testing.T) {
	s, tokens := newService(t)
	ctx := context.Background()
	a := register(t, s, "alice", "customer")

	// claims say manager, the account says customer
	forged, _, err := tokens.Issue(account.Identity{AccountID: a.ID, Username: "alice", Role: account.RoleManager})
	require.NoError(t, err)
	got, err := s.Authenticate(ctx, forged)
	require.NoError(t, err)
	assert.Equal(t, account.RoleCustomer, got.Role)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	alice := register(t, s, "alice", "")
	register(t, s, "bob", "")
	id := alice.Identity()

	_, err := s.UpdateProfile(ctx, id, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	taken := "bob"
	_, err = s.UpdateProfile(ctx, id, ProfileUpdate{Username: &taken})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = s.UpdateProfile(ctx, id, ProfileUpdate{CurrentPassword: "wrong", NewPassword: "new"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = s.UpdateProfile(ctx, id, ProfileUpdate{NewPassword: "new"})
	assert.ErrorIs(t, err, ErrPasswordPair)

	name := "alice2"
	updated, err := s.UpdateProfile(ctx, id, ProfileUpdate{Username: &name, CurrentPassword: "pw-alice", NewPassword: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)

	_, err = s.Login(ctx, "alice2", "fresh")
	require.NoError(t, err)
	_, err = s.Login(ctx, "alice", "pw-alice")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAccount(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	mgr := register(t, s, "boss", "manager")
	other := register(t, s, "boss2", "manager")
	cust := register(t, s, "alice", "")

	err := s.DeleteAccount(ctx, cust.Identity(), mgr.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = s.DeleteAccount(ctx, mgr.Identity(), other.ID)
	assert.ErrorIs(t, err, account.ErrManagerUndeletable)

	err = s.DeleteAccount(ctx, mgr.Identity(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, s.DeleteAccount(ctx, mgr.Identity(), cust.ID))
	_, err = s.Login(ctx, "alice", "pw-alice")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
