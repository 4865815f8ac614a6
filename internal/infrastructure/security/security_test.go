package security

import (
	"strings"
	"testing"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// small parameters keep the test fast
func testHasher() *Argon2Hasher {
	return NewArgon2Hasher(Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1})
}

func TestArgon2RoundTrip(t *testing.T) {
	h := testHasher()
	encoded, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify("s3cret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salt must differ per hash")
}

func TestArgon2VerifyUsesEmbeddedParams(t *testing.T) {
	encoded, err := testHasher().Hash("pw")
	require.NoError(t, err)

	ok, err := NewArgon2Hasher(Argon2Params{MemoryKiB: 2048, Iterations: 2, Parallelism: 2}).Verify("pw", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2RejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$AAAA$AAAA", "$argon2id$v=19$m=x$AAAA$AAAA"} {
		_, err := testHasher().Verify("pw", bad)
		assert.ErrorIs(t, err, ErrMalformedHash, bad)
	}
}

func TestJWTIssueAndVerify(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour, "storefront")
	id := account.Identity{AccountID: "42", Username: "alice", Role: account.RoleManager}

	token, expiresAt, err := issuer.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestJWTRejectsTamperedAndExpired(t *testing.T) {
	issuer := NewJWTIssuer("secret", time.Hour, "storefront")
	token, _, err := issuer.Issue(account.Identity{AccountID: "1", Username: "u", Role: account.RoleCustomer})
	require.NoError(t, err)

	_, err = NewJWTIssuer("other", time.Hour, "storefront").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
