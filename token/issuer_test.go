package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/token"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	now    time.Time
	issuer *token.Issuer
}

func setupTestFixture() *testFixture {
	f := &testFixture{now: time.Now().Truncate(time.Second)}
	f.issuer = token.NewIssuer([]byte("test-secret"), "church-admin", 15*time.Minute,
		token.WithNowFunc(func() time.Time { return f.now }))
	return f
}

func TestIssuer(t *testing.T) {
	t.Run("issue and verify", func(t *testing.T) {
		f := setupTestFixture()
		raw, err := f.issuer.Issue("member-1", "PASTOR")
		require.NoError(t, err)

		claims, err := f.issuer.Verify(raw)
		require.NoError(t, err)
		require.Equal(t, "member-1", claims.Subject)
		require.Equal(t, "PASTOR", claims.Role)
		require.NotEmpty(t, claims.ID)
		require.Equal(t, f.now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("expired", func(t *testing.T) {
		f := setupTestFixture()
		raw, err := f.issuer.Issue("member-1", "PASTOR")
		require.NoError(t, err)

		f.now = f.now.Add(16 * time.Minute)
		_, err = f.issuer.Verify(raw)
		require.ErrorIs(t, err, errors.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		f := setupTestFixture()
		other := token.NewIssuer([]byte("other-secret"), "church-admin", time.Minute)
		raw, err := other.Issue("member-1", "PASTOR")
		require.NoError(t, err)

		_, err = f.issuer.Verify(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		f := setupTestFixture()
		other := token.NewIssuer([]byte("test-secret"), "someone-else", time.Minute)
		raw, err := other.Issue("member-1", "PASTOR")
		require.NoError(t, err)

		_, err = f.issuer.Verify(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		f := setupTestFixture()
		_, err := f.issuer.Verify("not-a-jwt")
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})

	t.Run("revoked", func(t *testing.T) {
		f := setupTestFixture()
		raw, err := f.issuer.Issue("member-1", "PASTOR")
		require.NoError(t, err)
		claims, err := f.issuer.Verify(raw)
		require.NoError(t, err)

		f.issuer.Revoke(claims)
		_, err = f.issuer.Verify(raw)
		require.ErrorIs(t, err, errors.ErrInvalidToken)
	})
}

func TestInspect(t *testing.T) {
	f := setupTestFixture()
	raw, err := f.issuer.Issue("member-1", "SECRETARY")
	require.NoError(t, err)

	claims, err := token.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, "member-1", claims.Subject)
	require.Equal(t, "SECRETARY", claims.Role)
	require.False(t, claims.Expired(f.now))
	require.True(t, claims.Expired(f.now.Add(time.Hour)))

	_, err = token.Inspect("abc")
	require.Error(t, err)

	require.False(t, (&token.Claims{}).Expired(time.Now()), "no exp never expires")
}

func TestRevocationList(t *testing.T) {
	list := token.NewRevocationList()
	now := time.Now()
	list.Revoke("a", now.Add(time.Minute))
	list.Revoke("b", now.Add(-time.Minute))
	list.Revoke("", now.Add(time.Hour))

	require.True(t, list.Revoked("a", now))
	require.False(t, list.Revoked("b", now))
	require.False(t, list.Revoked("", now))
	require.Equal(t, 1, list.Len())

	require.False(t, list.Revoked("a", now.Add(2*time.Minute)))
	require.Equal(t, 0, list.Len())
}

func TestIssuer_SharedRevocationList(t *testing.T) {
	list := token.NewRevocationList()
	a := token.NewIssuer([]byte("s"), "church-admin", time.Minute, token.WithRevocationList(list))
	b := token.NewIssuer([]byte("s"), "church-admin", time.Minute, token.WithRevocationList(list))

	raw, err := a.Issue("member-1", "PASTOR")
	require.NoError(t, err)
	claims, err := b.Verify(raw)
	require.NoError(t, err)

	a.Revoke(claims)
	_, err = b.Verify(raw)
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	f := setupTestFixture()
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss": "church-admin",
		"sub": "member-1",
		"exp": f.now.Add(time.Minute).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = f.issuer.Verify(unsigned)
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}
