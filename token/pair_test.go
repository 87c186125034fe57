package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/tenant-console/token"
	"github.com/stretchr/testify/require"
)

var testNow = time.Unix(1_700_000_000, 0)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwtlib.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestExpired(t *testing.T) {
	t.Run("exp one second ago", func(t *testing.T) {
		require.True(t, token.Expired(signedToken(t, testNow.Add(-time.Second)), testNow))
	})

	t.Run("exp in one hour", func(t *testing.T) {
		require.False(t, token.Expired(signedToken(t, testNow.Add(time.Hour)), testNow))
	})

	t.Run("exp equal to now", func(t *testing.T) {
		require.True(t, token.Expired(signedToken(t, testNow), testNow))
	})

	t.Run("fewer than three segments", func(t *testing.T) {
		require.NotPanics(t, func() {
			require.True(t, token.Expired("header.payload", testNow))
			require.True(t, token.Expired("not-a-jwt", testNow))
			require.True(t, token.Expired("", testNow))
		})
	})

	t.Run("payload is not json", func(t *testing.T) {
		require.True(t, token.Expired("eyJhbGciOiJIUzI1NiJ9.bm90LWpzb24.sig", testNow))
	})

	t.Run("no exp claim", func(t *testing.T) {
		raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{"sub": "u"}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)
		require.True(t, token.Expired(raw, testNow))
	})
}

func TestPair(t *testing.T) {
	restore := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return testNow }
	t.Cleanup(func() { token.NowTimeFunc = restore })

	var nilPair *token.Pair
	require.False(t, nilPair.HasRefresh())
	require.True(t, nilPair.Expired())
	require.Nil(t, nilPair.OAuth2())

	pair := &token.Pair{AccessToken: signedToken(t, testNow.Add(time.Hour)), RefreshToken: "r1"}
	require.True(t, pair.HasRefresh())
	require.False(t, pair.Expired())

	tok := pair.OAuth2()
	require.Equal(t, "Bearer", tok.Type())
	require.Equal(t, testNow.Add(time.Hour).Unix(), tok.Expiry.Unix())

	pair.RefreshToken = "  "
	require.False(t, pair.HasRefresh())
}
