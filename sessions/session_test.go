package sessions_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/tenant-console/sessions"
	"github.com/jrsteele09/tenant-console/token"
	"github.com/stretchr/testify/require"
)

func TestSession_UpdateAndClear(t *testing.T) {
	rec := httptest.NewRecorder()
	pair := &token.Pair{AccessToken: "a1", RefreshToken: "r1"}
	s := sessions.New(rec, "acme", pair, true)

	// the session owns a copy
	pair.AccessToken = "mutated"
	require.Equal(t, "a1", s.Token().AccessToken)
	require.True(t, s.Authenticated())

	s.Update(token.Pair{AccessToken: "a2", RefreshToken: "r2"})
	require.Equal(t, &token.Pair{AccessToken: "a2", RefreshToken: "r2"}, s.Token())

	s.Clear()
	require.Nil(t, s.Token())
	require.False(t, s.Authenticated())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 4)
	require.Equal(t, "a2", cookies[0].Value)
	require.Equal(t, "r2", cookies[1].Value)
	require.Empty(t, cookies[2].Value)
	require.Empty(t, cookies[3].Value)
}

func TestFromContext(t *testing.T) {
	_, ok := sessions.FromContext(context.Background())
	require.False(t, ok)

	s := sessions.New(nil, "main", nil, false)
	got, ok := sessions.FromContext(sessions.WithSession(context.Background(), s))
	require.True(t, ok)
	require.Same(t, s, got)

	// nil writer never panics
	s.Update(token.Pair{AccessToken: "a"})
	s.Clear()
}
