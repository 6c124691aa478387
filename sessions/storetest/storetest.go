// Package storetest holds the behaviour every sessions.Store backend must
// share.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a store returned empty by newStore.
func Run(t *testing.T, newStore func(t *testing.T) sessions.Store) {
	ctx := context.Background()
	user := &sessions.User{ID: "u1", FirstName: "Grace", LastName: "Mensah", Email: "pastor@church.test", Role: sessions.RolePastor}
	full := sessions.Session{AccessToken: "abc", RefreshToken: "r1", User: user}

	t.Run("empty load", func(t *testing.T) {
		s := newStore(t)
		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.True(t, session.IsEmpty())
	})

	t.Run("save and load", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, full))

		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, full, session)
	})

	t.Run("save replaces every field", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, full))
		require.NoError(t, s.Save(ctx, sessions.Session{AccessToken: "only"}))

		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, sessions.Session{AccessToken: "only"}, session)
	})

	t.Run("set access token keeps the rest", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, full))
		require.NoError(t, s.SetAccessToken(ctx, "xyz"))

		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "xyz", session.AccessToken)
		require.Equal(t, "r1", session.RefreshToken)
		require.Equal(t, user, session.User)
	})

	t.Run("set empty access token removes it", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, full))
		require.NoError(t, s.SetAccessToken(ctx, ""))

		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.False(t, session.HasAccessToken())
		require.True(t, session.HasRefreshToken())
	})

	t.Run("set access token on cleared store", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, full))
		require.NoError(t, s.Clear(ctx))

		err := s.SetAccessToken(ctx, "xyz")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)

		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.True(t, session.IsEmpty())
	})

	t.Run("set access token without refresh token", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, sessions.Session{AccessToken: "abc", User: user}))

		require.ErrorIs(t, s.SetAccessToken(ctx, "xyz"), errors.ErrSessionNotFound)

		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "abc", session.AccessToken)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, full))
		require.NoError(t, s.Clear(ctx))

		once, err := s.Load(ctx)
		require.NoError(t, err)
		require.True(t, once.IsEmpty())

		require.NoError(t, s.Clear(ctx))
		twice, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, once, twice)
	})

	t.Run("loaded user is a copy", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, full))

		session, err := s.Load(ctx)
		require.NoError(t, err)
		session.User.FirstName = "changed"

		again, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "Grace", again.User.FirstName)
	})

	t.Run("concurrent writers never tear a session", func(t *testing.T) {
		s := newStore(t)
		a := sessions.Session{AccessToken: "a", RefreshToken: "ra", User: user}
		b := sessions.Session{AccessToken: "b", RefreshToken: "rb", User: user}

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Save(ctx, a))
			}()
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Save(ctx, b))
			}()
		}
		wg.Wait()

		session, err := s.Load(ctx)
		require.NoError(t, err)
		require.Contains(t, []string{"a", "b"}, session.AccessToken)
		require.Equal(t, "r"+session.AccessToken, session.RefreshToken)
	})
}
