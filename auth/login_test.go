package auth_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-church-gql/auth"
	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
	"github.com/stretchr/testify/require"
)

const loginData = `{"login":{"accessToken":"abc","refreshToken":"r1","user":{"id":"u1","firstName":"Grace","lastName":"Mensah","email":"pastor@church.test","role":"PASTOR"}}}`

func TestClient_Login(t *testing.T) {
	t.Run("stores the session", func(t *testing.T) {
		f := setupTestFixture(sessions.Session{}, dataResponse(loginData))

		user, err := f.client.Login(context.Background(), "pastor@church.test", "Password123")
		require.NoError(t, err)
		require.Equal(t, "Grace Mensah", user.FullName())
		require.Equal(t, "/pastor/dashboard", user.Role.Dashboard())
		require.Equal(t, []bool{false}, f.transport.present, "login must be sent without credentials")

		stored, err := f.store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, "abc", stored.AccessToken)
		require.Equal(t, "r1", stored.RefreshToken)
		require.Equal(t, user, stored.User)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		session := sessions.Session{AccessToken: "old", RefreshToken: "r0"}
		f := setupTestFixture(session, errorResponse("Invalid email or password"))

		_, err := f.client.Login(context.Background(), "pastor@church.test", "wrong")
		require.ErrorIs(t, err, errors.ErrInvalidCredentials)
		require.Contains(t, err.Error(), "Invalid email or password")

		stored, err := f.store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, session, stored)
	})

	t.Run("missing token pair", func(t *testing.T) {
		f := setupTestFixture(sessions.Session{}, dataResponse(`{"login":{"accessToken":"abc"}}`))

		_, err := f.client.Login(context.Background(), "a@b.c", "pw")
		require.ErrorIs(t, err, errors.ErrBadResponse)
	})
}

func TestClient_Logout(t *testing.T) {
	t.Run("revokes and clears", func(t *testing.T) {
		var vars map[string]any
		f := setupTestFixture(sessions.Session{AccessToken: "abc", RefreshToken: "r1", User: testUser})
		f.client = auth.NewClient(graphql.TransportFunc(func(_ context.Context, op *graphql.Operation) (*graphql.Response, error) {
			require.Equal(t, auth.LogoutOperation, op.OperationName)
			require.Equal(t, "Bearer abc", op.Headers.Get("Authorization"))
			vars = op.Variables
			return dataResponse(`{"logout":{"success":true}}`), nil
		}), f.store, f.refresher, f.navigator)

		require.NoError(t, f.client.Logout(context.Background()))
		require.Equal(t, "r1", vars["refreshToken"])

		stored, err := f.store.Load(context.Background())
		require.NoError(t, err)
		require.True(t, stored.IsEmpty())
		require.Empty(t, f.navigator.paths)
	})

	t.Run("clears even when the server fails", func(t *testing.T) {
		f := setupTestFixture(sessions.Session{AccessToken: "abc", RefreshToken: "r1"}, nil)
		f.transport.errs = []error{errors.ErrTransport}

		require.NoError(t, f.client.Logout(context.Background()))
		stored, err := f.store.Load(context.Background())
		require.NoError(t, err)
		require.True(t, stored.IsEmpty())
	})

	t.Run("no session", func(t *testing.T) {
		f := setupTestFixture(sessions.Session{}, dataResponse(`{}`))

		require.NoError(t, f.client.Logout(context.Background()))
		require.NoError(t, f.client.Logout(context.Background()))
		require.Equal(t, 0, f.transport.calls())
	})
}

func TestClient_CurrentUser(t *testing.T) {
	f := setupTestFixture(sessions.Session{User: testUser})
	user, err := f.client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, testUser, user)

	f = setupTestFixture(sessions.Session{})
	_, err = f.client.CurrentUser(context.Background())
	require.ErrorIs(t, err, errors.ErrSessionNotFound)
}
