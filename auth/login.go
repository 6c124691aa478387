package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
)

const (
	LoginOperation  = "Login"
	LogoutOperation = "Logout"
)

// LoginMutation authenticates a member and returns a fresh token pair.
const LoginMutation = `mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) {
    accessToken
    refreshToken
    user {
      id
      firstName
      lastName
      email
      role
    }
  }
}`

// LogoutMutation revokes the refresh token server side.
const LogoutMutation = `mutation Logout($refreshToken: String!) {
  logout(refreshToken: $refreshToken) {
    success
  }
}`

type loginResult struct {
	Login *struct {
		AccessToken  string         `json:"accessToken"`
		RefreshToken string         `json:"refreshToken"`
		User         *sessions.User `json:"user"`
	} `json:"login"`
}

// Login authenticates with email and password and stores the new session in
// a single write. The request is sent without credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*sessions.User, error) {
	op := graphql.NewOperation(LoginOperation, LoginMutation, map[string]any{
		"email":    email,
		"password": password,
	})

	resp, err := c.transport.Do(ctx, op)
	if err != nil {
		return nil, errors.Wrapf(err, "Client.Login")
	}
	if resp.HasErrors() {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidCredentials, strings.Join(resp.Messages(), "; "))
	}

	var result loginResult
	if err := resp.Decode(&result); err != nil {
		return nil, errors.Wrapf(err, "Client.Login")
	}
	if result.Login == nil || result.Login.AccessToken == "" || result.Login.RefreshToken == "" {
		return nil, fmt.Errorf("%w: login response has no token pair", errors.ErrBadResponse)
	}

	session := sessions.Session{
		AccessToken:  result.Login.AccessToken,
		RefreshToken: result.Login.RefreshToken,
		User:         result.Login.User,
	}
	if err := c.store.Save(ctx, session); err != nil {
		return nil, errors.Wrapf(err, "Client.Login save session")
	}

	log := c.logger.Info()
	if session.User != nil {
		log = log.Str("user_id", session.User.ID).Str("role", string(session.User.Role))
	}
	log.Msg("logged in")
	return session.User, nil
}

// Logout asks the server to revoke the refresh token and then clears the
// stored session. The server call is best effort: the local session is
// cleared even if it fails.
func (c *Client) Logout(ctx context.Context) error {
	session, err := c.store.Load(ctx)
	if err != nil {
		return errors.Wrapf(err, "Client.Logout load session")
	}

	if session.HasRefreshToken() {
		op := graphql.NewOperation(LogoutOperation, LogoutMutation, map[string]any{
			"refreshToken": session.RefreshToken,
		})
		attachCredentials(op, sessions.BearerToken(session.AccessToken))
		resp, err := c.transport.Do(ctx, op)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Msg("logout request failed")
		case resp.HasErrors():
			c.logger.Warn().Strs("errors", resp.Messages()).Msg("logout rejected by server")
		}
	}

	if err := c.store.Clear(ctx); err != nil {
		return errors.Wrapf(err, "Client.Logout clear session")
	}
	c.logger.Info().Msg("logged out")
	return nil
}

// CurrentUser returns the stored user without a network call.
func (c *Client) CurrentUser(ctx context.Context) (*sessions.User, error) {
	session, err := c.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "Client.CurrentUser")
	}
	if session.User == nil {
		return nil, errors.ErrSessionNotFound
	}
	return session.User, nil
}
