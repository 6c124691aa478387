package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const headerAuthorization = "Authorization"

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// Client executes GraphQL operations on behalf of the signed in member. It
// attaches the stored bearer token, heals one authentication failure per call
// by refreshing the access token, and hands unrecoverable sessions to the
// Navigator.
type Client struct {
	transport graphql.Transport
	store     sessions.Store
	refresher TokenRefresher
	navigator Navigator
	loginPath string
	logger    zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLoginPath sets the path handed to the Navigator, DefaultLoginPath by
// default.
func WithLoginPath(path string) ClientOption {
	return func(c *Client) {
		c.loginPath = path
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient wires the pipeline. refresher must run over its own transport,
// not over this Client.
func NewClient(transport graphql.Transport, store sessions.Store, refresher TokenRefresher, navigator Navigator, options ...ClientOption) *Client {
	c := &Client{
		transport: transport,
		store:     store,
		refresher: refresher,
		navigator: navigator,
		loginPath: DefaultLoginPath,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Execute sends op with the current credentials. Transport errors and non
// authentication GraphQL errors are returned as they are. An authentication
// failure triggers at most one refresh and replay; the replay's response is
// returned whatever it contains. When the session cannot be recovered it is
// cleared, the Navigator is invoked and the returned error wraps
// errors.ErrLoginRequired.
func (c *Client) Execute(ctx context.Context, op *graphql.Operation) (*graphql.Response, error) {
	op = op.Clone()

	tok, err := sessions.TokenSource(ctx, c.store).Token()
	if err != nil {
		return nil, errors.Wrapf(err, "Client.Execute load session")
	}
	attachCredentials(op, tok)

	refreshAttempted := false
	for {
		resp, err := c.transport.Do(ctx, op)
		if err != nil {
			return nil, err
		}
		if refreshAttempted || !IsAuthFailure(resp) {
			return resp, nil
		}
		refreshAttempted = true

		accessToken, err := c.recoverSession(ctx, op.OperationName)
		if err != nil {
			return nil, err
		}
		attachCredentials(op, sessions.BearerToken(accessToken))
	}
}

// recoverSession refreshes the access token and persists it. A rejected or
// missing refresh token ends the session; cancellation and deadlines do not.
func (c *Client) recoverSession(ctx context.Context, operation string) (string, error) {
	log := c.logger.With().Str("operation", operation).Logger()

	session, err := c.store.Load(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "Client.recoverSession load session")
	}
	if !session.HasRefreshToken() {
		return "", c.endSession(ctx, errors.ErrNoRefreshToken)
	}

	accessToken, err := c.refresher.Refresh(ctx, session.RefreshToken)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", errors.Wrapf(err, "Client.recoverSession refresh")
		}
		return "", c.endSession(ctx, err)
	}

	err = c.store.SetAccessToken(ctx, accessToken)
	if errors.Is(err, errors.ErrSessionNotFound) {
		// Cleared while the refresh was in flight; whoever cleared it has
		// already redirected.
		log.Info().Msg("session ended during token refresh")
		return "", fmt.Errorf("%w: %w", errors.ErrLoginRequired, err)
	}
	if err != nil {
		return "", errors.Wrapf(err, "Client.recoverSession store access token")
	}
	log.Info().Msg("access token refreshed")
	return accessToken, nil
}

// endSession clears the stored session and redirects to login. Both run even
// if ctx has been cancelled.
func (c *Client) endSession(ctx context.Context, cause error) error {
	ctx = context.WithoutCancel(ctx)

	c.logger.Warn().Err(cause).Msg("session cannot be recovered, redirecting to login")
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear session")
	}
	c.navigator.RedirectToLogin(ctx, c.loginPath)
	return fmt.Errorf("%w: %w", errors.ErrLoginRequired, cause)
}

// attachCredentials replaces every Authorization entry, whatever its key
// casing, with the bearer header for tok. An invalid tok leaves none.
func attachCredentials(op *graphql.Operation, tok *oauth2.Token) {
	for k := range op.Headers {
		if strings.EqualFold(k, headerAuthorization) {
			delete(op.Headers, k)
		}
	}
	if !tok.Valid() {
		return
	}
	tok.SetAuthHeader(&http.Request{Header: op.Headers})
}
