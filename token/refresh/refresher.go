package refresh

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// OperationName is the name of the refresh mutation.
const OperationName = "RefreshToken"

// Mutation exchanges a refresh token for a new access token.
const Mutation = `mutation RefreshToken($refreshToken: String!) {
  refreshToken(refreshToken: $refreshToken) {
    accessToken
  }
}`

type refreshResult struct {
	RefreshToken *struct {
		AccessToken string `json:"accessToken"`
	} `json:"refreshToken"`
}

// Refresher runs the refresh mutation. Its transport must be a plain one that
// does not go through the authenticated pipeline, otherwise a failing refresh
// would try to refresh itself.
type Refresher struct {
	transport graphql.Transport
	logger    zerolog.Logger
	flights   *singleflight.Group
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithSharedRefresh makes concurrent Refresh calls for the same refresh token
// share one round trip and its result. A caller that gives up stops waiting
// without cancelling the round trip for the others.
func WithSharedRefresh() RefresherOption {
	return func(r *Refresher) {
		r.flights = &singleflight.Group{}
	}
}

// WithRefresherLogger sets the logger used for refresh diagnostics.
func WithRefresherLogger(l zerolog.Logger) RefresherOption {
	return func(r *Refresher) {
		r.logger = l
	}
}

// NewRefresher creates a Refresher that sends the mutation over transport.
func NewRefresher(transport graphql.Transport, options ...RefresherOption) *Refresher {
	r := &Refresher{
		transport: transport,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Refresh returns a new access token. Every failure, whether transport,
// GraphQL error or a response without a token, wraps ErrRefreshFailed.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errors.ErrNoRefreshToken
	}
	if r.flights == nil {
		return r.refresh(ctx, refreshToken)
	}

	// The flight outlives any single caller, so it must not inherit the
	// cancellation of whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	ch := r.flights.DoChan(refreshToken, func() (any, error) {
		return r.refresh(flightCtx, refreshToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			r.logger.Debug().Msg("joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *Refresher) refresh(ctx context.Context, refreshToken string) (string, error) {
	op := graphql.NewOperation(OperationName, Mutation, map[string]any{
		"refreshToken": refreshToken,
	})

	resp, err := r.transport.Do(ctx, op)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err)
	}
	if resp.HasErrors() {
		return "", fmt.Errorf("%w: %s", errors.ErrRefreshFailed, strings.Join(resp.Messages(), "; "))
	}

	var result refreshResult
	if err := resp.Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err)
	}
	if result.RefreshToken == nil || result.RefreshToken.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access token", errors.ErrRefreshFailed)
	}
	return result.RefreshToken.AccessToken, nil
}
