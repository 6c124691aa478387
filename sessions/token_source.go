package sessions

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource reads the access token from the store on every call so a
// refresh made elsewhere in the process is picked up immediately. The
// returned token has no expiry; an absent access token yields an empty,
// invalid token rather than an error.
func TokenSource(ctx context.Context, store Store) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: store}
}

type storeTokenSource struct {
	ctx   context.Context
	store Store
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	session, err := s.store.Load(s.ctx)
	if err != nil {
		return nil, err
	}
	tok := BearerToken(session.AccessToken)
	tok.RefreshToken = session.RefreshToken
	return tok, nil
}

// BearerToken wraps an access token for the Authorization header.
func BearerToken(accessToken string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
}
