package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-church-gql/internal/errors"
)

// Issuer mints and checks the short lived HS256 access tokens of the
// development server.
type Issuer struct {
	secret  []byte
	issuer  string
	expiry  time.Duration
	revoked *RevocationList
	nowFunc func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithNowFunc drives iat, exp and expiry checks from now.
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// WithRevocationList shares a revocation list between issuers.
func WithRevocationList(list *RevocationList) IssuerOption {
	return func(i *Issuer) {
		i.revoked = list
	}
}

func NewIssuer(secret []byte, issuer string, expiry time.Duration, options ...IssuerOption) *Issuer {
	i := &Issuer{
		secret:  secret,
		issuer:  issuer,
		expiry:  expiry,
		revoked: NewRevocationList(),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	if i.expiry == 0 {
		i.expiry = 15 * time.Minute
	}
	return i
}

// Issue creates an access token for the member.
func (i *Issuer) Issue(userID, role string) (string, error) {
	now := i.nowFunc()
	claims := jwt.MapClaims{
		"iss":  i.issuer,
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(i.expiry).Unix(),
		"jti":  uuid.New().String(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrapf(err, "Issuer.Issue sign")
	}
	return signed, nil
}

// Verify checks signature, issuer, expiry and revocation. It returns
// ErrTokenExpired for an expired but otherwise valid token and ErrInvalidToken
// for everything else.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.nowFunc),
	)
	if _, err := parser.ParseWithClaims(raw, claims, i.key); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.Wrapf(errors.ErrInvalidToken, "%v", err)
	}

	c := fromMapClaims(claims)
	if i.revoked.Revoked(c.ID, i.nowFunc()) {
		return nil, errors.ErrInvalidToken
	}
	return c, nil
}

// Revoke invalidates an access token before it expires.
func (i *Issuer) Revoke(c *Claims) {
	if c == nil {
		return
	}
	i.revoked.Revoke(c.ID, c.ExpiresAt)
}

func (i *Issuer) key(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return i.secret, nil
}
