package redisstore

import (
	"context"
	"time"

	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Store = (*Store)(nil)

// setAccessToken updates the access token only while a refresh token is
// stored. Returns 0 when the session is gone.
var setAccessToken = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
  return 0
end
if ARGV[3] == "" then
  redis.call("HDEL", KEYS[1], ARGV[2])
else
  redis.call("HSET", KEYS[1], ARGV[2], ARGV[3])
end
return 1
`)

// Store keeps the session in one redis hash whose fields are the session
// keys. Multi-field writes run inside MULTI/EXEC.
type Store struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires the whole hash ttl after the last Save.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New constructs a redis backed session store under key.
func New(client redis.UniversalClient, key string, options ...Option) *Store {
	s := &Store{client: client, key: key}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Store) Load(ctx context.Context) (sessions.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return sessions.Session{}, errors.Wrapf(err, "redisstore: load %s", s.key)
	}
	user, err := sessions.DecodeUser(fields[sessions.KeyUser])
	if err != nil {
		return sessions.Session{}, errors.Wrapf(err, "redisstore: decode user")
	}
	return sessions.Session{
		AccessToken:  fields[sessions.KeyAccessToken],
		RefreshToken: fields[sessions.KeyRefreshToken],
		User:         user,
	}, nil
}

func (s *Store) Save(ctx context.Context, session sessions.Session) error {
	user, err := sessions.EncodeUser(session.User)
	if err != nil {
		return errors.Wrapf(err, "redisstore: encode user")
	}

	values := make([]any, 0, 6)
	if session.AccessToken != "" {
		values = append(values, sessions.KeyAccessToken, session.AccessToken)
	}
	if session.RefreshToken != "" {
		values = append(values, sessions.KeyRefreshToken, session.RefreshToken)
	}
	if user != "" {
		values = append(values, sessions.KeyUser, user)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values...)
			if s.ttl > 0 {
				pipe.Expire(ctx, s.key, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "redisstore: save %s", s.key)
	}
	return nil
}

func (s *Store) SetAccessToken(ctx context.Context, accessToken string) error {
	updated, err := setAccessToken.Run(ctx, s.client, []string{s.key},
		sessions.KeyRefreshToken, sessions.KeyAccessToken, accessToken).Int()
	if err != nil {
		return errors.Wrapf(err, "redisstore: set access token %s", s.key)
	}
	if updated == 0 {
		return errors.ErrSessionNotFound
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return errors.Wrapf(err, "redisstore: clear %s", s.key)
	}
	return nil
}
