package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jrsteele09/go-church-gql/auth"
	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/config"
	"github.com/jrsteele09/go-church-gql/internal/logging"
	"github.com/jrsteele09/go-church-gql/sessions"
	"github.com/jrsteele09/go-church-gql/sessions/filestore"
	"github.com/jrsteele09/go-church-gql/sessions/inmemory"
	"github.com/jrsteele09/go-church-gql/sessions/redisstore"
	"github.com/jrsteele09/go-church-gql/token/refresh"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const appKey = "churchctl"

// exitSessionEnded is the exit status after the session was torn down.
const exitSessionEnded = 2

type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	store    sessions.Store
	client   *auth.Client
	endpoint string
	closers  []func() error

	// sessionEnded is set by the navigator when the API rejected the
	// session for good.
	sessionEnded bool
}

func setup(cCtx *cli.Context) error {
	cfg := config.New()
	level := cfg.GetLogLevel()
	if cCtx.Bool("verbose") {
		level = "debug"
	}
	a := &app{
		cfg:    cfg,
		logger: logging.New(cfg.GetEnv(), level),
	}

	a.endpoint = cCtx.String("endpoint")
	if a.endpoint == "" {
		a.endpoint = cfg.GetGraphQLEndpoint()
	}

	kind := cCtx.String("store")
	if kind == "" {
		kind = cfg.GetTokenStore()
	}
	store, err := a.openStore(kind)
	if err != nil {
		return err
	}
	a.store = store

	transportOpts := []graphql.HTTPOption{
		graphql.WithTimeout(cfg.GetRequestTimeout()),
		graphql.WithLogger(a.logger),
	}
	transport := graphql.NewHTTPTransport(a.endpoint, transportOpts...)
	// The refresh mutation gets its own transport so it never passes through
	// the authenticated client.
	refreshTransport := graphql.NewHTTPTransport(a.endpoint, transportOpts...)

	refresherOpts := []refresh.RefresherOption{refresh.WithRefresherLogger(a.logger)}
	if cfg.GetSharedRefresh() {
		refresherOpts = append(refresherOpts, refresh.WithSharedRefresh())
	}

	a.client = auth.NewClient(
		transport,
		store,
		refresh.NewRefresher(refreshTransport, refresherOpts...),
		auth.NavigatorFunc(a.redirectToLogin),
		auth.WithLoginPath(cfg.GetLoginPath()),
		auth.WithLogger(a.logger),
	)

	cCtx.App.Metadata[appKey] = a
	return nil
}

func teardown(cCtx *cli.Context) error {
	a, ok := cCtx.App.Metadata[appKey].(*app)
	if !ok {
		return nil
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn().Err(err).Msg("close")
		}
	}
	return nil
}

func fromContext(cCtx *cli.Context) *app {
	return cCtx.App.Metadata[appKey].(*app)
}

func (a *app) openStore(kind string) (sessions.Store, error) {
	switch kind {
	case config.StoreMemory:
		return inmemory.New(), nil
	case config.StoreFile:
		key, err := a.cfg.GetTokenKey()
		if err != nil {
			return nil, err
		}
		return filestore.New(a.cfg.GetTokenFile(), filestore.WithEncryptionKey(key))
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.GetRedisAddr(),
			Password: a.cfg.GetRedisPassword(),
			DB:       a.cfg.GetRedisDB(),
		})
		a.closers = append(a.closers, client.Close)
		return redisstore.New(client, a.cfg.GetRedisKey()), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}
}

// redirectToLogin is the CLI's hard navigation: the saved session is already
// gone, so the member is told to sign in again and the command exits.
func (a *app) redirectToLogin(_ context.Context, loginPath string) {
	a.sessionEnded = true
	fmt.Fprintf(os.Stderr, "Your session has ended. Run `churchctl login` to sign in again (%s).\n", loginPath)
}

// result turns a pipeline error into the command's exit error.
func (a *app) result(err error) error {
	if err == nil {
		return nil
	}
	if a.sessionEnded {
		return cli.Exit("", exitSessionEnded)
	}
	return err
}
