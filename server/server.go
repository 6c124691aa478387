// Package server is a development GraphQL API for the church dashboards. It
// issues the same token pair as production and reports authentication
// failures with the production error messages, so the client's refresh
// pipeline can be exercised end to end without the real backend.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-church-gql/internal/config"
	"github.com/jrsteele09/go-church-gql/token"
	"github.com/jrsteele09/go-church-gql/token/refresh"
	"github.com/jrsteele09/go-church-gql/users"
	"github.com/rs/zerolog"
)

type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	config    config.ServerConfig
	members   users.Repo
	issuer    *token.Issuer
	refresh   *refresh.Manager
	content   *content
	resolvers map[string]resolver
	logger    zerolog.Logger
	nowFunc   func() time.Time
}

type Option func(*Server)

// WithNowFunc drives token issuing and expiry from now.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMembers replaces the seeded member directory.
func WithMembers(repo users.Repo) Option {
	return func(s *Server) {
		s.members = repo
	}
}

func WithEnv(env string) Option {
	return func(s *Server) {
		s.env = env
	}
}

func New(cfg config.ServerConfig, options ...Option) (*Server, error) {
	s := &Server{
		env:     config.EnvDev,
		mux:     http.NewServeMux(),
		config:  cfg,
		content: newContent(),
		logger:  zerolog.Nop(),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.members == nil {
		repo := users.NewInMemoryRepo()
		if err := users.Seed(repo, cfg.GetSeedPassword()); err != nil {
			return nil, fmt.Errorf("[Server New] failed to seed members: %w", err)
		}
		s.members = repo
	}

	s.issuer = token.NewIssuer(
		[]byte(cfg.GetJWTSecret()),
		cfg.GetIssuer(),
		cfg.GetAccessTokenExpiry(),
		token.WithNowFunc(s.nowFunc),
	)
	s.refresh = refresh.NewManager(refresh.NewInMemoryRepo(), cfg, refresh.WithNowFunc(s.nowFunc))

	s.initResolvers()
	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// IssueAccessToken mints an access token for memberID outside of the login
// flow.
func (s *Server) IssueAccessToken(memberID string) (string, error) {
	m, err := s.members.GetByID(memberID)
	if err != nil {
		return "", err
	}
	return s.issuer.Issue(m.ID, string(m.Role))
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path := "", route
		if parts := strings.SplitN(route, " ", 2); len(parts) > 1 {
			method, path = parts[0], parts[1]
		}
		s.logger.Debug().Str("method", method).Str("path", path).Msg("route")
	}
}
