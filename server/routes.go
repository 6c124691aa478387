package server

import "net/http"

const (
	RouteGraphQL = "/graphql"
	RouteHealth  = "/healthz"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+RouteGraphQL, ChainMiddleware(s.GraphQLHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("OPTIONS "+RouteGraphQL, ChainMiddleware(s.preflightHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func (s *Server) preflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
