package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-church-gql/graphql"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/jrsteele09/go-church-gql/token"
	"github.com/jrsteele09/go-church-gql/users"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxRequestBytes = 1 << 20

	// Messages of the production API. The client classifies these as
	// authentication failures.
	MsgNotAuthenticated = "Not authenticated"
	MsgInvalidToken     = "Invalid token"
	MsgTokenExpired     = "Token expired"

	MsgPermissionDenied = "Permission denied"

	codeUnauthenticated = "UNAUTHENTICATED"
	codeForbidden       = "FORBIDDEN"
	codeBadUserInput    = "BAD_USER_INPUT"
)

// caller is the authenticated member behind a request.
type caller struct {
	member *users.Member
	claims *token.Claims
}

type resolveFunc func(ctx context.Context, c *caller, vars map[string]any) (any, error)

type resolver struct {
	authenticated bool
	resolve       resolveFunc
}

// gqlError is a resolver failure reported through the errors array.
type gqlError struct {
	message string
	code    string
}

func (e *gqlError) Error() string {
	return e.message
}

func userInputError(format string, args ...any) error {
	return &gqlError{message: fmt.Sprintf(format, args...), code: codeBadUserInput}
}

var errPermissionDenied = &gqlError{message: MsgPermissionDenied, code: codeForbidden}

// GraphQLHandler dispatches on the request's operationName. Every GraphQL
// level failure, including authentication, is a 200 with an errors array.
func (s *Server) GraphQLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req graphql.Request
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
			http.Error(w, "invalid GraphQL request body", http.StatusBadRequest)
			return
		}

		res, ok := s.resolvers[req.OperationName]
		if !ok {
			writeGraphQLError(w, fmt.Sprintf("Unknown operation %q", req.OperationName), codeBadUserInput)
			return
		}

		var c *caller
		if res.authenticated {
			var msg string
			c, msg = s.authenticate(r)
			if msg != "" {
				writeGraphQLError(w, msg, codeUnauthenticated)
				return
			}
		}

		data, err := res.resolve(r.Context(), c, req.Variables)
		if err != nil {
			var gerr *gqlError
			if errors.As(err, &gerr) {
				writeGraphQLError(w, gerr.message, gerr.code)
				return
			}
			s.logger.Error().Err(err).Str("operation", req.OperationName).Msg("resolver failed")
			writeGraphQLError(w, "Internal server error", "INTERNAL_SERVER_ERROR")
			return
		}
		writeGraphQLData(w, data)
	}
}

// authenticate returns the caller or the message explaining why the bearer
// token was rejected.
func (s *Server) authenticate(r *http.Request) (*caller, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, MsgNotAuthenticated
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return nil, MsgInvalidToken
	}

	claims, err := s.issuer.Verify(parts[1])
	if errors.Is(err, errors.ErrTokenExpired) {
		return nil, MsgTokenExpired
	}
	if err != nil {
		return nil, MsgInvalidToken
	}

	member, err := s.members.GetByID(claims.Subject)
	if err != nil || member.Blocked {
		return nil, MsgInvalidToken
	}
	return &caller{member: member, claims: claims}, ""
}

func writeGraphQLData(w http.ResponseWriter, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeGraphQLError(w, "Internal server error", "INTERNAL_SERVER_ERROR")
		return
	}
	writeEnvelope(w, graphql.Response{Data: raw})
}

func writeGraphQLError(w http.ResponseWriter, message, code string) {
	writeEnvelope(w, graphql.Response{
		Errors: []graphql.Error{{
			Message:    message,
			Extensions: map[string]any{"code": code},
		}},
	})
}

func writeEnvelope(w http.ResponseWriter, resp graphql.Response) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func stringVar(vars map[string]any, name string) (string, error) {
	v, ok := vars[name].(string)
	if !ok || v == "" {
		return "", userInputError("Variable \"$%s\" of required type \"String!\" was not provided.", name)
	}
	return v, nil
}

func floatVar(vars map[string]any, name string) (float64, error) {
	switch v := vars[name].(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	default:
		return 0, userInputError("Variable \"$%s\" of required type \"Float!\" was not provided.", name)
	}
}
