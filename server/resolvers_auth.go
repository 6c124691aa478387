package server

import (
	"context"

	"github.com/jrsteele09/go-church-gql/users"
)

const (
	msgInvalidLogin        = "Invalid email or password"
	msgInvalidRefreshToken = "invalid refresh token"
)

func (s *Server) initResolvers() {
	s.resolvers = map[string]resolver{
		"Login":        {resolve: s.resolveLogin},
		"RefreshToken": {resolve: s.resolveRefreshToken},
		"Logout":       {authenticated: true, resolve: s.resolveLogout},
		"Me":           {authenticated: true, resolve: s.resolveMe},

		"Announcements":       {authenticated: true, resolve: s.resolveAnnouncements},
		"CreateAnnouncement":  {authenticated: true, resolve: s.resolveCreateAnnouncement},
		"Devotionals":         {authenticated: true, resolve: s.resolveDevotionals},
		"PrayerRequests":      {authenticated: true, resolve: s.resolvePrayerRequests},
		"CreatePrayerRequest": {authenticated: true, resolve: s.resolveCreatePrayerRequest},
		"Offerings":           {authenticated: true, resolve: s.resolveOfferings},
		"RecordOffering":      {authenticated: true, resolve: s.resolveRecordOffering},
		"Groups":              {authenticated: true, resolve: s.resolveGroups},
	}
}

func (s *Server) resolveLogin(_ context.Context, _ *caller, vars map[string]any) (any, error) {
	email, err := stringVar(vars, "email")
	if err != nil {
		return nil, err
	}
	password, err := stringVar(vars, "password")
	if err != nil {
		return nil, err
	}

	member, err := s.members.GetByEmail(email)
	if err != nil || member.Blocked || !users.CheckPasswordHash(password, member.PasswordHash) {
		return nil, &gqlError{message: msgInvalidLogin, code: codeBadUserInput}
	}

	accessToken, err := s.issuer.Issue(member.ID, string(member.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.Create(member.ID)
	if err != nil {
		return nil, err
	}

	member.LastLogin = s.nowFunc()
	if err := s.members.Upsert(member); err != nil {
		return nil, err
	}

	return map[string]any{
		"login": map[string]any{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user":         member.SessionUser(),
		},
	}, nil
}

func (s *Server) resolveRefreshToken(_ context.Context, _ *caller, vars map[string]any) (any, error) {
	rt, ok := vars["refreshToken"].(string)
	if !ok {
		return nil, &gqlError{message: msgInvalidRefreshToken, code: codeUnauthenticated}
	}
	stored, err := s.refresh.Validate(rt)
	if err != nil {
		return nil, &gqlError{message: msgInvalidRefreshToken, code: codeUnauthenticated}
	}
	member, err := s.members.GetByID(stored.UserID)
	if err != nil || member.Blocked {
		return nil, &gqlError{message: msgInvalidRefreshToken, code: codeUnauthenticated}
	}

	accessToken, err := s.issuer.Issue(member.ID, string(member.Role))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"refreshToken": map[string]any{
			"accessToken": accessToken,
		},
	}, nil
}

func (s *Server) resolveLogout(_ context.Context, c *caller, vars map[string]any) (any, error) {
	if rt, ok := vars["refreshToken"].(string); ok && rt != "" {
		if stored, err := s.refresh.Validate(rt); err == nil && stored.UserID == c.member.ID {
			if err := s.refresh.Revoke(rt); err != nil {
				return nil, err
			}
		}
	}
	s.issuer.Revoke(c.claims)
	return map[string]any{"logout": map[string]any{"success": true}}, nil
}

func (s *Server) resolveMe(_ context.Context, c *caller, _ map[string]any) (any, error) {
	return map[string]any{"me": c.member.SessionUser()}, nil
}
