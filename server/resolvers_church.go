package server

import (
	"context"

	"github.com/jrsteele09/go-church-gql/internal/utils"
	"github.com/jrsteele09/go-church-gql/sessions"
)

var offeringCategories = map[string]bool{
	"TITHE":        true,
	"THANKSGIVING": true,
	"SEED":         true,
	"BUILDING":     true,
	"MISSIONS":     true,
}

func (s *Server) resolveAnnouncements(_ context.Context, c *caller, _ map[string]any) (any, error) {
	return map[string]any{"announcements": s.content.listAnnouncements(c.member.ID, c.member.CanManageMembers())}, nil
}

func (s *Server) resolveCreateAnnouncement(_ context.Context, c *caller, vars map[string]any) (any, error) {
	if !c.member.CanManageMembers() {
		return nil, errPermissionDenied
	}
	title, err := stringVar(vars, "title")
	if err != nil {
		return nil, err
	}
	body, err := stringVar(vars, "body")
	if err != nil {
		return nil, err
	}
	groupIDs, _ := vars["groupIds"].([]any)
	a := s.content.addAnnouncement(Announcement{
		Title:     title,
		Body:      body,
		AuthorID:  c.member.ID,
		GroupIDs:  utils.ToStringSlice(groupIDs),
		CreatedAt: s.nowFunc(),
	})
	return map[string]any{"createAnnouncement": a}, nil
}

func (s *Server) resolveDevotionals(_ context.Context, _ *caller, _ map[string]any) (any, error) {
	return map[string]any{"devotionals": s.content.listDevotionals()}, nil
}

func (s *Server) resolvePrayerRequests(_ context.Context, c *caller, _ map[string]any) (any, error) {
	includePrivate := c.member.Role == sessions.RolePastor
	return map[string]any{"prayerRequests": s.content.listPrayerRequests(c.member.ID, includePrivate)}, nil
}

func (s *Server) resolveCreatePrayerRequest(_ context.Context, c *caller, vars map[string]any) (any, error) {
	title, err := stringVar(vars, "title")
	if err != nil {
		return nil, err
	}
	body, _ := vars["body"].(string)
	private, _ := vars["private"].(bool)
	pr := s.content.addPrayerRequest(PrayerRequest{
		Title:       title,
		Body:        body,
		RequesterID: c.member.ID,
		Private:     private,
		CreatedAt:   s.nowFunc(),
	})
	return map[string]any{"createPrayerRequest": pr}, nil
}

func (s *Server) resolveOfferings(_ context.Context, c *caller, _ map[string]any) (any, error) {
	if !c.member.CanManageMembers() {
		return nil, errPermissionDenied
	}
	offerings, total := s.content.listOfferings()
	return map[string]any{
		"offerings": map[string]any{
			"items": offerings,
			"total": total,
		},
	}, nil
}

func (s *Server) resolveRecordOffering(_ context.Context, c *caller, vars map[string]any) (any, error) {
	if c.member.Role != sessions.RoleSecretary && c.member.Role != sessions.RolePastor {
		return nil, errPermissionDenied
	}
	amount, err := floatVar(vars, "amount")
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, userInputError("Offering amount must be positive")
	}
	category, err := stringVar(vars, "category")
	if err != nil {
		return nil, err
	}
	if !offeringCategories[category] {
		return nil, userInputError("Unknown offering category %q", category)
	}
	o := s.content.addOffering(Offering{
		Amount:     amount,
		Category:   category,
		RecordedBy: c.member.ID,
		ServiceAt:  s.nowFunc(),
	})
	return map[string]any{"recordOffering": o}, nil
}

func (s *Server) resolveGroups(_ context.Context, c *caller, _ map[string]any) (any, error) {
	all := c.member.Role == sessions.RolePastor || c.member.Role == sessions.RoleSecretary
	return map[string]any{"groups": s.content.listGroups(c.member.ID, all)}, nil
}
