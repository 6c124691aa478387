package users

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-church-gql/sessions"
)

// Seed accounts, one per dashboard role.
var seedMembers = []Member{
	{ID: "member-pastor", Email: "pastor@church.test", FirstName: "Grace", LastName: "Mensah", Role: sessions.RolePastor},
	{ID: "member-secretary", Email: "secretary@church.test", FirstName: "Samuel", LastName: "Owusu", Role: sessions.RoleSecretary},
	{ID: "member-evangelist", Email: "evangelist@church.test", FirstName: "Ruth", LastName: "Adjei", Role: sessions.RoleEvangelist, GroupIDs: []string{"outreach"}},
	{ID: "member-1", Email: "member@church.test", FirstName: "Daniel", LastName: "Boateng", Role: sessions.RoleChurchMember, GroupIDs: []string{"choir"}},
}

// Seed loads one account per role, all sharing password.
func Seed(repo Repo, password string) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return fmt.Errorf("seed password: %w", err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed password hash: %w", err)
	}
	for _, m := range seedMembers {
		m := m
		m.PasswordHash = hash
		m.DateJoined = time.Now()
		if err := repo.Upsert(&m); err != nil {
			return fmt.Errorf("seed %s: %w", m.Email, err)
		}
	}
	return nil
}
