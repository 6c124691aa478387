package users

import (
	"fmt"
	"time"
	"unicode"

	"github.com/jrsteele09/go-church-gql/sessions"
	"golang.org/x/crypto/bcrypt"
)

// Member is a church member known to the development server.
type Member struct {
	ID           string        `json:"id,omitempty"`        // Unique identifier for the member
	Email        string        `json:"email,omitempty"`     // Login email
	PasswordHash string        `json:"-"`                   // Never serialize
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	Role         sessions.Role `json:"role,omitempty"`     // Decides the dashboard
	GroupIDs     []string      `json:"groupIds,omitempty"` // Fellowship groups the member belongs to
	DateJoined   time.Time     `json:"dateJoined,omitempty"`
	LastLogin    time.Time     `json:"lastLogin,omitempty"`
	Blocked      bool          `json:"blocked,omitempty"` // Blocked members cannot log in
}

// SessionUser is the member as stored in the client session.
func (m *Member) SessionUser() *sessions.User {
	return &sessions.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Role:      m.Role,
	}
}

// CanManageMembers reports whether the role may edit other members.
func (m *Member) CanManageMembers() bool {
	return m.Role == sessions.RolePastor || m.Role == sessions.RoleSecretary
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
