package sessions

import (
	"context"
	"encoding/json"
)

// Storage keys shared by every Store backend.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Role decides which dashboard a signed in member lands on.
type Role string

const (
	RolePastor       Role = "PASTOR"
	RoleSecretary    Role = "SECRETARY"
	RoleEvangelist   Role = "EVANGELIST"
	RoleChurchMember Role = "CHURCH_MEMBER"
)

// Dashboard returns the landing route for the role.
func (r Role) Dashboard() string {
	switch r {
	case RolePastor:
		return "/pastor/dashboard"
	case RoleSecretary:
		return "/secretary/dashboard"
	case RoleEvangelist:
		return "/evangelist/dashboard"
	default:
		return "/member/dashboard"
	}
}

// User is the signed in member as returned by the login mutation.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session holds the credentials of the signed in member. An empty string
// means absent: stores never persist an empty token.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

func (s Session) HasAccessToken() bool {
	return s.AccessToken != ""
}

func (s Session) HasRefreshToken() bool {
	return s.RefreshToken != ""
}

// IsEmpty reports whether every field is absent.
func (s Session) IsEmpty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

// Store persists the process wide session. Every method is a single atomic
// write or read with respect to the fields it touches: readers never observe
// a half applied Save, SetAccessToken or Clear.
type Store interface {
	// Load returns the current session. A missing session is the zero
	// Session, not an error.
	Load(ctx context.Context) (Session, error)

	// Save replaces all three fields together. Empty fields are removed.
	Save(ctx context.Context, session Session) error

	// SetAccessToken replaces only the access token, keeping the refresh
	// token and user. It returns errors.ErrSessionNotFound and writes nothing
	// when no refresh token is stored, so a refresh finishing after a Clear
	// cannot bring back a partial session.
	SetAccessToken(ctx context.Context, accessToken string) error

	// Clear removes all three fields. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error
}

// EncodeUser serialises the user for the KeyUser entry.
func EncodeUser(u *User) (string, error) {
	if u == nil {
		return "", nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeUser parses a KeyUser entry. An empty value decodes to nil.
func DecodeUser(s string) (*User, error) {
	if s == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return nil, err
	}
	return &u, nil
}
