package domain

import "strings"

// Role decides what a user may do with tasks.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleOperator   Role = "OPERATOR"
	RoleViewer     Role = "VIEWER"
)

// ParseRole accepts any letter case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleSupervisor, RoleOperator, RoleViewer:
		return r, true
	}
	return "", false
}

// User is the identity attached to a session.
type User struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// Session is the authenticated identity and bearer credential for one user.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Credentials is a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdate edits the caller's own profile. Nil fields are unchanged.
type ProfileUpdate struct {
	FullName *string `json:"fullName,omitempty"`
	Password *string `json:"password,omitempty"`
}
