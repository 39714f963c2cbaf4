package user

import "time"

type Role string

const (
	RoleManager  Role = "manager"  // Facility manager - staff, settings and reports
	RoleEmployee Role = "employee" // Care worker - own time entries only
)

var Roles = []string{string(RoleManager), string(RoleEmployee)}

type User struct {
	ID              string
	Email           string
	Name            string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeID *string
}

// IsManager checks if user is a facility manager
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// HasPassword reports whether the account can sign in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
