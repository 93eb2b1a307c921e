package domain

import "time"

// Role enumerates the single authorization axis for an account.
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether the value belongs to the closed role enum.
func ValidRole(r Role) bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for clients, employees and admins.
// Role is assigned exactly once at creation and never changes.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	AvatarURL    *string
	CreatedAt    time.Time
}

// IsClient reports whether the user is a client account.
func (u *User) IsClient() bool {
	return u != nil && u.Role == RoleClient
}

// IsAdmin reports whether the user is an administrator.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanAccessStaffArea reports whether the user belongs to staff
// (employee or admin).
func (u *User) CanAccessStaffArea() bool {
	return u != nil && (u.Role == RoleEmployee || u.Role == RoleAdmin)
}
