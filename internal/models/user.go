package models

import "time"

// Role is the closed set of user roles. Write endpoints are only
// reachable with RoleAdmin.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User represents a class member. Identity (NIM and name) is fixed at
// seed time; only the password fields change afterwards.
type User struct {
	ID           string    `json:"id"`
	NIM          string    `json:"nim"`
	Nama         string    `json:"nama"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	// PasswordChanged is false until the user replaces the default
	// password (which is their NIM).
	PasswordChanged bool      `json:"password_changed"`
	CreatedAt       time.Time `json:"created_at"`
}

// NeedsPasswordChange reports whether the user is still on the seeded
// default password.
func (u User) NeedsPasswordChange() bool {
	return !u.PasswordChanged
}
