package domain

import (
	"strings"
	"time"
)

// Role is the coarse capability class of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole returns the Role named by s. The role set is closed: any other
// string is rejected rather than coerced.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// User is the persisted identity record.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Image        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the caller-facing projection of a User. It has no password
// field at all, so it can be serialised anywhere.
type Principal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is a Principal plus its last modification time, returned by the
// user management operations.
type Profile struct {
	Principal
	UpdatedAt time.Time `json:"updatedAt"`
}

// Principal strips the password hash.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

// Profile strips the password hash and keeps UpdatedAt.
func (u *User) Profile() *Profile {
	return &Profile{Principal: *u.Principal(), UpdatedAt: u.UpdatedAt}
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// NormalizeEmail lower-cases and trims an email address. Every email is
// normalised before it is stored or used as a lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserPatch carries the mutable fields of an update. Nil fields are left
// untouched by the store.
type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *Role
	Image        *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil && p.Role == nil && p.Image == nil
}
