// Package domain holds the stored document types and the rules that apply to
// them independent of storage or transport.
package domain

import (
	"strings"
	"time"
)

// Role is a capability flag on a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account, keyed by its unique email.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName,omitempty"`
	PhotoURL     string     `json:"photoURL,omitempty"`
	PasswordHash string     `json:"passwordHash,omitempty"` // never leaves the API layer
	Role         Role       `json:"role"`
	IsPremium    bool       `json:"isPremium"`
	PremiumSince *time.Time `json:"premiumSince,omitempty"`
	Timestamps
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// MarkPremium sets the premium flag and stamps PremiumSince with the
// time of this upgrade.
func (u *User) MarkPremium(at time.Time) {
	at = at.UTC()
	u.IsPremium = true
	u.PremiumSince = &at
}

// NormalizeEmail is the canonical form used for identity comparisons and index keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail compares two emails case-insensitively.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}
