package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleVIP   UserRole = "vip"
	UserRoleAdmin UserRole = "admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleVIP, UserRoleAdmin:
		return true
	}
	return false
}

// User represents an authenticated account within the platform.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	Role            UserRole
	VIPExpiresAt    *time.Time
	DailyUsage      int
	LastUsageReset  time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasActiveVIP reports whether the user holds an unexpired VIP subscription.
func (u User) HasActiveVIP(now time.Time) bool {
	if u.Role != UserRoleVIP {
		return false
	}
	return u.VIPExpiresAt == nil || u.VIPExpiresAt.After(now)
}

// Privileged reports whether the user is exempt from daily quota limits.
// An expired VIP subscription does not grant the exemption.
func (u User) Privileged(now time.Time) bool {
	return u.Role == UserRoleAdmin || u.HasActiveVIP(now)
}
