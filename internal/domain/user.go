package domain

import "time"

// RoleTier is the fixed set of authority tiers a user can hold.
type RoleTier string

const (
	RoleAnonymous    RoleTier = "ANONYMOUS"
	RoleVerified     RoleTier = "VERIFIED"
	RoleExpert       RoleTier = "EXPERT"
	RoleDoctorate    RoleTier = "DOCTORATE"
	RoleOrganization RoleTier = "ORGANIZATION"
	RoleModerator    RoleTier = "MODERATOR"
)

// User is the read-side view of an account held by the identity subsystem.
// The consensus core reads role/trust/ban state and writes trust only.
type User struct {
	ID            string     `json:"id"`
	Role          RoleTier   `json:"role"`
	TrustScore    int64      `json:"trustScore"`
	EmailVerified bool       `json:"emailVerified"`
	BanLevel      int        `json:"banLevel"`
	BannedUntil   *time.Time `json:"bannedUntil,omitempty"`
}

// Banned reports whether the user is banned at the given instant.
// A ban with no expiry is permanent.
func (u User) Banned(now time.Time) bool {
	if u.BanLevel <= 0 {
		return false
	}
	if u.BannedUntil == nil {
		return true
	}
	return now.Before(*u.BannedUntil)
}
