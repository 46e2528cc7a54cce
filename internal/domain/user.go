package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Tier enumerates subscription tiers.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// User represents an authenticated account within the platform.
type User struct {
	ID         string
	Email      string
	Name       string
	GHINNumber string
	Role       UserRole
	Tier       Tier
	Credits    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPro reports whether the user has an active pro subscription,
// which grants unlimited analyses.
func (u User) IsPro() bool {
	return u.Tier == TierPro
}

// CanCommitAnalysis reports whether the user is entitled to persist
// one more analysis.
func (u User) CanCommitAnalysis() bool {
	return u.IsPro() || u.Credits > 0
}
