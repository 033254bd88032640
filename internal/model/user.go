package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. PasswordHash is nil for federated
// identities (Auth0ID set), in which case local password login is refused.
type User struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Username        string    `db:"username" json:"username"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    *string   `db:"password_hash" json:"-"`
	Auth0ID         *string   `db:"auth0_id" json:"-"`
	Role            string    `db:"role" json:"role"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	IsVerified      bool      `db:"is_verified" json:"is_verified"`
	WeeklyViewCount int       `db:"weekly_view_count" json:"weekly_view_count"`
	LastWeeklyReset time.Time `db:"last_weekly_reset" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// RecentView is one entry of a user's recently-viewed list, newest first,
// capped at 20 per user by the store.
type RecentView struct {
	HospitalID int       `db:"hospital_id" json:"hospital_id"`
	ViewedAt   time.Time `db:"viewed_at" json:"viewed_at"`
}
