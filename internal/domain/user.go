package domain

import (
	"context"
	"time"
)

// User-related domain errors.
var (
	ErrUserNotFound = &Error{Code: ENOTFOUND, Message: "User not found"}
)

// User is a platform account. Plan and PlanExpireDate are entitlement
// fields: they mutate only through payment reconciliation, never through
// plain user updates.
type User struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phone_number"`
	IsActive       bool       `json:"is_active"`
	PlanID         *int64     `json:"plan_id"`
	PlanExpireDate *time.Time `json:"plan_expire_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FullName joins first and last name for display and for the charge
// processor's customer block.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserRepository provides access to user records. User CRUD beyond what
// payments and store provisioning need lives in the auth service.
type UserRepository interface {
	// GetUser returns ErrUserNotFound if no user exists with the given id.
	GetUser(ctx context.Context, id int64) (*User, error)

	// DeleteUser removes a user and all dependent rows (stores, payments)
	// in one transaction. The cascade is explicit, not left to the ORM.
	DeleteUser(ctx context.Context, id int64) error
}
