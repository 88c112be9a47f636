package records

import (
	"errors"
	"time"
)

// ErrNotFound signals a lookup miss in the record store.
var ErrNotFound = errors.New("records: not found")

// User is the fallback-store user record. The hashed password only exists
// here; the hosted backend owns credentials itself.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"hashed_password,omitempty"`
	FullName       string     `json:"full_name"`
	Phone          *string    `json:"phone,omitempty"`
	BusinessID     string     `json:"business_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login"`
}

// Redacted returns a copy safe to hand to callers: the password hash is
// stripped unconditionally.
func (u User) Redacted() User {
	u.HashedPassword = ""
	return u
}

// Business is owned by exactly one user. Legal and trade name both default
// to the supplied business name at registration.
type Business struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LegalName string    `json:"legal_name"`
	TradeName string    `json:"trade_name"`
	GSTIN     *string   `json:"gstin"`
	PAN       *string   `json:"pan"`
	CreatedAt time.Time `json:"created_at"`
}
