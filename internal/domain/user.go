package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// User is the account anchor; email is the only sign-in credential.
type User struct {
	ID                UserID
	Email             string
	BillingCustomerID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Identity is the resolved caller of a request, keyed by email.
type Identity struct {
	UserID string // subject of the session token; informational only
	Email  string
}

// IsZero reports whether no identity was resolved.
func (i Identity) IsZero() bool { return i.Email == "" }
