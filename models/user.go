package models

import "time"

// User represents an account entity used for authentication and ownership
// scoping. Sensitive fields must never be exposed outside trusted boundaries:
// the password hash, the avatar blob and the active session list are all
// excluded from JSON serialization.
type User struct {
	// UserID is the unique identifier of the user, assigned by the database
	// at registration and immutable afterwards.
	UserID int64 `json:"id"`

	// Name is the display name of the user. Must be non-empty.
	Name string `json:"name"`

	// Email is the unique login identifier. Stored normalized: trimmed and
	// lower-cased. Uniqueness is enforced by the users table.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a derived value, never plaintext.
	PasswordHash string `json:"-"`

	// Avatar is an optional binary image blob. Served through a dedicated
	// endpoint, never inlined into user responses.
	Avatar []byte `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserUpdate carries a partial profile update. Nil fields are left unchanged.
// Password, when present, holds the plaintext submitted by the client and is
// hashed by the service layer before it reaches the store.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}
