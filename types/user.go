package types

// User represents an account allowed to access the dashboard backend.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the user's login email address.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the uppercase hex digest of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// IsAdmin grants access to user administration, data import,
	// retention purge and report configuration.
	IsAdmin bool `json:"is_admin" db:"is_admin"`
}
