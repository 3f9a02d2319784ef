package domain

import (
	"errors"
	"time"
)

// User is a POS operator account. ID is the login name (often the email address).
type User struct {
	ID           string
	Email        string
	FullName     string
	UserImage    string // relative asset path; empty if no avatar
	PasswordHash string // bcrypt
	Enabled      bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
