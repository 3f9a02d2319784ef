// Package docstore is the document store the auth layer reads users, POS profiles,
// and login sessions from. It is backed by the Postgres repositories.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrAuthenticationFailed is returned by AuthenticateCredentials for an unknown user,
// a disabled user, or a wrong password. The three cases are deliberately indistinguishable.
var ErrAuthenticationFailed = errors.New("authentication failed")

// ErrUserNotFound is returned by GetUserProfile when the user does not exist.
var ErrUserNotFound = errors.New("user not found")

// Session is the stateful login session opened by AuthenticateCredentials.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// UserProfile is the identity summary of a user. UserImage is a relative asset path or empty.
type UserProfile struct {
	UserID    string
	Email     string
	FullName  string
	UserImage string
	Roles     []string
}

// OperationalProfile is the POS configuration attached to a user. All fields are optional.
type OperationalProfile struct {
	Name            string
	PriceList       string
	ItemGroups      []string
	DefaultCustomer string
	Branding        Branding
}

// Branding holds the receipt and header fields of a POS profile. Logo is a relative asset path.
type Branding struct {
	CompanyAddress string
	Logo           string
	CRNo           string
	GSM            string
	POBox          string
	Address        string
	Terms          string
}

// Store is the document store interface the session layer depends on.
type Store interface {
	// AuthenticateCredentials verifies username and password and opens a stateful session.
	AuthenticateCredentials(ctx context.Context, username, password string) (*Session, error)
	// GetUserProfile returns the identity summary for userID.
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
	// GetOperationalProfile returns the user's POS profile, or nil when none is assigned.
	GetOperationalProfile(ctx context.Context, userID string) (*OperationalProfile, error)
	// EndStatefulSession marks the session ended. An empty, unknown, or already ended id is a no-op.
	EndStatefulSession(ctx context.Context, sessionID string) error
}
