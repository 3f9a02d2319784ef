package domain

import "time"

// Session is the stateful record opened at login alongside the stateless token.
// Logout marks it revoked; the token itself is denied through the revocation list.
type Session struct {
	ID        string
	UserID    string
	IPAddress string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // nil when not revoked
}

// Active reports whether the session is neither revoked nor past its expiry at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
