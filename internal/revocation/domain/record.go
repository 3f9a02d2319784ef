package domain

import "time"

// Record is one revoked session token. Keyed by Fingerprint; never updated.
type Record struct {
	Fingerprint string
	Token       string
	RevokedAt   time.Time
	// ExpiresAt is when the token stops being valid on its own; after it the record can be swept.
	ExpiresAt time.Time
}
