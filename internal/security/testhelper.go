package security

import "time"

// testSecret is the HMAC secret for unit tests only. Do not use in production.
const testSecret = "unit-test-secret-do-not-use-in-production"

// NewTestTokenCodec returns a TokenCodec signed with the embedded test secret.
// now may be nil to use the wall clock. For unit tests only.
func NewTestTokenCodec(now func() time.Time) (*TokenCodec, error) {
	return NewTokenCodec([]byte(testSecret), DefaultTokenTTL, WithClock(now))
}
