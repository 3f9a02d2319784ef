package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the session token lifetime used when the codec is built with a zero TTL.
const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidToken is returned when a token is malformed, carries a bad signature, or uses a non-allowed algorithm.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a well-signed token is at or past its exp claim.
	ErrExpiredToken = errors.New("token has expired")
	// ErrEmptySecret is returned by NewTokenCodec when no signing secret is configured.
	ErrEmptySecret = errors.New("token signing secret is empty")
)

// signingMethod is the only algorithm the codec signs with or accepts.
var signingMethod = jwt.SigningMethodHS256

// Claims holds the JWT claims of a POS session token.
// Subject is the user id; SessionID names the document-store session opened at login, if any.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	SessionID string `json:"sid,omitempty"`
}

// TokenCodecOption configures a TokenCodec.
type TokenCodecOption func(*TokenCodec)

// WithClock overrides the codec's time source. Used by tests to pin "now".
func WithClock(now func() time.Time) TokenCodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// TokenCodec issues and validates HS256 session tokens with a secret injected at construction.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenCodec returns a TokenCodec that signs with secret. ttl <= 0 selects DefaultTokenTTL.
func NewTokenCodec(secret []byte, ttl time.Duration, opts ...TokenCodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// TTL returns the lifetime applied by Issue.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject at the codec's current time with the configured TTL.
// sessionID may be empty. Returns the token and its expiration time.
func (c *TokenCodec) Issue(subject, email, sessionID string) (token string, expiresAt time.Time, err error) {
	return c.encode(subject, email, sessionID, c.now().UTC(), c.ttl)
}

// Encode signs a token whose exp is issuedAt + ttl.
func (c *TokenCodec) Encode(subject, email string, issuedAt time.Time, ttl time.Duration) (string, error) {
	token, _, err := c.encode(subject, email, "", issuedAt, ttl)
	return token, err
}

func (c *TokenCodec) encode(subject, email, sessionID string, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrInvalidToken
	}
	expiresAt := ceilSecond(issuedAt.Add(ttl))
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:     email,
		SessionID: sessionID,
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and expiry of tokenString and returns its claims.
// Returns ErrExpiredToken when now >= exp and ErrInvalidToken for every other failure.
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := c.parser.ParseWithClaims(tokenString, claims, c.key)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Peek returns the claims of tokenString without verifying its signature or expiry.
// Only for bookkeeping (e.g. finding exp or sid at logout); never for trust decisions.
func (c *TokenCodec) Peek(tokenString string) (*Claims, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func (c *TokenCodec) key(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return c.secret, nil
}

// ceilSecond rounds t up to the next whole second, matching the claim precision.
func ceilSecond(t time.Time) time.Time {
	if tr := t.Truncate(time.Second); !tr.Equal(t) {
		return tr.Add(time.Second)
	}
	return t
}
