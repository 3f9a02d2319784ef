package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/MohamedAliSmk/pos-app/internal/revocation"
	"github.com/MohamedAliSmk/pos-app/internal/security"
	"github.com/MohamedAliSmk/pos-app/internal/telemetry"
	telemetrydomain "github.com/MohamedAliSmk/pos-app/internal/telemetry/domain"
)

const bearerPrefix = "bearer "

// Rejection messages returned in the 401 body.
const (
	MsgTokenExpired  = "Token has expired"
	MsgInvalidToken  = "Invalid token"
	MsgTokenRevoked  = "Token is revoked"
	MsgVerifyFailed  = "Unable to verify token"
	MsgMissingBearer = "Missing or invalid Authorization header"
)

const (
	gatekeeperMetric  = "pos.auth.gatekeeper.decisions"
	gatekeeperSource  = "gatekeeper"
	outcomeAnonymous  = "anonymous"
	outcomeAuthorized = "authorized"
)

// TokenDecoder verifies session tokens. *security.TokenCodec satisfies it.
type TokenDecoder interface {
	Decode(token string) (*security.Claims, error)
}

// RevocationChecker reports whether a token has been revoked. *revocation.Store satisfies it.
type RevocationChecker interface {
	Check(ctx context.Context, token string) error
}

// Gatekeeper validates the Bearer token on every gated request and binds the verified Identity
// into the request context. A request without a Bearer token passes through as anonymous;
// RequireAuthenticated rejects those on routes that need a caller.
type Gatekeeper struct {
	tokens   TokenDecoder
	revoked  RevocationChecker
	events   telemetry.EventEmitter
	decision metric.Int64Counter
}

// GatekeeperOption configures a Gatekeeper.
type GatekeeperOption func(*Gatekeeper)

// WithRejectionEvents emits a token_rejected event for every rejected token.
func WithRejectionEvents(e telemetry.EventEmitter) GatekeeperOption {
	return func(g *Gatekeeper) { g.events = e }
}

// WithMeter counts gatekeeper decisions by outcome on m.
func WithMeter(m metric.Meter) GatekeeperOption {
	return func(g *Gatekeeper) {
		if m == nil {
			return
		}
		counter, err := m.Int64Counter(gatekeeperMetric, metric.WithDescription("Gatekeeper decisions by outcome"))
		if err != nil {
			log.Printf("gatekeeper: create counter: %v", err)
			return
		}
		g.decision = counter
	}
}

// NewGatekeeper returns a Gatekeeper over tokens and revoked.
func NewGatekeeper(tokens TokenDecoder, revoked RevocationChecker, opts ...GatekeeperOption) *Gatekeeper {
	g := &Gatekeeper{tokens: tokens, revoked: revoked}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate returns the middleware that validates the Bearer token, if any.
func (g *Gatekeeper) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			g.record(c, outcomeAnonymous)
			c.Next()
			return
		}

		claims, err := g.tokens.Decode(token)
		if err != nil {
			if errors.Is(err, security.ErrExpiredToken) {
				g.reject(c, "expired", MsgTokenExpired, nil)
				return
			}
			g.reject(c, "invalid", MsgInvalidToken, nil)
			return
		}

		if err := g.revoked.Check(c.Request.Context(), token); err != nil {
			if errors.Is(err, revocation.ErrRevokedToken) {
				g.reject(c, "revoked", MsgTokenRevoked, claims)
				return
			}
			log.Printf("gatekeeper: revocation lookup failed: %v", err)
			g.reject(c, "lookup_failed", MsgVerifyFailed, claims)
			return
		}

		id := Identity{Subject: claims.Subject, Email: claims.Email, SessionID: claims.SessionID}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		g.record(c, outcomeAuthorized)
		c.Next()
	}
}

// RequireAuthenticated rejects anonymous callers. It must run after Authenticate.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c.Request.Context()); !ok {
			AbortError(c, http.StatusUnauthorized, MsgMissingBearer)
			return
		}
		c.Next()
	}
}

// reject aborts with 401. claims is nil unless the token's signature verified.
func (g *Gatekeeper) reject(c *gin.Context, reason, message string, claims *security.Claims) {
	g.record(c, reason)
	if g.events != nil {
		ctx := c.Request.Context()
		ev := &telemetrydomain.Event{
			Type:   telemetrydomain.EventTokenRejected,
			Source: gatekeeperSource,
			IP:     ClientIP(ctx),
			Reason: reason,
		}
		if claims != nil {
			ev.UserID, ev.SessionID = claims.Subject, claims.SessionID
		}
		telemetry.EmitAsync(g.events, ctx, ev)
	}
	AbortError(c, http.StatusUnauthorized, message)
}

func (g *Gatekeeper) record(c *gin.Context, outcome string) {
	if g.decision == nil {
		return
	}
	g.decision.Add(c.Request.Context(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// BearerToken returns the token from an Authorization header value, or "" if missing or not a Bearer credential.
// The scheme is matched case-insensitively.
func BearerToken(header string) string {
	v := strings.TrimSpace(header)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
