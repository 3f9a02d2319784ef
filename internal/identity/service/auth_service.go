// Package service implements the session authenticator: login issues a session token,
// logout revokes it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/audit"
	"github.com/MohamedAliSmk/pos-app/internal/docstore"
	"github.com/MohamedAliSmk/pos-app/internal/security"
	"github.com/MohamedAliSmk/pos-app/internal/telemetry"
	telemetrydomain "github.com/MohamedAliSmk/pos-app/internal/telemetry/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP responses.
var (
	ErrMissingParameters  = errors.New("missing required parameters")
	ErrInvalidSite        = errors.New("invalid site url")
	ErrInvalidCredentials = errors.New("invalid login credentials")
)

// eventSource tags telemetry events emitted by this package.
const eventSource = "identity"

// TokenCodec is the subset of security.TokenCodec the auth service needs.
type TokenCodec interface {
	Issue(subject, email, sessionID string) (token string, expiresAt time.Time, err error)
	Decode(token string) (*security.Claims, error)
	Peek(token string) (*security.Claims, bool)
}

// Revoker adds tokens to the revocation list.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
}

// LoginResult is the outcome of a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	SessionID string
	// Profile is nil when the user has no POS profile or the profile carries no branding or pricing fields.
	Profile *POSProfile
	User    UserSummary
}

// POSProfile is the consumer-facing view of the user's POS profile. Empty fields are absent.
// CustomLogo is an absolute URL.
type POSProfile struct {
	CompanyAddress string
	CustomLogo     string
	CRNo           string
	GSM            string
	POBox          string
	Address        string
	Terms          string
	PriceList      string
	ItemGroups     []string
}

// Empty reports whether no field is set.
func (p *POSProfile) Empty() bool {
	return p.CompanyAddress == "" && p.CustomLogo == "" && p.CRNo == "" && p.GSM == "" &&
		p.POBox == "" && p.Address == "" && p.Terms == "" && p.PriceList == "" && len(p.ItemGroups) == 0
}

// UserSummary is the identity summary returned at login. UserImage is an absolute URL or empty;
// Customer is the POS profile's default customer or empty.
type UserSummary struct {
	UserID    string
	FullName  string
	Email     string
	UserImage string
	Roles     []string
	Customer  string
}

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuthService implements login and logout over the document store, token codec, and revocation list.
type AuthService struct {
	store    docstore.Store
	tokens   TokenCodec
	revoker  Revoker
	site     string // normalized SITE_URL
	siteBase string // absolute SITE_URL used to build asset links
	audit    audit.AuditLogger
	events   telemetry.EventEmitter
	clientIP IPExtractor
}

// Option configures an AuthService.
type Option func(*AuthService)

// WithAuditLogger records login and logout in the audit log.
func WithAuditLogger(l audit.AuditLogger) Option {
	return func(s *AuthService) { s.audit = l }
}

// WithEventEmitter emits auth telemetry events.
func WithEventEmitter(e telemetry.EventEmitter) Option {
	return func(s *AuthService) { s.events = e }
}

// WithIPExtractor tags telemetry events with the client IP.
func WithIPExtractor(fn IPExtractor) Option {
	return func(s *AuthService) { s.clientIP = fn }
}

// NewAuthService returns an AuthService for the deployment at siteURL.
func NewAuthService(store docstore.Store, tokens TokenCodec, revoker Revoker, siteURL string, opts ...Option) *AuthService {
	s := &AuthService{
		store:    store,
		tokens:   tokens,
		revoker:  revoker,
		site:     NormalizeSiteURL(siteURL),
		siteBase: SiteBaseURL(siteURL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SiteBaseURL returns siteURL with a scheme (https when missing) and without trailing slashes.
func SiteBaseURL(siteURL string) string {
	base := strings.TrimRight(strings.TrimSpace(siteURL), "/")
	lower := strings.ToLower(base)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		base = "https://" + base
	}
	return base
}

// Login checks the site, authenticates username and password against the document store,
// resolves the user's profiles, and issues a session token.
func (s *AuthService) Login(ctx context.Context, siteURL, username, password string) (*LoginResult, error) {
	siteURL = strings.TrimSpace(siteURL)
	username = strings.TrimSpace(username)
	if siteURL == "" || username == "" || password == "" {
		return nil, ErrMissingParameters
	}
	if NormalizeSiteURL(siteURL) != s.site {
		s.loginFailed(ctx, username, "invalid_site")
		return nil, ErrInvalidSite
	}

	sess, err := s.store.AuthenticateCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, docstore.ErrAuthenticationFailed) {
			s.loginFailed(ctx, username, "invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	result, err := s.buildResult(ctx, sess)
	if err != nil {
		s.endSession(ctx, sess.ID)
		return nil, err
	}

	if s.audit != nil {
		s.audit.LogEvent(ctx, result.User.UserID, audit.ActionLogin, audit.ResourceSession, sess.ID)
	}
	s.emit(ctx, &telemetrydomain.Event{
		Type:      telemetrydomain.EventLoginSuccess,
		UserID:    result.User.UserID,
		SessionID: sess.ID,
	})
	return result, nil
}

func (s *AuthService) buildResult(ctx context.Context, sess *docstore.Session) (*LoginResult, error) {
	summary, profile, err := s.Profile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.Issue(summary.UserID, summary.Email, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		SessionID: sess.ID,
		Profile:   profile,
		User:      summary,
	}, nil
}

// Profile resolves the identity summary and POS profile of userID from the document store.
// The profile is nil when the user has none.
func (s *AuthService) Profile(ctx context.Context, userID string) (UserSummary, *POSProfile, error) {
	user, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		return UserSummary{}, nil, fmt.Errorf("load user profile: %w", err)
	}
	op, err := s.store.GetOperationalProfile(ctx, userID)
	if err != nil {
		return UserSummary{}, nil, fmt.Errorf("load pos profile: %w", err)
	}
	return s.summary(user, op), s.posProfileView(op), nil
}

// summary builds the consumer-facing identity summary from the document store profiles. op may be nil.
func (s *AuthService) summary(user *docstore.UserProfile, op *docstore.OperationalProfile) UserSummary {
	sum := UserSummary{
		UserID:    user.UserID,
		FullName:  user.FullName,
		Email:     user.Email,
		UserImage: AbsoluteURL(s.siteBase, user.UserImage),
		Roles:     user.Roles,
	}
	if sum.Roles == nil {
		sum.Roles = []string{}
	}
	if op != nil {
		sum.Customer = op.DefaultCustomer
	}
	return sum
}

// posProfileView converts an operational profile to its consumer-facing form, or nil when there is nothing to show.
func (s *AuthService) posProfileView(op *docstore.OperationalProfile) *POSProfile {
	if op == nil {
		return nil
	}
	p := &POSProfile{
		CompanyAddress: op.Branding.CompanyAddress,
		CustomLogo:     AbsoluteURL(s.siteBase, op.Branding.Logo),
		CRNo:           op.Branding.CRNo,
		GSM:            op.Branding.GSM,
		POBox:          op.Branding.POBox,
		Address:        op.Branding.Address,
		Terms:          op.Branding.Terms,
		PriceList:      op.PriceList,
		ItemGroups:     op.ItemGroups,
	}
	if p.Empty() {
		return nil
	}
	return p
}

// Logout revokes token and ends the stateful session it names. It never fails: the caller's
// intent is satisfied even when the token is missing, malformed, or already revoked, so
// internal failures are logged only. Only tokens signed by this service are revoked; the
// gatekeeper already rejects anything else.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	claims := s.trustedClaims(token)
	var userID, sessionID string
	if claims != nil {
		if err := s.revoker.Revoke(ctx, token); err != nil {
			log.Printf("identity: logout revoke failed: %v", err)
		}
		userID, sessionID = claims.Subject, claims.SessionID
		s.endSession(ctx, sessionID)
	}

	if s.audit != nil {
		s.audit.LogEvent(ctx, userID, audit.ActionLogout, audit.ResourceSession, sessionID)
	}
	s.emit(ctx, &telemetrydomain.Event{
		Type:      telemetrydomain.EventLogout,
		UserID:    userID,
		SessionID: sessionID,
	})
	return nil
}

// trustedClaims returns the claims of a token whose signature verifies, expired or not; nil otherwise.
func (s *AuthService) trustedClaims(token string) *security.Claims {
	claims, err := s.tokens.Decode(token)
	if err == nil {
		return claims
	}
	if errors.Is(err, security.ErrExpiredToken) {
		if claims, ok := s.tokens.Peek(token); ok {
			return claims
		}
	}
	return nil
}

func (s *AuthService) endSession(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.store.EndStatefulSession(ctx, sessionID); err != nil {
		log.Printf("identity: end session %s failed: %v", sessionID, err)
	}
}

func (s *AuthService) loginFailed(ctx context.Context, username, reason string) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, "", audit.ActionLoginFailed, audit.ResourceSession, reason+": "+username)
	}
	s.emit(ctx, &telemetrydomain.Event{
		Type:   telemetrydomain.EventLoginFailure,
		Reason: reason,
	})
}

func (s *AuthService) emit(ctx context.Context, event *telemetrydomain.Event) {
	if s.events == nil {
		return
	}
	event.Source = eventSource
	if s.clientIP != nil {
		event.IP = s.clientIP(ctx)
	}
	telemetry.EmitAsync(s.events, ctx, event)
}
