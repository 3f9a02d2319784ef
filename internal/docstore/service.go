package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	posdomain "github.com/MohamedAliSmk/pos-app/internal/posprofile/domain"
	"github.com/MohamedAliSmk/pos-app/internal/security"
	sessiondomain "github.com/MohamedAliSmk/pos-app/internal/session/domain"
	userdomain "github.com/MohamedAliSmk/pos-app/internal/user/domain"
)

// UserRepo is the minimal user repository needed by the document store.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByLogin(ctx context.Context, login string) (*userdomain.User, error)
	ListRoles(ctx context.Context, userID string) ([]string, error)
}

// ProfileRepo is the minimal POS profile repository needed by the document store.
type ProfileRepo interface {
	GetByUser(ctx context.Context, userID string) (*posdomain.Profile, error)
}

// SessionRepo is the minimal session repository needed by the document store.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, id string) error
}

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// Service implements Store on top of the user, POS profile, and session repositories.
type Service struct {
	users      UserRepo
	profiles   ProfileRepo
	sessions   SessionRepo
	hasher     *security.Hasher
	sessionTTL time.Duration
	clientIP   IPExtractor
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSessionTTL sets how long a stateful session stays open. Defaults to security.DefaultTokenTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithIPExtractor records the client IP on opened sessions.
func WithIPExtractor(fn IPExtractor) Option {
	return func(s *Service) { s.clientIP = fn }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService returns a document store over the given repositories.
func NewService(users UserRepo, profiles ProfileRepo, sessions SessionRepo, hasher *security.Hasher, opts ...Option) *Service {
	s := &Service{
		users:      users,
		profiles:   profiles,
		sessions:   sessions,
		hasher:     hasher,
		sessionTTL: security.DefaultTokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*Service)(nil)

// AuthenticateCredentials looks the user up by id or email, checks the bcrypt hash, and opens a session.
func (s *Service) AuthenticateCredentials(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.users.GetByLogin(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		s.hasher.CompareDummy([]byte(password))
		return nil, ErrAuthenticationFailed
	}
	if err := s.hasher.Compare(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrAuthenticationFailed
	}
	if !u.Enabled {
		return nil, ErrAuthenticationFailed
	}

	now := s.now().UTC()
	sess := &sessiondomain.Session{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if s.clientIP != nil {
		sess.IPAddress = s.clientIP(ctx)
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &Session{ID: sess.ID, UserID: u.ID, ExpiresAt: sess.ExpiresAt}, nil
}

// GetUserProfile returns the user's identity summary with roles. Returns ErrUserNotFound for an unknown id.
func (s *Service) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	roles, err := s.users.ListRoles(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	if roles == nil {
		roles = []string{}
	}
	return &UserProfile{
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		UserImage: u.UserImage,
		Roles:     roles,
	}, nil
}

// GetOperationalProfile returns the POS profile assigned to userID, or nil.
func (s *Service) GetOperationalProfile(ctx context.Context, userID string) (*OperationalProfile, error) {
	p, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pos profile: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	return &OperationalProfile{
		Name:            p.Name,
		PriceList:       p.SellingPriceList,
		ItemGroups:      p.ItemGroups,
		DefaultCustomer: p.Customer,
		Branding: Branding{
			CompanyAddress: p.CompanyAddress,
			Logo:           p.CustomLogo,
			CRNo:           p.CRNo,
			GSM:            p.GSM,
			POBox:          p.POBox,
			Address:        p.Address,
			Terms:          p.Terms,
		},
	}, nil
}

// EndStatefulSession revokes the session if it exists and is still open.
func (s *Service) EndStatefulSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.RevokedAt != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}
