package docstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MohamedAliSmk/pos-app/internal/security"
)

// MemoryStore is an in-memory Store for tests and local demos. Not for production use.
type MemoryStore struct {
	mu       sync.Mutex
	hasher   *security.Hasher
	users    map[string]*memUser
	profiles map[string]*OperationalProfile
	sessions map[string]*memSession
	// Err, when set, is returned by every method to simulate a store outage.
	Err error
}

type memUser struct {
	profile  UserProfile
	hash     string
	disabled bool
}

type memSession struct {
	userID string
	ended  bool
}

// NewMemoryStore returns an empty MemoryStore. hasher may be nil for bcrypt cost 4.
func NewMemoryStore(hasher *security.Hasher) *MemoryStore {
	if hasher == nil {
		hasher = security.NewHasher(4)
	}
	return &MemoryStore{
		hasher:   hasher,
		users:    make(map[string]*memUser),
		profiles: make(map[string]*OperationalProfile),
		sessions: make(map[string]*memSession),
	}
}

// AddUser registers a user with the given password.
func (m *MemoryStore) AddUser(p UserProfile, password string) error {
	hash, err := m.hasher.Hash([]byte(password))
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Roles == nil {
		p.Roles = []string{}
	}
	m.users[p.UserID] = &memUser{profile: p, hash: hash}
	return nil
}

// DisableUser makes the user unable to authenticate.
func (m *MemoryStore) DisableUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.disabled = true
	}
}

// SetOperationalProfile assigns p to userID.
func (m *MemoryStore) SetOperationalProfile(userID string, p *OperationalProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = p
}

// SessionEnded reports whether the session exists and has been ended.
func (m *MemoryStore) SessionEnded(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return ok && s.ended
}

// OpenSessions returns the number of sessions that have not been ended.
func (m *MemoryStore) OpenSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sessions {
		if !s.ended {
			n++
		}
	}
	return n
}

func (m *MemoryStore) AuthenticateCredentials(ctx context.Context, username, password string) (*Session, error) {
	m.mu.Lock()
	if m.Err != nil {
		m.mu.Unlock()
		return nil, m.Err
	}
	u := m.lookup(username)
	m.mu.Unlock()
	if u == nil {
		return nil, ErrAuthenticationFailed
	}
	if err := m.hasher.Compare(u.hash, []byte(password)); err != nil || u.disabled {
		return nil, ErrAuthenticationFailed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.sessions[id] = &memSession{userID: u.profile.UserID}
	return &Session{ID: id, UserID: u.profile.UserID, ExpiresAt: time.Now().Add(security.DefaultTokenTTL)}, nil
}

func (m *MemoryStore) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	p := u.profile
	p.Roles = append([]string{}, u.profile.Roles...)
	return &p, nil
}

func (m *MemoryStore) GetOperationalProfile(ctx context.Context, userID string) (*OperationalProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.profiles[userID]
	if !ok || p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) EndStatefulSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if s, ok := m.sessions[sessionID]; ok {
		s.ended = true
	}
	return nil
}

// lookup finds a user by id, then by case-insensitive email. Caller holds m.mu.
func (m *MemoryStore) lookup(login string) *memUser {
	if u, ok := m.users[login]; ok {
		return u
	}
	for _, u := range m.users {
		if strings.EqualFold(u.profile.Email, login) {
			return u
		}
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
