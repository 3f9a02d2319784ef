package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MohamedAliSmk/pos-app/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	mu        sync.Mutex
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, func(ctx context.Context) string { return "192.168.1.1" })

	logger.LogEvent(context.Background(), "cashier@example.com", ActionLogin, ResourceSession, "sess-1")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != "cashier@example.com" {
		t.Errorf("user_id = %q, want %q", entry.UserID, "cashier@example.com")
	}
	if entry.Action != ActionLogin {
		t.Errorf("action = %q, want %q", entry.Action, ActionLogin)
	}
	if entry.Resource != ResourceSession {
		t.Errorf("resource = %q, want %q", entry.Resource, ResourceSession)
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	if entry.Metadata != "sess-1" {
		t.Errorf("metadata = %q, want %q", entry.Metadata, "sess-1")
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
}

func TestLogger_LogEvent_UnknownIP(t *testing.T) {
	testCases := []struct {
		name      string
		extractor IPExtractor
	}{
		{"nil extractor", nil},
		{"empty result", func(context.Context) string { return "" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockAuditRepo{}
			NewLogger(repo, tc.extractor).LogEvent(context.Background(), "", ActionLoginFailed, ResourceSession, "")
			if len(repo.entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(repo.entries))
			}
			if repo.entries[0].IP != "unknown" {
				t.Errorf("ip = %q, want %q", repo.entries[0].IP, "unknown")
			}
		})
	}
}

func TestLogger_LogEvent_RepositoryError(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("database error")}
	// Should not panic or return error - best-effort logging
	NewLogger(repo, nil).LogEvent(context.Background(), "u", ActionLogout, ResourceSession, "")
}

func TestLogger_LogEvent_NilRepo(t *testing.T) {
	NewLogger(nil, nil).LogEvent(context.Background(), "u", ActionLogout, ResourceSession, "")
	var nilLogger *Logger
	nilLogger.LogEvent(context.Background(), "u", ActionLogout, ResourceSession, "")
}
