// Package consumer turns auth events read from the Kafka stream into audit log entries.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	auditdomain "github.com/MohamedAliSmk/pos-app/internal/audit/domain"
	auditrepo "github.com/MohamedAliSmk/pos-app/internal/audit/repository"
	"github.com/MohamedAliSmk/pos-app/internal/telemetry/domain"
)

// Rejected tokens are audited under this action and resource.
const (
	ActionTokenRejected = "token_rejected"
	ResourceToken       = "token"
)

// Auditor persists token rejections from the event stream. Logins and logouts are audited
// by the API itself and are skipped here.
type Auditor struct {
	repo auditrepo.Repository
}

// NewAuditor returns an Auditor writing to repo.
func NewAuditor(repo auditrepo.Repository) *Auditor {
	return &Auditor{repo: repo}
}

// HandleMessage decodes one message value and audits it when it is a token rejection.
// Returns handled=false for events it skips. A malformed value is an error.
func (a *Auditor) HandleMessage(ctx context.Context, value []byte) (handled bool, err error) {
	var event domain.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return false, fmt.Errorf("decode auth event: %w", err)
	}
	if event.Type != domain.EventTokenRejected {
		return false, nil
	}
	entry := toAuditLog(&event)
	if err := a.repo.Create(ctx, entry); err != nil {
		return false, fmt.Errorf("create audit log: %w", err)
	}
	return true, nil
}

func toAuditLog(event *domain.Event) *auditdomain.AuditLog {
	ip := event.IP
	if ip == "" {
		ip = "unknown"
	}
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &auditdomain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    event.UserID,
		Action:    ActionTokenRejected,
		Resource:  ResourceToken,
		IP:        ip,
		Metadata:  event.Reason,
		CreatedAt: createdAt,
	}
}
