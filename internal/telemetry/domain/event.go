package domain

import "time"

// Auth event types emitted by the session layer.
const (
	EventLoginSuccess  = "login_success"
	EventLoginFailure  = "login_failure"
	EventLogout        = "logout"
	EventTokenRejected = "token_rejected"
)

// Event is a single auth telemetry event. UserID and SessionID are empty when unknown
// (e.g. a failed login for an unknown username or a rejected malformed token).
type Event struct {
	Type      string    `json:"event_type"`
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Source    string    `json:"source"`
	IP        string    `json:"ip,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
