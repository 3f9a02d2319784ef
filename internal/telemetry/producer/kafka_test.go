package producer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/telemetry/domain"
)

func TestNewKafkaProducer_NoBrokers(t *testing.T) {
	testCases := []struct {
		name    string
		brokers []string
		topic   string
	}{
		{"no brokers", nil, "pos-auth-events"},
		{"no topic", []string{"localhost:9092"}, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewKafkaProducer(tc.brokers, tc.topic)
			if err != nil {
				t.Fatalf("NewKafkaProducer: %v", err)
			}
			if p != nil {
				t.Error("producer should be nil when brokers or topic are missing")
			}
			if err := p.Emit(context.Background(), &domain.Event{Type: domain.EventLogout}); err != nil {
				t.Errorf("nil producer Emit: %v", err)
			}
			if err := p.Close(); err != nil {
				t.Errorf("nil producer Close: %v", err)
			}
		})
	}
}

func TestNewKafkaProducer_Configured(t *testing.T) {
	p, err := NewKafkaProducer([]string{"localhost:9092"}, "pos-auth-events")
	if err != nil {
		t.Fatalf("NewKafkaProducer: %v", err)
	}
	if p == nil {
		t.Fatal("producer should not be nil")
	}
	defer p.Close()
	if p.Topic() != "pos-auth-events" {
		t.Errorf("Topic = %q, want %q", p.Topic(), "pos-auth-events")
	}
}

func TestEncodeMessage(t *testing.T) {
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	msg, err := encodeMessage(&domain.Event{
		Type:      domain.EventLoginSuccess,
		UserID:    "cashier@example.com",
		SessionID: "sess-1",
		Source:    "identity",
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("encodeMessage: %v", err)
	}
	if string(msg.Key) != "cashier@example.com" {
		t.Errorf("key = %q, want user id", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != domain.EventLoginSuccess {
		t.Errorf("headers = %+v, want event_type header", msg.Headers)
	}
	var decoded map[string]any
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["event_type"] != domain.EventLoginSuccess || decoded["session_id"] != "sess-1" {
		t.Errorf("payload = %v", decoded)
	}
	if _, ok := decoded["ip"]; ok {
		t.Error("empty ip should be omitted")
	}
}

func TestEncodeMessage_AnonymousHasNoKey(t *testing.T) {
	msg, err := encodeMessage(&domain.Event{Type: domain.EventTokenRejected, Reason: "invalid"})
	if err != nil {
		t.Fatalf("encodeMessage: %v", err)
	}
	if msg.Key != nil {
		t.Errorf("key = %q, want nil", msg.Key)
	}
}
