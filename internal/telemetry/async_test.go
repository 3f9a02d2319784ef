package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/telemetry/domain"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*domain.Event
	emitErr error
	delay   time.Duration
	done    chan struct{}
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Event(nil), m.events...)
}

func waitEmit(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("emit did not happen")
	}
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	// Should not panic
	EmitAsync(nil, context.Background(), &domain.Event{Type: domain.EventLogout})
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, context.Background(), nil)
	time.Sleep(10 * time.Millisecond)
	if events := emitter.getEvents(); len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1)}
	EmitAsync(emitter, context.Background(), &domain.Event{
		Type:   domain.EventLoginSuccess,
		UserID: "cashier@example.com",
		Source: "identity",
	})
	waitEmit(t, emitter.done)

	events := emitter.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].UserID != "cashier@example.com" {
		t.Errorf("user_id = %q, want %q", events[0].UserID, "cashier@example.com")
	}
	if events[0].Type != domain.EventLoginSuccess {
		t.Errorf("event type = %q, want %q", events[0].Type, domain.EventLoginSuccess)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}
}

func TestEmitAsync_KeepsCreatedAt(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1)}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	EmitAsync(emitter, context.Background(), &domain.Event{Type: domain.EventLogout, CreatedAt: at})
	waitEmit(t, emitter.done)
	if got := emitter.getEvents()[0].CreatedAt; !got.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got, at)
	}
}

func TestEmitAsync_UsesBackgroundContext(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1), delay: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	EmitAsync(emitter, ctx, &domain.Event{Type: domain.EventTokenRejected})
	waitEmit(t, emitter.done)

	if events := emitter.getEvents(); len(events) != 1 {
		t.Errorf("expected 1 event (context.Background used), got %d", len(events))
	}
}

func TestEmitAsync_ErrorDoesNotPanic(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1), emitErr: errors.New("sink down")}
	EmitAsync(emitter, context.Background(), &domain.Event{Type: domain.EventLoginFailure})
	waitEmit(t, emitter.done)
}

func TestShutdownDrainDuration(t *testing.T) {
	if ShutdownDrainDuration < emitTimeout {
		t.Errorf("ShutdownDrainDuration = %v, must be >= emitTimeout %v", ShutdownDrainDuration, emitTimeout)
	}
}

func TestMultiEmitter_FansOut(t *testing.T) {
	a := &mockEventEmitter{}
	b := &mockEventEmitter{emitErr: errors.New("b failed")}
	c := &mockEventEmitter{}
	m := MultiEmitter{a, nil, b, c}

	err := m.Emit(context.Background(), &domain.Event{Type: domain.EventLogout})
	if err == nil {
		t.Fatal("expected joined error from failing emitter")
	}
	for name, e := range map[string]*mockEventEmitter{"a": a, "b": b, "c": c} {
		if n := len(e.getEvents()); n != 1 {
			t.Errorf("emitter %s got %d events, want 1", name, n)
		}
	}
}

func TestMultiEmitter_Empty(t *testing.T) {
	if err := (MultiEmitter{}).Emit(context.Background(), &domain.Event{}); err != nil {
		t.Errorf("empty MultiEmitter Emit: %v", err)
	}
}
