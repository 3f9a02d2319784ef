// Package producer defines the interface for streaming auth events to a broker (e.g. Kafka).
package producer

import (
	"context"

	"github.com/MohamedAliSmk/pos-app/internal/telemetry/domain"
)

// Producer emits auth events. Callers use it best-effort: log and ignore errors.
// A Producer satisfies telemetry.EventEmitter.
type Producer interface {
	// Emit sends a single event. Implementations may block briefly; call from a goroutine if needed.
	Emit(ctx context.Context, event *domain.Event) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}
