package revocation

import (
	"context"
	"log"
	"time"
)

// sweepTimeout bounds a single sweep so a slow database cannot pile up runs.
const sweepTimeout = 30 * time.Second

// Sweeper is the subset of Store the background worker needs.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
}

// RunSweeper deletes expired revocation records once immediately and then every interval until ctx is done.
// interval <= 0 disables the worker. Blocks; run it in its own goroutine.
func RunSweeper(ctx context.Context, s Sweeper, interval time.Duration) {
	if s == nil || interval <= 0 {
		log.Println("revocation: sweeper disabled")
		return
	}
	log.Printf("revocation: sweeper started (every %s)", interval)
	sweepOnce(ctx, s)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("revocation: sweeper stopped")
			return
		case <-ticker.C:
			sweepOnce(ctx, s)
		}
	}
}

func sweepOnce(ctx context.Context, s Sweeper) {
	sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()
	n, err := s.Sweep(sweepCtx, time.Now())
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("revocation: sweep failed: %v", err)
		}
		return
	}
	if n > 0 {
		log.Printf("revocation: swept %d expired records", n)
	}
}
