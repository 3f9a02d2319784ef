package repository

import (
	"context"
	"sync"
	"time"

	"github.com/MohamedAliSmk/pos-app/internal/revocation/domain"
)

// MemoryRepository is an in-memory Repository for tests and single-process demos.
// Records do not survive a restart.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]domain.Record
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]domain.Record)}
}

func (m *MemoryRepository) Insert(ctx context.Context, r *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.Fingerprint]; ok {
		return nil
	}
	m.records[r.Fingerprint] = *r
	return nil
}

func (m *MemoryRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[fingerprint]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for fp, r := range m.records {
		if !r.ExpiresAt.After(now) {
			delete(m.records, fp)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored records.
func (m *MemoryRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

var _ Repository = (*MemoryRepository)(nil)
