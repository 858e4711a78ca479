package store

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/finwise/internal/progress"
)

// MemoryProgress is an in-process progress.Store for tests and ephemeral
// runs.
type MemoryProgress struct {
	mu      sync.RWMutex
	records map[string]*progress.Record
}

// NewMemoryProgress returns an empty store.
func NewMemoryProgress() *MemoryProgress {
	return &MemoryProgress{records: make(map[string]*progress.Record)}
}

func (m *MemoryProgress) Get(_ context.Context, userID string) (*progress.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[userID]
	if !ok {
		return nil, progress.ErrRecordNotFound
	}
	return r.Clone(), nil
}

func (m *MemoryProgress) Update(_ context.Context, userID string, p progress.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[userID]
	if !ok {
		r = progress.NewRecord()
	}
	next := r.Clone()
	if err := p.Apply(next, time.Now().UTC()); err != nil {
		return err
	}
	m.records[userID] = next
	return nil
}
