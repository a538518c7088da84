package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-memory Store. It backs tests and local
// development; the lifecycle and integrity services only see the Store
// contract and behave identically over either implementation.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*domain.SimulationRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]*domain.SimulationRecord)}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Create(_ context.Context, rec *domain.SimulationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.SimulationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory) ListAll(_ context.Context) ([]domain.SimulationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*domain.SimulationRecord) bool { return true }), nil
}

func (m *Memory) ListByOwner(_ context.Context, ownerID string) ([]domain.SimulationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(r *domain.SimulationRecord) bool { return r.OwnerID == ownerID }), nil
}

func (m *Memory) UpdateResult(_ context.Context, id, status, result string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = status
	rec.Result = result
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) Update(_ context.Context, id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.Result != nil {
		rec.Result = *patch.Result
	}
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *Memory) CountByStatus(_ context.Context) (Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var c Counts
	for _, rec := range m.records {
		c.Total++
		switch rec.Status {
		case domain.StatusCompleted:
			c.Completed++
		case domain.StatusFailed:
			c.Failed++
		case domain.StatusRunning:
			c.Running++
		}
	}
	return c, nil
}

func (m *Memory) FindStuck(_ context.Context, olderThan time.Time) ([]domain.SimulationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(r *domain.SimulationRecord) bool {
		return r.Status == domain.StatusRunning && r.UpdatedAt.Before(olderThan)
	}), nil
}

// DeleteByOwner removes every record owned by the given user, mirroring
// the database's ON DELETE CASCADE for tests running without Postgres.
func (m *Memory) DeleteByOwner(_ context.Context, ownerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, rec := range m.records {
		if rec.OwnerID == ownerID {
			delete(m.records, id)
			n++
		}
	}
	return n
}

// collect snapshots matching records, newest first. Caller holds the lock.
func (m *Memory) collect(match func(*domain.SimulationRecord) bool) []domain.SimulationRecord {
	out := make([]domain.SimulationRecord, 0, len(m.records))
	for _, rec := range m.records {
		if match(rec) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
