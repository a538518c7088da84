package repository

import (
	"context"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
)

// Patch is a partial update applied to a stored record. Nil fields are
// left untouched; updated_at always advances on a successful patch.
type Patch struct {
	Name   *string
	Status *string
	Result *string
}

// Counts summarizes record statuses for the diagnostics stats view.
type Counts struct {
	Total     int
	Completed int
	Failed    int
	Running   int
}

// Store is the simulation record store contract shared by the Postgres
// and in-memory implementations. Every operation is a single atomic read
// or write; update never exposes interleaved partial writes for a record.
type Store interface {
	Create(ctx context.Context, rec *domain.SimulationRecord) error
	GetByID(ctx context.Context, id string) (*domain.SimulationRecord, error)
	ListAll(ctx context.Context) ([]domain.SimulationRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.SimulationRecord, error)
	UpdateResult(ctx context.Context, id, status, result string) error
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (Counts, error)
	FindStuck(ctx context.Context, olderThan time.Time) ([]domain.SimulationRecord, error)
}
