package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Daniel-Kats256/simulations/internal/simulations/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed simulation record store.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

var _ Store = (*Repo)(nil)

const recordColumns = `
s.id::text, s.name, s.type, s.config, s.owner_id::text,
coalesce(u.name, ''), coalesce(u.username, ''),
s.status, coalesce(s.result, ''), s.created_at, s.updated_at`

func (r *Repo) Create(ctx context.Context, rec *domain.SimulationRecord) error {
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

	cfg, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	const q = `
insert into simulations (id, name, type, config, owner_id, status, result, created_at, updated_at)
values ($1::uuid, $2, $3, $4, $5::uuid, $6, $7, $8, $9);
`
	_, err = r.db.Exec(ctx, q,
		rec.ID, rec.Name, rec.Type, cfg, rec.OwnerID, rec.Status, rec.Result,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.SimulationRecord, error) {
	q := `
select ` + recordColumns + `
from simulations s
left join users u on u.id = s.owner_id
where s.id = $1::uuid;
`
	rec, err := scanRecord(r.db.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get simulation: %w", err)
	}
	return rec, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]domain.SimulationRecord, error) {
	q := `
select ` + recordColumns + `
from simulations s
left join users u on u.id = s.owner_id
order by s.created_at desc;
`
	return r.queryRecords(ctx, q)
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.SimulationRecord, error) {
	q := `
select ` + recordColumns + `
from simulations s
left join users u on u.id = s.owner_id
where s.owner_id = $1::uuid
order by s.created_at desc;
`
	return r.queryRecords(ctx, q, ownerID)
}

func (r *Repo) UpdateResult(ctx context.Context, id, status, result string) error {
	const q = `
update simulations
set status = $2, result = $3, updated_at = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, id, status, result)
	if err != nil {
		return fmt.Errorf("update simulation result: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, id string, patch Patch) error {
	const q = `
update simulations
set
  name = coalesce($2, name),
  status = coalesce($3, status),
  result = coalesce($4, result),
  updated_at = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, id, patch.Name, patch.Status, patch.Result)
	if err != nil {
		return fmt.Errorf("update simulation: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	const q = `delete from simulations where id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete simulation: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) CountByStatus(ctx context.Context) (Counts, error) {
	const q = `
select
  count(*),
  count(*) filter (where status = 'completed'),
  count(*) filter (where status = 'failed'),
  count(*) filter (where status = 'running')
from simulations;
`
	var c Counts
	err := r.db.QueryRow(ctx, q).Scan(&c.Total, &c.Completed, &c.Failed, &c.Running)
	if err != nil {
		return Counts{}, fmt.Errorf("count simulations: %w", err)
	}
	return c, nil
}

func (r *Repo) FindStuck(ctx context.Context, olderThan time.Time) ([]domain.SimulationRecord, error) {
	q := `
select ` + recordColumns + `
from simulations s
left join users u on u.id = s.owner_id
where s.status = 'running' and s.updated_at < $1
order by s.updated_at asc;
`
	return r.queryRecords(ctx, q, olderThan)
}

func (r *Repo) queryRecords(ctx context.Context, q string, args ...interface{}) ([]domain.SimulationRecord, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query simulations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SimulationRecord, 0, 16)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan simulation: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (*domain.SimulationRecord, error) {
	var rec domain.SimulationRecord
	var cfg []byte
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Type, &cfg, &rec.OwnerID,
		&rec.OwnerName, &rec.OwnerUsername,
		&rec.Status, &rec.Result, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &rec.Config); err != nil {
			// config is opaque pass-through; a corrupt blob should not
			// make the record unreadable
			rec.Config = nil
		}
	}
	return &rec, nil
}
