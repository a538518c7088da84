package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the two tables on startup when they do not exist yet.
// Deleting a user cascades to every simulation that user launched.
const schema = `
create table if not exists users (
    id            uuid primary key default gen_random_uuid(),
    name          text not null,
    username      text not null unique,
    password_hash text not null,
    role          text not null default 'viewer',
    created_at    timestamptz not null default now(),
    updated_at    timestamptz not null default now()
);

create table if not exists simulations (
    id         uuid primary key,
    name       text not null,
    type       text not null,
    config     jsonb,
    owner_id   uuid not null references users(id) on delete cascade,
    status     text not null default 'pending',
    result     text,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);

create index if not exists idx_simulations_owner on simulations(owner_id);
create index if not exists idx_simulations_status_updated on simulations(status, updated_at);
`

// EnsureSchema applies the schema idempotently.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
