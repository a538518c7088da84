package users

import (
	"context"
	"fmt"

	"github.com/Daniel-Kats256/simulations/internal/auth/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo provides the admin-facing user operations. Deleting a user relies
// on the simulations foreign key (ON DELETE CASCADE) to remove every
// record that user owns.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Summary is the public projection of a user (no password hash).
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (r *Repo) List(ctx context.Context) ([]Summary, error) {
	const q = `
select id::text, name, username, role
from users
order by created_at asc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0, 16)
	for rows.Next() {
		var u Summary
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateRole(ctx context.Context, id, role string) error {
	if !domain.ValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}

	const q = `
update users
set role = $2, updated_at = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, id, role)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	const q = `delete from users where id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
