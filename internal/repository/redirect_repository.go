package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qrbaker/internal/entities"
)

type RedirectRepository struct {
	db *pgxpool.Pool
}

func NewRedirectRepository(db *pgxpool.Pool) *RedirectRepository {
	return &RedirectRepository{db: db}
}

func (r *RedirectRepository) Insert(ctx context.Context, e *entities.RedirectEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO redirects (short_code, user_id, destination, label, active, clicks, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ShortCode, e.UserID, e.Destination, e.Label, e.Active, e.Clicks, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *RedirectRepository) GetByCode(ctx context.Context, code string) (*entities.RedirectEntry, error) {
	var e entities.RedirectEntry
	err := r.db.QueryRow(ctx,
		`SELECT short_code, user_id, destination, label, active, clicks, created_at, updated_at
		 FROM redirects WHERE short_code = $1`,
		code).Scan(&e.ShortCode, &e.UserID, &e.Destination, &e.Label, &e.Active, &e.Clicks, &e.CreatedAt, &e.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *RedirectRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM redirects WHERE short_code = $1)", code).Scan(&exists)
	return exists, err
}

func (r *RedirectRepository) UpdateDestination(ctx context.Context, code, destination string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE redirects SET destination = $2, updated_at = NOW() WHERE short_code = $1",
		code, destination)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// IncrementClicks is a single atomic update; the visit counter tolerates
// loss on storage failure but never read-then-write races.
func (r *RedirectRepository) IncrementClicks(ctx context.Context, code string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE redirects SET clicks = clicks + 1 WHERE short_code = $1", code)
	return err
}

func (r *RedirectRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM redirects WHERE short_code = $1", code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}
