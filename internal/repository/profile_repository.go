package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qrbaker/internal/entities"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p *entities.UserProfile) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (id, email, display_name, password_hash, plan, qr_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Email, p.DisplayName, p.PasswordHash, p.Plan, p.QRCount, p.CreatedAt)
	return err
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	return r.get(ctx, "id", id)
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*entities.UserProfile, error) {
	return r.get(ctx, "email", email)
}

func (r *ProfileRepository) get(ctx context.Context, column, value string) (*entities.UserProfile, error) {
	var p entities.UserProfile
	err := r.db.QueryRow(ctx,
		`SELECT id, email, display_name, password_hash, plan, qr_count, created_at
		 FROM profiles WHERE `+column+` = $1`,
		value).Scan(&p.ID, &p.Email, &p.DisplayName, &p.PasswordHash, &p.Plan, &p.QRCount, &p.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) UpdatePlan(ctx context.Context, id string, plan entities.Plan) error {
	tag, err := r.db.Exec(ctx, "UPDATE profiles SET plan = $2 WHERE id = $1", id, plan)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// IncrementUsage bumps qr_count in one conditional statement so that two
// concurrent creations from the same account cannot both slip under the
// limit. limit < 0 means unbounded.
func (r *ProfileRepository) IncrementUsage(ctx context.Context, id string, limit int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET qr_count = qr_count + 1
		 WHERE id = $1 AND ($2 < 0 OR qr_count < $2)`,
		id, limit)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DecrementUsage floors at zero inside the statement itself.
func (r *ProfileRepository) DecrementUsage(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE profiles SET qr_count = GREATEST(qr_count - 1, 0) WHERE id = $1", id)
	return err
}
