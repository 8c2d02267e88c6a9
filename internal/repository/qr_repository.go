package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qrbaker/internal/entities"
)

type QRRepository struct {
	db *pgxpool.Pool
}

func NewQRRepository(db *pgxpool.Pool) *QRRepository {
	return &QRRepository{db: db}
}

func (r *QRRepository) Insert(ctx context.Context, rec *entities.QRRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO qr_codes (id, user_id, type, content, label, data_url, is_dynamic, short_code, destination, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.UserID, rec.Kind, rec.Content, rec.Label, rec.DataURL,
		rec.IsDynamic, nullIfEmpty(rec.ShortCode), nullIfEmpty(rec.Destination), rec.CreatedAt)
	return err
}

func (r *QRRepository) GetByID(ctx context.Context, id string) (*entities.QRRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, type, content, label, data_url, is_dynamic, short_code, destination, created_at
		 FROM qr_codes WHERE id = $1`, id)

	rec, err := scanQRRecord(row)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *QRRepository) ListByOwner(ctx context.Context, ownerID string, since time.Time, limit int) ([]entities.QRRecord, error) {
	query := `SELECT id, user_id, type, content, label, data_url, is_dynamic, short_code, destination, created_at
		 FROM qr_codes WHERE user_id = $1`
	args := []any{ownerID}

	if !since.IsZero() {
		args = append(args, since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []entities.QRRecord{}
	for rows.Next() {
		rec, err := scanQRRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *QRRepository) UpdateDestination(ctx context.Context, shortCode, destination string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE qr_codes SET destination = $2 WHERE short_code = $1", shortCode, destination)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *QRRepository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM qr_codes WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// pgx.Row and pgx.Rows share Scan
type scannable interface {
	Scan(dest ...any) error
}

func scanQRRecord(row scannable) (*entities.QRRecord, error) {
	var rec entities.QRRecord
	var shortCode, destination *string
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.Content, &rec.Label,
		&rec.DataURL, &rec.IsDynamic, &shortCode, &destination, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if shortCode != nil {
		rec.ShortCode = *shortCode
	}
	if destination != nil {
		rec.Destination = *destination
	}
	return &rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
