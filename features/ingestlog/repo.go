package ingestlog

import (
	"context"
	"database/sql"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Save(ctx context.Context, e *Entry) error {
	query := `INSERT INTO ingest_failures (path, cause) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, e.Path, e.Cause).Scan(&e.ID, &e.CreatedAt)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Entry, error) {
	query := `SELECT id, path, cause, created_at FROM ingest_failures ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.Cause, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ingest_failures`)
	return err
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingest_failures`).Scan(&count)
	return count, err
}
