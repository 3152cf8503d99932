package integration

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// RecordUsage is the store-side atomic increment: concurrent ingest workers
// referencing the same integration serialize on the row, so no updates are
// lost to read-modify-write races.
func (r *PostgresRepo) RecordUsage(ctx context.Context, in *Integration) error {
	query := `INSERT INTO integrations (name, display_name, category, usage_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (name) DO UPDATE SET usage_count = integrations.usage_count + 1`
	_, err := r.db.ExecContext(ctx, query, in.Name, in.DisplayName, in.Category)
	return err
}

func (r *PostgresRepo) List(ctx context.Context, limit int, sortBy, sortOrder string) ([]Integration, error) {
	// Whitelisted ORDER BY; anything unrecognized falls back to usage
	// descending.
	order := "usage_count DESC"
	switch {
	case sortBy == "name" && sortOrder == "desc":
		order = "name DESC"
	case sortBy == "name":
		order = "name ASC"
	case sortBy == "usageCount" && sortOrder == "asc":
		order = "usage_count ASC"
	}

	query := fmt.Sprintf(`SELECT name, display_name, category, usage_count FROM integrations ORDER BY %s LIMIT $1`, order)
	return r.list(ctx, query, limit)
}

func (r *PostgresRepo) Top(ctx context.Context, n int) ([]Integration, error) {
	query := `SELECT name, display_name, category, usage_count FROM integrations ORDER BY usage_count DESC LIMIT $1`
	return r.list(ctx, query, n)
}

func (r *PostgresRepo) list(ctx context.Context, query string, limit int) ([]Integration, error) {
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Integration
	for rows.Next() {
		var in Integration
		if err := rows.Scan(&in.Name, &in.DisplayName, &in.Category, &in.UsageCount); err != nil {
			return nil, err
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM integrations`).Scan(&count)
	return count, err
}
