package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"flowdex/backend/internal/classify"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Upsert(ctx context.Context, w *Workflow) error {
	query := `INSERT INTO workflows (id, name, description, category, trigger_type, node_count, active, tags, integrations, search_text, workflow_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			trigger_type = EXCLUDED.trigger_type,
			node_count = EXCLUDED.node_count,
			active = EXCLUDED.active,
			tags = EXCLUDED.tags,
			integrations = EXCLUDED.integrations,
			search_text = EXCLUDED.search_text,
			workflow_data = EXCLUDED.workflow_data,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.Name, w.Description, w.Category, string(w.TriggerType), w.NodeCount,
		w.Active, w.RawTags, w.RawIntegrations, w.SearchText, []byte(w.WorkflowData))
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*Workflow, error) {
	w := &Workflow{}
	var data []byte
	query := `SELECT id, name, description, category, trigger_type, node_count, active, tags, integrations, search_text, workflow_data, created_at, updated_at FROM workflows WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&w.ID, &w.Name, &w.Description, &w.Category, &w.TriggerType, &w.NodeCount,
		&w.Active, &w.RawTags, &w.RawIntegrations, &w.SearchText, &data,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.WorkflowData = data
	return w, nil
}

// Search runs the filtered, sorted, paginated query plus a matching COUNT.
// All filtering happens store-side; the application never pulls the full
// table.
func (r *PostgresRepo) Search(ctx context.Context, q SearchQuery) ([]Workflow, int, error) {
	where, args := buildWhere(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM workflows` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "ASC"
	if q.SortDesc {
		order = "DESC"
	}
	// SortColumn comes from the service-level whitelist, never from request
	// input directly.
	query := fmt.Sprintf(`SELECT id, name, description, category, trigger_type, node_count, active, tags, integrations, created_at, updated_at FROM workflows%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, q.SortColumn, order, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var workflows []Workflow
	for rows.Next() {
		var w Workflow
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.Category, &w.TriggerType,
			&w.NodeCount, &w.Active, &w.RawTags, &w.RawIntegrations, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, err
		}
		workflows = append(workflows, w)
	}
	return workflows, total, rows.Err()
}

// escapeLike neutralizes LIKE metacharacters in user input so a filter
// matches the literal substring. Postgres treats backslash as the escape
// character by default.
var escapeLike = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func buildWhere(q SearchQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Text != "" {
		args = append(args, "%"+escapeLike.Replace(q.Text)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%[1]d OR description ILIKE $%[1]d OR search_text ILIKE $%[1]d OR tags ILIKE $%[1]d)", n))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.Integration != "" {
		// Substring match against the serialized list, same semantics the
		// catalog has always had.
		args = append(args, "%"+escapeLike.Replace(strings.ToLower(q.Integration))+"%")
		conds = append(conds, fmt.Sprintf("integrations ILIKE $%d", len(args)))
	}
	if q.TriggerType != "" {
		args = append(args, q.TriggerType)
		conds = append(conds, fmt.Sprintf("trigger_type = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepo) Categories(ctx context.Context) ([]CategoryCount, error) {
	query := `SELECT category, COUNT(*) FROM workflows GROUP BY category ORDER BY COUNT(*) DESC`
	return r.categoryCounts(ctx, query)
}

func (r *PostgresRepo) TopCategories(ctx context.Context, n int) ([]CategoryCount, error) {
	query := `SELECT category, COUNT(*) FROM workflows GROUP BY category ORDER BY COUNT(*) DESC LIMIT $1`
	return r.categoryCounts(ctx, query, n)
}

func (r *PostgresRepo) categoryCounts(ctx context.Context, query string, args ...any) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workflows`).Scan(&count)
	return count, err
}

func (r *PostgresRepo) CountCategories(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT category) FROM workflows`).Scan(&count)
	return count, err
}

func (r *PostgresRepo) TriggerTypeCounts(ctx context.Context) ([]TriggerTypeCount, error) {
	query := `SELECT trigger_type, COUNT(*) FROM workflows GROUP BY trigger_type ORDER BY COUNT(*) DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []TriggerTypeCount
	for rows.Next() {
		var t TriggerTypeCount
		if err := rows.Scan(&t.Type, &t.Count); err != nil {
			return nil, err
		}
		counts = append(counts, t)
	}
	return counts, rows.Err()
}

func (r *PostgresRepo) AvgNodeCount(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(AVG(node_count), 0) FROM workflows`).Scan(&avg)
	return avg, err
}

// ComplexityCounts buckets the store by the classifier's node-count
// boundaries in a single pass.
func (r *PostgresRepo) ComplexityCounts(ctx context.Context) (simple, medium, complex int, err error) {
	query := `SELECT
		COUNT(*) FILTER (WHERE node_count <= $1),
		COUNT(*) FILTER (WHERE node_count > $1 AND node_count <= $2),
		COUNT(*) FILTER (WHERE node_count > $2)
		FROM workflows`
	err = r.db.QueryRowContext(ctx, query, classify.SimpleMaxNodes, classify.MediumMaxNodes).Scan(&simple, &medium, &complex)
	return simple, medium, complex, err
}
