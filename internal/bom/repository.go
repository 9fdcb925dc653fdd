package bom

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Repository persists one BOM document per project. The category list is a
// single JSONB value, so reads and writes are whole-document and atomic.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get loads the project BOM. A project without a stored BOM yields an empty
// category list, not an error.
func (r *Repository) Get(ctx context.Context, projectID string) ([]Category, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT categories FROM project_boms WHERE project_id = $1`,
		projectID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return []Category{}, nil
	}
	if err != nil {
		return nil, shared.WrapPersistence("bom.get", err)
	}
	var categories []Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		return nil, shared.WrapPersistence("bom.decode", err)
	}
	return categories, nil
}

// ListProjectIDs returns every project with a stored BOM.
func (r *Repository) ListProjectIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT project_id FROM project_boms ORDER BY project_id`)
	if err != nil {
		return nil, shared.WrapPersistence("bom.list_projects", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, shared.WrapPersistence("bom.list_projects", err)
		}
		ids = append(ids, id)
	}
	return ids, shared.WrapPersistence("bom.list_projects", rows.Err())
}

// Save upserts the whole BOM document for a project.
func (r *Repository) Save(ctx context.Context, projectID string, categories []Category) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return shared.WrapPersistence("bom.encode", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO project_boms (project_id, categories, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (project_id)
		DO UPDATE SET categories = EXCLUDED.categories, updated_at = now()`,
		projectID, payload,
	)
	return shared.WrapPersistence("bom.save", err)
}
