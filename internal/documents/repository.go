package documents

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Repository persists documents as payload rows with lifted query columns.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, doc Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return shared.WrapPersistence("documents.encode", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO project_documents (id, project_id, doc_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.ProjectID, string(doc.Type), payload, doc.CreatedAt,
	)
	return shared.WrapPersistence("documents.create", err)
}

func (r *Repository) Get(ctx context.Context, id string) (Document, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM project_documents WHERE id = $1`, id,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, shared.ErrNotFound
	}
	if err != nil {
		return Document{}, shared.WrapPersistence("documents.get", err)
	}
	return decode(payload)
}

func (r *Repository) ListByProject(ctx context.Context, projectID string) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT payload FROM project_documents
		WHERE project_id = $1
		ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, shared.WrapPersistence("documents.list", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, shared.WrapPersistence("documents.list", err)
		}
		doc, err := decode(payload)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, shared.WrapPersistence("documents.list", rows.Err())
}

// UpdateLinks rewrites linkedBOMItems inside the payload in one statement,
// so each document's link list changes atomically.
func (r *Repository) UpdateLinks(ctx context.Context, id string, bomItemIDs []string) error {
	ids, err := json.Marshal(bomItemIDs)
	if err != nil {
		return shared.WrapPersistence("documents.encode", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE project_documents
		SET payload = jsonb_set(payload, '{linkedBOMItems}', $2::jsonb)
		WHERE id = $1`,
		id, ids,
	)
	if err != nil {
		return shared.WrapPersistence("documents.update_links", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM project_documents WHERE id = $1`, id)
	if err != nil {
		return shared.WrapPersistence("documents.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func decode(payload []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Document{}, shared.WrapPersistence("documents.decode", err)
	}
	return doc, nil
}
