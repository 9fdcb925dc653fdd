package crm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Repository persists leads as payload rows with a lifted stage column for
// pipeline filters.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, lead Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return shared.WrapPersistence("crm.encode", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO leads (id, stage, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		lead.ID, string(lead.Stage), payload, lead.CreatedAt, lead.UpdatedAt,
	)
	return shared.WrapPersistence("crm.create", err)
}

func (r *Repository) Get(ctx context.Context, id string) (Lead, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM leads WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, shared.ErrNotFound
	}
	if err != nil {
		return Lead{}, shared.WrapPersistence("crm.get", err)
	}
	var lead Lead
	if err := json.Unmarshal(payload, &lead); err != nil {
		return Lead{}, shared.WrapPersistence("crm.decode", err)
	}
	return lead, nil
}

func (r *Repository) List(ctx context.Context, stage Stage) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT payload FROM leads
		WHERE $1 = '' OR stage = $1
		ORDER BY created_at DESC`,
		string(stage),
	)
	if err != nil {
		return nil, shared.WrapPersistence("crm.list", err)
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, shared.WrapPersistence("crm.list", err)
		}
		var lead Lead
		if err := json.Unmarshal(payload, &lead); err != nil {
			return nil, shared.WrapPersistence("crm.decode", err)
		}
		leads = append(leads, lead)
	}
	return leads, shared.WrapPersistence("crm.list", rows.Err())
}

func (r *Repository) Update(ctx context.Context, lead Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return shared.WrapPersistence("crm.encode", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET stage = $2, payload = $3, updated_at = $4 WHERE id = $1`,
		lead.ID, string(lead.Stage), payload, lead.UpdatedAt,
	)
	if err != nil {
		return shared.WrapPersistence("crm.update", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
