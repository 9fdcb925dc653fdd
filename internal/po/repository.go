package po

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Repository provides PostgreSQL backed persistence. Purchase orders are
// stored as JSONB payloads with the query columns lifted out, so a write is
// one atomic row update.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ErrDuplicateNumber indicates a PO number collision on insert. Typed so
// handlers respond 409.
var ErrDuplicateNumber error = shared.NewInvalidStateError("purchase order", "po number already exists")

// Create inserts a new purchase order.
func (r *Repository) Create(ctx context.Context, order PurchaseOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("po: marshal order: %w", err)
	}
	const query = `
		INSERT INTO purchase_orders (id, project_id, po_number, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.pool.Exec(ctx, query, order.ID, order.ProjectID, order.PONumber, string(order.Status), payload, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateNumber
		}
		return shared.WrapPersistence("create po", err)
	}
	return nil
}

// Get fetches one purchase order by id.
func (r *Repository) Get(ctx context.Context, id string) (PurchaseOrder, error) {
	const query = `SELECT payload FROM purchase_orders WHERE id = $1`
	var payload []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, shared.ErrNotFound
		}
		return PurchaseOrder{}, shared.WrapPersistence("load po", err)
	}
	var order PurchaseOrder
	if err := json.Unmarshal(payload, &order); err != nil {
		return PurchaseOrder{}, fmt.Errorf("po: unmarshal order: %w", err)
	}
	return order, nil
}

// Update rewrites the stored payload and query columns in one statement.
func (r *Repository) Update(ctx context.Context, order PurchaseOrder) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("po: marshal order: %w", err)
	}
	const query = `
		UPDATE purchase_orders
		SET status = $2, payload = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, order.ID, string(order.Status), payload, order.UpdatedAt)
	if err != nil {
		return shared.WrapPersistence("update po", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetPDFURL records the storage key of the rendered PDF inside the payload.
func (r *Repository) SetPDFURL(ctx context.Context, id, url string) error {
	const query = `
		UPDATE purchase_orders
		SET payload = jsonb_set(payload, '{pdfUrl}', to_jsonb($2::text)), updated_at = now()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, url)
	if err != nil {
		return shared.WrapPersistence("set po pdf url", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns project purchase orders, newest first. An empty status
// returns all.
func (r *Repository) List(ctx context.Context, projectID string, status Status) ([]PurchaseOrder, error) {
	query := `SELECT payload FROM purchase_orders WHERE project_id = $1`
	args := []any{projectID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapPersistence("list pos", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, shared.WrapPersistence("scan po", err)
		}
		var order PurchaseOrder
		if err := json.Unmarshal(payload, &order); err != nil {
			return nil, fmt.Errorf("po: unmarshal order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapPersistence("list pos", err)
	}
	return orders, nil
}
